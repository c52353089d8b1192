package market

import (
	"sync"

	"github.com/dkoval/suipaper/internal/entity"
)

// keep only the most recent trades per user so a long session does not grow
// memory without bound
const journalCapPerUser = 100

// tradeJournal records executed trades per user, in memory only. It is an
// audit trail for display, never a source of truth: portfolio state lives in
// the store and is not rebuilt from the journal.
type tradeJournal struct {
	mu     sync.Mutex
	byUser map[string][]entity.TradeResult
}

func newTradeJournal() *tradeJournal {
	return &tradeJournal{byUser: make(map[string][]entity.TradeResult)}
}

func (j *tradeJournal) append(trade entity.TradeResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	trades := append(j.byUser[trade.UserID], trade)
	if len(trades) > journalCapPerUser {
		trades = trades[len(trades)-journalCapPerUser:]
	}
	j.byUser[trade.UserID] = trades
}

func (j *tradeJournal) list(userID string) []entity.TradeResult {
	j.mu.Lock()
	defer j.mu.Unlock()

	trades := j.byUser[userID]
	out := make([]entity.TradeResult, len(trades))
	copy(out, trades)
	return out
}

func (j *tradeJournal) clear(userID string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.byUser, userID)
}
