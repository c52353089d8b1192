package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side marks the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeResult describes a single executed trade.
type TradeResult struct {
	ID       string
	UserID   string
	Side     Side
	Symbol   string
	Quantity decimal.Decimal
	// Price is the token price the trade executed at.
	Price decimal.Decimal
	// CashDelta is the base-currency amount spent (buy) or received (sell),
	// always positive.
	CashDelta decimal.Decimal
	// CashBalance is the user's cash balance after the trade.
	CashBalance decimal.Decimal
	Time        time.Time
}

func (t *TradeResult) String() string {
	return fmt.Sprintf("%s %s %s at %s for %s", t.Side, t.Quantity.String(), t.Symbol, t.Price.String(), t.CashDelta.String())
}
