package portfolio

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dkoval/suipaper/internal/entity"
)

// Store holds every user's portfolio in memory. Portfolios are created
// lazily on first access with the configured initial cash and live only for
// the process lifetime; a restart resets all of them, which is documented
// behavior, not a bug.
//
// The store mutex guards only the user map. Each account carries its own
// mutex, so one user's operations serialize while different users proceed
// without coordination.
type Store struct {
	mu          sync.Mutex
	initialCash decimal.Decimal
	accounts    map[string]*account
}

type account struct {
	mu       sync.Mutex
	cash     decimal.Decimal
	holdings map[string]*holding
}

type holding struct {
	quantity decimal.Decimal
	avgPrice decimal.Decimal
}

// NewStore creates an empty portfolio store.
func NewStore(initialCash decimal.Decimal) (*Store, error) {
	if initialCash.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("initial cash must be positive, got %s", initialCash.String())
	}
	return &Store{
		initialCash: initialCash,
		accounts:    make(map[string]*account),
	}, nil
}

func (s *Store) getOrCreate(userID string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		acc = &account{
			cash:     s.initialCash,
			holdings: make(map[string]*holding),
		}
		s.accounts[userID] = acc
	}
	return acc
}

// ApplyBuy debits cost from the user's cash and credits quantity of symbol,
// updating the volume-weighted average purchase price. Validation happens
// before any mutation, so a failed buy leaves the account untouched.
func (s *Store) ApplyBuy(userID, symbol string, quantity, cost, price decimal.Decimal) (decimal.Decimal, error) {
	acc := s.getOrCreate(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, errors.Wrapf(entity.ErrInvalidQuantity, "buy quantity %s", quantity.String())
	}
	if cost.GreaterThan(acc.cash) {
		return decimal.Decimal{}, errors.Wrapf(entity.ErrInsufficientFunds, "have %s need %s", acc.cash.String(), cost.String())
	}

	h, ok := acc.holdings[symbol]
	if !ok {
		h = &holding{quantity: decimal.Zero, avgPrice: decimal.Zero}
		acc.holdings[symbol] = h
	}

	total := h.quantity.Add(quantity)
	h.avgPrice = h.avgPrice.Mul(h.quantity).Add(price.Mul(quantity)).Div(total)
	h.quantity = total
	acc.cash = acc.cash.Sub(cost)

	return acc.cash, nil
}

// ApplySell debits quantity of symbol from the user's holdings and credits
// quantity*price to cash. A position sold down to zero is removed.
func (s *Store) ApplySell(userID, symbol string, quantity, price decimal.Decimal) (decimal.Decimal, error) {
	acc := s.getOrCreate(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, errors.Wrapf(entity.ErrInvalidQuantity, "sell quantity %s", quantity.String())
	}
	h, ok := acc.holdings[symbol]
	if !ok || quantity.GreaterThan(h.quantity) {
		held := decimal.Zero
		if ok {
			held = h.quantity
		}
		return decimal.Decimal{}, errors.Wrapf(entity.ErrInsufficientHoldings, "have %s %s, tried to sell %s", held.String(), symbol, quantity.String())
	}

	h.quantity = h.quantity.Sub(quantity)
	if h.quantity.IsZero() {
		delete(acc.holdings, symbol)
	}
	acc.cash = acc.cash.Add(quantity.Mul(price))

	return acc.cash, nil
}

// Reset restores the user's portfolio to the initial cash and no holdings.
func (s *Store) Reset(userID string) {
	acc := s.getOrCreate(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	acc.cash = s.initialCash
	acc.holdings = make(map[string]*holding)
}

// Held returns the quantity of symbol the user currently holds.
func (s *Store) Held(userID, symbol string) decimal.Decimal {
	acc := s.getOrCreate(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	h, ok := acc.holdings[symbol]
	if !ok {
		return decimal.Zero
	}
	return h.quantity
}

// Snapshot values the user's portfolio at the given quotes. Holdings appear
// in quote (catalog) order. Total PnL is measured against the initial cash
// endowment; per-holding PnL against the average purchase price.
func (s *Store) Snapshot(userID string, quotes []entity.Quote) entity.PortfolioSnapshot {
	acc := s.getOrCreate(userID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	snapshot := entity.PortfolioSnapshot{
		UserID: userID,
		Cash:   acc.cash,
	}
	total := acc.cash
	for _, q := range quotes {
		h, ok := acc.holdings[q.Symbol]
		if !ok {
			continue
		}
		value := h.quantity.Mul(q.Price)
		total = total.Add(value)
		snapshot.Holdings = append(snapshot.Holdings, entity.HoldingView{
			Symbol:   q.Symbol,
			Name:     q.Name,
			Quantity: h.quantity,
			AvgPrice: h.avgPrice,
			Price:    q.Price,
			Value:    value,
			PnL:      q.Price.Sub(h.avgPrice).Mul(h.quantity),
		})
	}
	snapshot.TotalValue = total
	snapshot.PnL = total.Sub(s.initialCash)
	return snapshot
}
