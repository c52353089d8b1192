package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dkoval/suipaper/internal/entity"
	"github.com/dkoval/suipaper/internal/services/portfolio"
	"github.com/dkoval/suipaper/internal/services/pricer"
)

// Market is the single entry point for all trading operations. It owns the
// token catalog, advances prices and routes validated buy/sell/reset/view
// requests to the portfolio store.
//
// Prices advance lazily: every market operation starts with one price tick,
// so within one operation all tokens are evaluated on the same snapshot.
// There is no background cadence.
type Market struct {
	logger  *zap.Logger
	pricer  pricer.Pricer
	store   *portfolio.Store
	catalog []entity.Token
	journal *tradeJournal
}

// New creates a market over the given pricer and portfolio store.
func New(catalog []entity.Token, p pricer.Pricer, store *portfolio.Store, logger *zap.Logger) (*Market, error) {
	if len(catalog) == 0 {
		return nil, errors.New("token catalog is empty")
	}
	if p == nil {
		return nil, errors.New("pricer is required")
	}
	if store == nil {
		return nil, errors.New("portfolio store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Market{
		logger:  logger,
		pricer:  p,
		store:   store,
		catalog: catalog,
		journal: newTradeJournal(),
	}, nil
}

// Catalog returns the configured tokens in their stable listing order.
func (m *Market) Catalog() []entity.Token {
	out := make([]entity.Token, len(m.catalog))
	copy(out, m.catalog)
	return out
}

// ListTokens advances prices once and returns all quotes in catalog order.
func (m *Market) ListTokens() []entity.Quote {
	m.pricer.Tick()
	return m.pricer.Quotes()
}

// Buy spends amount of base currency on symbol at the current price. The
// purchased quantity is amount divided by the price at execution.
func (m *Market) Buy(userID, symbol string, amount decimal.Decimal) (entity.TradeResult, error) {
	m.pricer.Tick()

	quote, err := m.pricer.Quote(symbol)
	if err != nil {
		return entity.TradeResult{}, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return entity.TradeResult{}, errors.Wrapf(entity.ErrInvalidQuantity, "buy amount %s", amount.String())
	}

	quantity := amount.Div(quote.Price)
	cash, err := m.store.ApplyBuy(userID, symbol, quantity, amount, quote.Price)
	if err != nil {
		return entity.TradeResult{}, err
	}

	result := entity.TradeResult{
		ID:          uuid.New().String(),
		UserID:      userID,
		Side:        entity.SideBuy,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       quote.Price,
		CashDelta:   amount,
		CashBalance: cash,
		Time:        time.Now(),
	}
	m.journal.append(result)
	m.logger.Info("buy executed",
		zap.String("user", userID),
		zap.String("symbol", symbol),
		zap.String("quantity", quantity.String()),
		zap.String("price", quote.Price.String()),
		zap.String("spent", amount.String()),
		zap.String("cash", cash.String()))
	return result, nil
}

// Sell converts quantity of symbol back to base currency at the current price.
func (m *Market) Sell(userID, symbol string, quantity decimal.Decimal) (entity.TradeResult, error) {
	m.pricer.Tick()

	quote, err := m.pricer.Quote(symbol)
	if err != nil {
		return entity.TradeResult{}, err
	}

	received := quantity.Mul(quote.Price)
	cash, err := m.store.ApplySell(userID, symbol, quantity, quote.Price)
	if err != nil {
		return entity.TradeResult{}, err
	}

	result := entity.TradeResult{
		ID:          uuid.New().String(),
		UserID:      userID,
		Side:        entity.SideSell,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       quote.Price,
		CashDelta:   received,
		CashBalance: cash,
		Time:        time.Now(),
	}
	m.journal.append(result)
	m.logger.Info("sell executed",
		zap.String("user", userID),
		zap.String("symbol", symbol),
		zap.String("quantity", quantity.String()),
		zap.String("price", quote.Price.String()),
		zap.String("received", received.String()),
		zap.String("cash", cash.String()))
	return result, nil
}

// ViewPortfolio advances prices once and values the user's portfolio at the
// fresh quotes.
func (m *Market) ViewPortfolio(userID string) entity.PortfolioSnapshot {
	m.pricer.Tick()
	return m.store.Snapshot(userID, m.pricer.Quotes())
}

// ResetPortfolio restores the user's portfolio to its initial state.
func (m *Market) ResetPortfolio(userID string) {
	m.store.Reset(userID)
	m.journal.clear(userID)
	m.logger.Info("portfolio reset", zap.String("user", userID))
}

// Trades returns the user's executed trades for this process run, oldest
// first.
func (m *Market) Trades(userID string) []entity.TradeResult {
	return m.journal.list(userID)
}
