package entity

import "github.com/shopspring/decimal"

// HoldingView is one token position valued at current prices.
type HoldingView struct {
	Symbol   string
	Name     string
	Quantity decimal.Decimal
	// AvgPrice is the volume-weighted average purchase price of the position.
	AvgPrice decimal.Decimal
	Price    decimal.Decimal
	Value    decimal.Decimal
	// PnL is the unrealized gain of this position versus its average
	// purchase price.
	PnL decimal.Decimal
}

// PortfolioSnapshot is a user's portfolio valued at current prices.
// It is a derived view, never stored.
type PortfolioSnapshot struct {
	UserID   string
	Cash     decimal.Decimal
	Holdings []HoldingView
	// TotalValue is cash plus the market value of all holdings.
	TotalValue decimal.Decimal
	// PnL is total value minus the initial cash endowment.
	PnL decimal.Decimal
}
