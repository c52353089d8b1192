package entity

import "github.com/shopspring/decimal"

// Token is one catalog entry: a synthetic token priced in the base currency.
type Token struct {
	Symbol     string
	Name       string
	Price      decimal.Decimal
	Volatility decimal.Decimal
}

// Quote is the current market view of one token.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
	// Change is the percent move versus the previous tick.
	Change decimal.Decimal
}
