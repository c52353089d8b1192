package entity

import "github.com/pkg/errors"

// User-input error kinds returned by market operations. Callers distinguish
// them with errors.Is and render them as user-facing text; none of them is
// fatal and none leaves portfolio state partially mutated.
var (
	ErrUnknownToken         = errors.New("unknown token")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)
