package pricer

import "github.com/dkoval/suipaper/internal/entity"

// Pricer maintains current prices for the token catalog.
type Pricer interface {
	// Tick advances every token price by one step.
	Tick()
	// Quote returns the current quote for one symbol.
	Quote(symbol string) (entity.Quote, error)
	// Quotes returns current quotes for all tokens in catalog order.
	Quotes() []entity.Quote
}
