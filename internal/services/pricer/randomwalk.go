package pricer

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dkoval/suipaper/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// RandomWalkPricer simulates market prices with an independent bounded random
// walk per token. On every Tick each price moves by a factor of (1 + r) where
// r is uniform in [-volatility, +volatility], clamped to a positive floor so
// a price can never degenerate to zero or below.
//
// Prices advance only when Tick is called; all quotes between two ticks come
// from the same snapshot.
type RandomWalkPricer struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	floor  decimal.Decimal
	tokens []*tokenState
	index  map[string]*tokenState
}

type tokenState struct {
	token entity.Token
	price decimal.Decimal
	prev  decimal.Decimal
}

// NewRandomWalkPricer creates a pricer for the given catalog. The random
// source is seedable for deterministic tests; passing nil uses a time-seeded
// generator.
func NewRandomWalkPricer(catalog []entity.Token, floor decimal.Decimal, rnd *rand.Rand) (*RandomWalkPricer, error) {
	if len(catalog) == 0 {
		return nil, errors.New("token catalog is empty")
	}
	if floor.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("price floor must be positive, got %s", floor.String())
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &RandomWalkPricer{
		rnd:    rnd,
		floor:  floor,
		tokens: make([]*tokenState, 0, len(catalog)),
		index:  make(map[string]*tokenState, len(catalog)),
	}
	for _, token := range catalog {
		if token.Price.LessThanOrEqual(decimal.Zero) {
			return nil, errors.Errorf("initial price for %s must be positive, got %s", token.Symbol, token.Price.String())
		}
		if token.Volatility.IsNegative() || token.Volatility.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, errors.Errorf("volatility for %s must be in [0, 1), got %s", token.Symbol, token.Volatility.String())
		}
		if _, exists := p.index[token.Symbol]; exists {
			return nil, errors.Errorf("duplicate token symbol %s in catalog", token.Symbol)
		}
		state := &tokenState{token: token, price: token.Price, prev: token.Price}
		p.tokens = append(p.tokens, state)
		p.index[token.Symbol] = state
	}
	return p, nil
}

// Tick advances all token prices by one step.
func (p *RandomWalkPricer) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, state := range p.tokens {
		vol, _ := state.token.Volatility.Float64()
		r := (p.rnd.Float64()*2 - 1) * vol
		next := state.price.Mul(decimal.NewFromFloat(1 + r))
		if next.LessThan(p.floor) {
			next = p.floor
		}
		state.prev = state.price
		state.price = next
	}
}

// Quote returns the current quote for one symbol.
func (p *RandomWalkPricer) Quote(symbol string) (entity.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, ok := p.index[symbol]
	if !ok {
		return entity.Quote{}, errors.Wrap(entity.ErrUnknownToken, symbol)
	}
	return state.quote(), nil
}

// Quotes returns current quotes for all tokens in catalog order.
func (p *RandomWalkPricer) Quotes() []entity.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()

	quotes := make([]entity.Quote, 0, len(p.tokens))
	for _, state := range p.tokens {
		quotes = append(quotes, state.quote())
	}
	return quotes
}

func (s *tokenState) quote() entity.Quote {
	change := decimal.Zero
	if s.prev.IsPositive() {
		change = s.price.Sub(s.prev).Div(s.prev).Mul(hundred)
	}
	return entity.Quote{
		Symbol: s.token.Symbol,
		Name:   s.token.Name,
		Price:  s.price,
		Change: change,
	}
}
