package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dkoval/suipaper/internal/entity"
	"github.com/dkoval/suipaper/internal/services/market"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warn      = lipgloss.AdaptiveColor{Light: "#BF4343", Dark: "#F57373"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	gainStyle = lipgloss.NewStyle().Foreground(special)
	lossStyle = lipgloss.NewStyle().Foreground(warn)
	dimStyle  = lipgloss.NewStyle().Foreground(subtle)
)

// Session is an interactive terminal front over the market, standing in for
// a chat transport: it only invokes market operations and renders results.
type Session struct {
	market *market.Market
	userID string
}

// NewSession creates a terminal session for one local user.
func NewSession(m *market.Market, userID string) (*Session, error) {
	if m == nil {
		return nil, errors.New("market is required")
	}
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return &Session{market: m, userID: userID}, nil
}

// Run drives the menu loop until the user quits or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	fmt.Println(headerStyle.Render("SUIPAPER PAPER TRADING"))
	fmt.Println(dimStyle.Render("Practice buying and selling memecoins with virtual SUI.\n"))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var action string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Choose an action").
					Options(
						huh.NewOption("View tokens", "tokens"),
						huh.NewOption("My portfolio", "portfolio"),
						huh.NewOption("Buy", "buy"),
						huh.NewOption("Sell", "sell"),
						huh.NewOption("Trade history", "trades"),
						huh.NewOption("Reset portfolio", "reset"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&action),
			),
		).Run()
		if err != nil {
			return err
		}

		switch action {
		case "tokens":
			s.renderQuotes(s.market.ListTokens())
		case "portfolio":
			s.renderPortfolio(s.market.ViewPortfolio(s.userID))
		case "buy":
			s.runBuy()
		case "sell":
			s.runSell()
		case "trades":
			s.renderTrades(s.market.Trades(s.userID))
		case "reset":
			s.market.ResetPortfolio(s.userID)
			fmt.Println(gainStyle.Render("Portfolio reset. You have a fresh 1000 SUI to trade with.\n"))
		case "quit":
			return nil
		}
	}
}

func (s *Session) runBuy() {
	var symbol string
	options := make([]huh.Option[string], 0)
	for _, token := range s.market.Catalog() {
		options = append(options, huh.NewOption(fmt.Sprintf("$%s (%s)", token.Symbol, token.Name), token.Symbol))
	}

	var amountStr string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Token to buy").
				Options(options...).
				Value(&symbol),
			huh.NewInput().
				Title("Amount to spend (SUI)").
				Value(&amountStr).
				Validate(validateDecimal),
		),
	).Run()
	if err != nil {
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		s.renderError(entity.ErrInvalidQuantity)
		return
	}

	result, err := s.market.Buy(s.userID, symbol, amount)
	if err != nil {
		s.renderError(err)
		return
	}
	fmt.Println(gainStyle.Render(fmt.Sprintf("Bought %s %s for %s SUI at %s\n",
		result.Quantity.StringFixed(4), result.Symbol, result.CashDelta.StringFixed(4), result.Price.StringFixed(4))))
}

func (s *Session) runSell() {
	snapshot := s.market.ViewPortfolio(s.userID)
	if len(snapshot.Holdings) == 0 {
		fmt.Println(dimStyle.Render("You don't have any tokens to sell.\n"))
		return
	}

	options := make([]huh.Option[string], 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		options = append(options, huh.NewOption(
			fmt.Sprintf("$%s — %s held", h.Symbol, h.Quantity.StringFixed(4)), h.Symbol))
	}

	var symbol, quantityStr string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Token to sell").
				Options(options...).
				Value(&symbol),
			huh.NewInput().
				Title("Quantity to sell").
				Value(&quantityStr).
				Validate(validateDecimal),
		),
	).Run()
	if err != nil {
		return
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(quantityStr))
	if err != nil {
		s.renderError(entity.ErrInvalidQuantity)
		return
	}

	result, err := s.market.Sell(s.userID, symbol, quantity)
	if err != nil {
		s.renderError(err)
		return
	}
	fmt.Println(gainStyle.Render(fmt.Sprintf("Sold %s %s for %s SUI at %s\n",
		result.Quantity.StringFixed(4), result.Symbol, result.CashDelta.StringFixed(4), result.Price.StringFixed(4))))
}

func (s *Session) renderQuotes(quotes []entity.Quote) {
	var b strings.Builder
	b.WriteString("Available tokens:\n")
	for _, q := range quotes {
		change := q.Change.StringFixed(2)
		if !q.Change.IsNegative() {
			change = "+" + change
		}
		line := fmt.Sprintf("  $%-8s %-10s %10s SUI  %7s%%", q.Symbol, q.Name, q.Price.StringFixed(4), change)
		if q.Change.IsNegative() {
			line = lossStyle.Render(line)
		} else {
			line = gainStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	fmt.Println(b.String())
}

func (s *Session) renderPortfolio(snapshot entity.PortfolioSnapshot) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cash: %s SUI\n", snapshot.Cash.StringFixed(4)))
	if len(snapshot.Holdings) == 0 {
		b.WriteString(dimStyle.Render("No holdings yet. Use Buy to start trading.\n"))
	}
	for _, h := range snapshot.Holdings {
		line := fmt.Sprintf("  $%-8s qty %s  avg %s  now %s  value %s  pnl %s",
			h.Symbol, h.Quantity.StringFixed(4), h.AvgPrice.StringFixed(4),
			h.Price.StringFixed(4), h.Value.StringFixed(4), h.PnL.StringFixed(4))
		if h.PnL.IsNegative() {
			line = lossStyle.Render(line)
		} else {
			line = gainStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("Total value: %s SUI\n", snapshot.TotalValue.StringFixed(4)))
	pnlLine := fmt.Sprintf("Unrealized PnL: %s SUI", snapshot.PnL.StringFixed(4))
	if snapshot.PnL.IsNegative() {
		pnlLine = lossStyle.Render(pnlLine)
	} else {
		pnlLine = gainStyle.Render(pnlLine)
	}
	b.WriteString(pnlLine + "\n")
	fmt.Println(b.String())
}

func (s *Session) renderTrades(trades []entity.TradeResult) {
	if len(trades) == 0 {
		fmt.Println(dimStyle.Render("No trades yet this session.\n"))
		return
	}
	var b strings.Builder
	b.WriteString("Recent trades:\n")
	for _, t := range trades {
		b.WriteString(fmt.Sprintf("  %s  %-4s $%-8s qty %s at %s (%s SUI)\n",
			t.Time.Format("15:04:05"), t.Side, t.Symbol,
			t.Quantity.StringFixed(4), t.Price.StringFixed(4), t.CashDelta.StringFixed(4)))
	}
	fmt.Println(b.String())
}

func (s *Session) renderError(err error) {
	var msg string
	switch {
	case errors.Is(err, entity.ErrUnknownToken):
		msg = "That token is not in the catalog."
	case errors.Is(err, entity.ErrInvalidQuantity):
		msg = "Enter a positive number."
	case errors.Is(err, entity.ErrInsufficientFunds):
		msg = "Not enough SUI for that trade."
	case errors.Is(err, entity.ErrInsufficientHoldings):
		msg = "You don't hold that much."
	default:
		msg = err.Error()
	}
	fmt.Println(lossStyle.Render(msg) + "\n")
}

func validateDecimal(s string) error {
	value, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a valid number")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be positive")
	}
	return nil
}
