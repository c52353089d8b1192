package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dkoval/suipaper/internal/entity"
)

const quotePollInterval = 2 * time.Second

type quoteLister interface {
	ListTokens() []entity.Quote
}

// Server exposes HTTP endpoints serving the HTML quote board and an SSE
// stream of current token prices. Every poll is a quote request, so the
// market advances prices on the usual lazy-tick cadence.
type Server struct {
	Addr   string
	Market quoteLister
}

// NewServer creates a new web server instance.
func NewServer(addr string, market quoteLister) *Server {
	return &Server{Addr: addr, Market: market}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/quotes/stream", s.handleQuoteStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// quoteDTO keeps decimals as strings so the UI never loses precision.
type quoteDTO struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Change string `json:"change"`
}

func (s *Server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	if s.Market == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "market not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// send a comment heartbeat every 30s so proxies keep connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(quotePollInterval)
	defer pollTicker.Stop()

	sendQuotes := func() error {
		quotes := s.Market.ListTokens()
		dtos := make([]quoteDTO, 0, len(quotes))
		for _, q := range quotes {
			dtos = append(dtos, quoteDTO{
				Symbol: q.Symbol,
				Name:   q.Name,
				Price:  q.Price.StringFixed(4),
				Change: q.Change.StringFixed(2),
			})
		}
		payload, err := json.Marshal(dtos)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: quotes\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	}

	if err := sendQuotes(); err != nil {
		http.Error(w, "failed to load quotes", http.StatusInternalServerError)
		log.Printf("quote stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendQuotes(); err != nil {
				log.Printf("quote stream poll err: %v", err)
			}
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>suipaper</title>
  <style>
    body { font-family: monospace; background: #111; color: #eee; margin: 2rem; }
    h1 { font-size: 1.2rem; }
    table { border-collapse: collapse; min-width: 28rem; }
    th, td { text-align: right; padding: 0.4rem 1rem; border-bottom: 1px solid #333; }
    th:first-child, td:first-child { text-align: left; }
    .up { color: #73f59f; }
    .down { color: #f57373; }
  </style>
</head>
<body>
  <h1>suipaper quote board</h1>
  <table>
    <thead><tr><th>Token</th><th>Price (SUI)</th><th>Change</th></tr></thead>
    <tbody id="quotes"></tbody>
  </table>
  <script>
    const tbody = document.getElementById('quotes');
    const es = new EventSource('/quotes/stream');
    es.addEventListener('quotes', (e) => {
      const quotes = JSON.parse(e.data);
      tbody.innerHTML = quotes.map(q => {
        const cls = parseFloat(q.change) >= 0 ? 'up' : 'down';
        return '<tr><td>$' + q.symbol + ' (' + q.name + ')</td>' +
               '<td>' + q.price + '</td>' +
               '<td class="' + cls + '">' + q.change + '%</td></tr>';
      }).join('');
    });
  </script>
</body>
</html>
`
