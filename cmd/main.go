// Command suipaper runs a paper-trading simulator for synthetic memecoins.
// Users practice buying and selling against a virtual SUI balance while
// prices follow a bounded random walk. All state is in memory; a restart
// resets every portfolio, which is intended behavior.
//
// Usage:
//
//	suipaper --config config.yaml
//	suipaper (uses the built-in catalog)
//
// The interactive terminal session runs in the foreground; a quote board is
// served over HTTP on the configured listen address.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkoval/suipaper/config"
	"github.com/dkoval/suipaper/internal/services/market"
	"github.com/dkoval/suipaper/internal/services/portfolio"
	"github.com/dkoval/suipaper/internal/services/pricer"
	"github.com/dkoval/suipaper/internal/tui"
	"github.com/dkoval/suipaper/internal/web"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	walk, err := pricer.NewRandomWalkPricer(cfg.Catalog, cfg.PriceFloor, rnd)
	if err != nil {
		logger.Fatal("failed to create pricer", zap.Error(err))
	}

	store, err := portfolio.NewStore(cfg.InitialCash)
	if err != nil {
		logger.Fatal("failed to create portfolio store", zap.Error(err))
	}

	m, err := market.New(cfg.Catalog, walk, store, logger)
	if err != nil {
		logger.Fatal("failed to create market", zap.Error(err))
	}

	userID := os.Getenv("USER")
	if userID == "" {
		userID = "local"
	}
	session, err := tui.NewSession(m, userID)
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return web.NewServer(cfg.ListenAddr, m).Start(ctx)
	})
	g.Go(func() error {
		defer stop()
		return session.Run(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("simulator stopped", zap.Error(err))
	}
}
