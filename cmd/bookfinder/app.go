package main

import (
	"fmt"
	"log"
	"time"

	"bookfinder/internal/adapters/gateway"
	"bookfinder/internal/config"
	"bookfinder/internal/core/domain/ports"
	"bookfinder/internal/core/service"
)

// app wires the core together for one CLI invocation: durable store, session
// guard, gateway, favorites and the configured book source.
type app struct {
	cfg       *config.Config
	store     ports.SnapshotStore
	guard     *service.Guard
	gw        *gateway.Client
	favorites *service.Favorites
	source    ports.BookSource
}

func newApp() (*app, error) {
	cfg := config.GetConfig()

	store, err := service.CreateSnapshotStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	guard := service.NewGuard(store)

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	gw := gateway.NewClient(cfg.APIBaseURL, guard, timeout, cfg.LogLevel)
	gw.OnAuthRequired = func() {
		log.Printf("Session rejected by the server; run 'bookfinder login' to sign in again.")
	}

	return &app{
		cfg:       cfg,
		store:     store,
		guard:     guard,
		gw:        gw,
		favorites: service.NewFavorites(store),
		source:    service.CreateBookSource(cfg, gw),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("WARNING: failed to close storage: %v", err)
	}
}

// requireSession is the startup validity check: commands that talk to the
// guarded API refuse to start without a locally valid session instead of
// silently degrading.
func (a *app) requireSession() error {
	if !a.guard.CurrentValid() {
		return fmt.Errorf("no valid session; run 'bookfinder login' first")
	}
	return nil
}
