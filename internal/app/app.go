// Package app assembles the workshop services from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/konveksi/backend-go/internal/api"
	"github.com/andresuchdata/konveksi/backend-go/internal/cache"
	"github.com/andresuchdata/konveksi/backend-go/internal/config"
	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
	"github.com/andresuchdata/konveksi/backend-go/internal/hpp"
	"github.com/andresuchdata/konveksi/backend-go/internal/idgen"
	"github.com/andresuchdata/konveksi/backend-go/internal/repository/memory"
	"github.com/andresuchdata/konveksi/backend-go/internal/seed"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
	"github.com/andresuchdata/konveksi/backend-go/internal/storage"
)

// SystemActor owns records written during bootstrap
var SystemActor = domain.Actor{Name: "system", Role: domain.RoleAdmin}

// App is a fully wired workshop backed by one in-memory store
type App struct {
	Config   *config.Config
	Store    *memory.Store
	IDs      *idgen.Generator
	Services *api.Services
}

// New wires every service and loads the seed catalogue when one is configured.
// Redis and object storage are optional; a Redis that cannot be reached only
// disables the dashboard cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ids, err := idgen.New(cfg.App.NodeID)
	if err != nil {
		return nil, fmt.Errorf("id generator: %w", err)
	}

	summaryCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without it")
		summaryCache = cache.NewNoopDashboardCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		objects = client
	}

	store := memory.NewStore()
	ledger := service.NewLedgerService(store, ids)
	production := service.NewProductionService(store, ids, ledger, hpp.NewCalculator())
	requests := service.NewRequestService(store, ids, production)
	adjustments := service.NewAdjustmentService(store, ids, ledger)
	sales := service.NewSalesService(store, ids, ledger)
	dashboard := service.NewDashboardService(store, ids, summaryCache)

	ledger.SetNotifier(dashboard)
	production.SetNotifier(dashboard)
	requests.SetNotifier(dashboard)
	adjustments.SetNotifier(dashboard)
	sales.SetNotifier(dashboard)

	a := &App{
		Config: cfg,
		Store:  store,
		IDs:    ids,
		Services: &api.Services{
			Ledger:      ledger,
			Production:  production,
			Requests:    requests,
			Adjustments: adjustments,
			Sales:       sales,
			Dashboard:   dashboard,
			Exports:     service.NewExportService(store, ids, objects, cfg.App.ExportPrefix),
		},
	}

	if err := a.seed(ctx, cfg.App.SeedFile); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) seed(ctx context.Context, path string) error {
	if path == "" {
		log.Info().Msg("no seed file configured, starting empty")
		return nil
	}

	cat, err := seed.Load(path)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	if err := a.Services.Ledger.Seed(ctx, SystemActor, cat); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	return nil
}
