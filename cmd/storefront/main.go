package main

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/tkbshop/storefront/internal/session"
	"github.com/tkbshop/storefront/internal/storefront"
	"github.com/tkbshop/storefront/pkg/config"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/rest"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := storefront.NewStoreFromConfig(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap state store", err)
		os.Exit(1)
	}
	defer func() {
		if closer, ok := store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logg.Error(context.Background(), "error closing state store", err)
			}
		}
	}()

	bridge, err := kvstore.NewBridge(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create persistence bridge", err)
		os.Exit(1)
	}

	apiClient, err := rest.NewClient(cfg.API, logg,
		rest.WithTokenSource(session.NewTokenSource(bridge)))
	if err != nil {
		logg.Error(context.Background(), "failed to create api client", err)
		os.Exit(1)
	}

	app, err := storefront.New(storefront.Params{
		Store:         store,
		API:           apiClient,
		Logger:        logg,
		VerifyTimeout: cfg.Session.VerifyTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to assemble storefront", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"backend": cfg.API.BaseURL,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(ctx, "hydrating storefront state")

	app.Hydrate(ctx)

	ctx = logg.WithFields(ctx, map[string]any{
		"session":    string(app.Session.State()),
		"cart_items": app.Cart.TotalItems(),
		"favorites":  app.Favorites.Count(),
	})
	logg.Info(ctx, "storefront ready")
}
