package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/paylaterhq/storefront-core/internal/cart"
	"github.com/paylaterhq/storefront-core/internal/catalog"
	"github.com/paylaterhq/storefront-core/internal/guard"
	"github.com/paylaterhq/storefront-core/internal/identity"
	"github.com/paylaterhq/storefront-core/internal/notify"
	"github.com/paylaterhq/storefront-core/internal/session"
	"github.com/paylaterhq/storefront-core/pkg/config"
	"github.com/paylaterhq/storefront-core/pkg/enums"
	"github.com/paylaterhq/storefront-core/pkg/logger"
	"github.com/paylaterhq/storefront-core/pkg/storage"
)

// Dev harness: boots the full client stack against a configured backend and
// reports the resolved session, a sample guard decision, and the persisted
// cart. Useful for poking at a staging API without the web shell.
func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	kv, closeStorage, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap device storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logg.Error(ctx, "error closing device storage", err)
		}
	}()

	cartStore, err := cart.NewStore(kv, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}
	cartStore.Load(ctx)

	identityClient, err := identity.NewClient(cfg.API, cfg.Session, kv, logg)
	if err != nil {
		logg.Error(ctx, "failed to create identity client", err)
		os.Exit(1)
	}

	sessionQuery, err := session.NewQuery(identityClient, cfg.Session.StalenessWindow)
	if err != nil {
		logg.Error(ctx, "failed to create session query", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(cfg.API, logg)
	if err != nil {
		logg.Error(ctx, "failed to create catalog client", err)
		os.Exit(1)
	}

	toasts := notify.NewBuffer(0)

	state := sessionQuery.Current(ctx)
	if state.Err != nil {
		logg.Warn(logg.WithField(ctx, "error", state.Err.Error()), "session query unresolved")
		toasts.Push(state.Err)
	}
	if state.Actor != nil {
		ctx = logg.WithActorID(ctx, state.Actor.ID)
		ctx = logg.WithActorRole(ctx, state.Actor.Role.String())
		logg.Info(ctx, "session resolved")
	} else {
		logg.Info(ctx, "no active session")
	}

	decision := guard.Evaluate(state.GuardState(), guard.RequireRole(enums.RoleMerchant))
	logg.Info(logg.WithFields(ctx, map[string]any{
		"decision": int(decision.Kind),
		"path":     decision.Path,
	}), "merchant dashboard guard evaluated")

	products, _, err := catalogClient.List(ctx, catalog.Params{Limit: 5})
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "catalog unavailable")
		toasts.Push(err)
	} else {
		logg.Info(logg.WithField(ctx, "products", len(products)), "catalog reachable")
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"cart_count": cartStore.Count(),
		"cart_total": cartStore.Total().String(),
	}), "cart rehydrated")

	for _, toast := range toasts.Drain() {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"toast_id": toast.ID,
			"level":    string(toast.Level),
		}), toast.Message)
	}
}

// buildStorage selects the configured device-storage backend and returns a
// closer aggregating whatever the backend needs released.
func buildStorage(ctx context.Context, cfg config.StorageConfig) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.StorageBackendMemory:
		return storage.NewMemory(), noop, nil
	case config.StorageBackendRedis:
		client, err := storage.NewRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		file, err := storage.NewFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return file, noop, nil
	}
}
