package storefront

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tkbshop/storefront/internal/cart"
	"github.com/tkbshop/storefront/internal/favorites"
	"github.com/tkbshop/storefront/internal/notify"
	"github.com/tkbshop/storefront/internal/session"
	"github.com/tkbshop/storefront/pkg/config"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/rest"
	"github.com/tkbshop/storefront/pkg/types"
)

// Params groups the pieces the storefront app is assembled from.
type Params struct {
	Store  kvstore.Store
	API    *rest.Client
	Logger *logger.Logger
	// NotifyTTL overrides the notification window; zero keeps the default.
	NotifyTTL time.Duration
	// VerifyTimeout bounds the startup session verification.
	VerifyTimeout time.Duration
}

// App wires the state machines, the persistence bridge, and the REST
// client into one storefront client.
type App struct {
	Bridge        *kvstore.Bridge
	Cart          *cart.Machine
	Favorites     *favorites.Machine
	Session       *session.Bridge
	Notifications *notify.Channel
	API           *rest.Client

	logg *logger.Logger
}

// New assembles the storefront client.
func New(params Params) (*App, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	bridge, err := kvstore.NewBridge(params.Store, params.Logger)
	if err != nil {
		return nil, err
	}

	channel, err := notify.NewChannel(notify.Params{TTL: params.NotifyTTL})
	if err != nil {
		return nil, err
	}

	cartMachine, err := cart.NewMachine(cart.Params{
		Bridge:   bridge,
		Notifier: channel,
		Logger:   params.Logger,
	})
	if err != nil {
		return nil, err
	}

	favoritesMachine, err := favorites.NewMachine(favorites.Params{
		Bridge:   bridge,
		Notifier: channel,
		Logger:   params.Logger,
	})
	if err != nil {
		return nil, err
	}

	sessionBridge, err := session.NewBridge(session.Params{
		Bridge:        bridge,
		API:           params.API,
		Logger:        params.Logger,
		VerifyTimeout: params.VerifyTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Bridge:        bridge,
		Cart:          cartMachine,
		Favorites:     favoritesMachine,
		Session:       sessionBridge,
		Notifications: channel,
		API:           params.API,
		logg:          params.Logger,
	}, nil
}

// Hydrate restores persisted state in order: the session first (which
// also runs the legacy key migration), then cart and favorites. It is
// the one-time boundary before the machines become authoritative.
func (a *App) Hydrate(ctx context.Context) {
	a.Session.Hydrate(ctx)
	a.Cart.Hydrate()
	a.Favorites.Hydrate()
}

// Checkout snapshots the live cart into a checkout session and returns
// the payment redirect URL. The cart is left untouched; it empties only
// after the backend confirms payment.
func (a *App) Checkout(ctx context.Context, shippingAddress map[string]string) (*types.CheckoutSession, error) {
	items := a.Cart.CheckoutItems()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if len(shippingAddress) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	checkout, err := a.API.CreateCheckoutSession(ctx, types.CheckoutRequest{
		Items:           items,
		ShippingAddress: shippingAddress,
	})
	if err != nil {
		return nil, err
	}

	a.logg.Info(a.logg.WithField(ctx, "session_id", checkout.SessionID), "checkout session created")
	return checkout, nil
}

// NewStoreFromConfig builds the configured key-value backend.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return kvstore.NewMemoryStore(), nil
	case config.StorageDriverFile:
		return kvstore.NewFileStore(cfg.Storage.Path)
	case config.StorageDriverSQLite:
		if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create state directory")
		}
		return kvstore.NewSQLiteStore(filepath.Join(cfg.Storage.Path, "state.db"))
	case config.StorageDriverRedis:
		return kvstore.NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown storage driver")
	}
}
