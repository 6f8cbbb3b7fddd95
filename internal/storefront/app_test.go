package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkbshop/storefront/pkg/config"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/rest"
	"github.com/tkbshop/storefront/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestApp(t *testing.T, handler http.Handler) (*App, *kvstore.MemoryStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := kvstore.NewMemoryStore()
	bridge, err := kvstore.NewBridge(store, testLogger())
	require.NoError(t, err)

	client, err := rest.NewClient(config.APIConfig{BaseURL: server.URL}, testLogger(),
		rest.WithTokenSource(tokenFromStore{bridge}))
	require.NoError(t, err)

	app, err := New(Params{Store: store, API: client, Logger: testLogger()})
	require.NoError(t, err)
	return app, store
}

type tokenFromStore struct {
	bridge *kvstore.Bridge
}

func (t tokenFromStore) Token() string {
	var token string
	t.bridge.Get(kvstore.KeyAuthToken, &token)
	return token
}

func TestNewRequiresDependencies(t *testing.T) {
	client, err := rest.NewClient(config.APIConfig{BaseURL: "http://localhost:9"}, testLogger())
	require.NoError(t, err)

	_, err = New(Params{API: client, Logger: testLogger()})
	assert.Error(t, err)
	_, err = New(Params{Store: kvstore.NewMemoryStore(), Logger: testLogger()})
	assert.Error(t, err)
	_, err = New(Params{Store: kvstore.NewMemoryStore(), API: client})
	assert.Error(t, err)
}

func TestHydrateRestoresSessionCartAndFavorites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/profile", r.URL.Path)
		json.NewEncoder(w).Encode(types.User{ID: "u2", FirstName: "Marie", Email: "marie@email.com"})
	})

	app, store := newTestApp(t, handler)

	require.NoError(t, store.Write(kvstore.KeyAuthToken, []byte(`"opaque-token"`)))
	require.NoError(t, store.Write(kvstore.KeyAuthUser, []byte(`{"id":"u2"}`)))
	require.NoError(t, store.Write(kvstore.KeyCart, []byte(`[{"lineId":"l1","productId":"1","name":"Sac","price":89.99,"selectedColor":"Noir","selectedSize":"M","quantity":2}]`)))
	require.NoError(t, store.Write(kvstore.KeyFavorites, []byte(`[{"id":"7","name":"Baskets","price":69.99}]`)))

	app.Hydrate(context.Background())

	assert.True(t, app.Session.IsAuthenticated())
	assert.Equal(t, "Marie", app.Session.User().FirstName)
	assert.Equal(t, 2, app.Cart.TotalItems())
	assert.Equal(t, 1, app.Favorites.Count())
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	app.Hydrate(context.Background())

	_, err := app.Checkout(context.Background(), map[string]string{"city": "Paris"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckoutRequiresShippingAddress(t *testing.T) {
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/profile" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		t.Fatalf("unexpected request %s", r.URL.Path)
	}))
	app.Hydrate(context.Background())
	app.Cart.Add(types.Product{ID: "1", Name: "Sac", Price: decimal.NewFromFloat(89.99)}, "Noir", "M", 1)

	_, err := app.Checkout(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckoutPostsCartSnapshot(t *testing.T) {
	var received types.CheckoutRequest
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/checkout/session":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(types.CheckoutSession{URL: "https://pay.example.com/cs_1", SessionID: "cs_1"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	app.Hydrate(context.Background())
	app.Cart.Add(types.Product{ID: "1", Name: "Sac", Price: decimal.NewFromFloat(89.99)}, "Noir", "M", 2)

	checkout, err := app.Checkout(context.Background(), map[string]string{"city": "Paris", "zip": "75001"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_1", checkout.URL)

	require.Len(t, received.Items, 1)
	assert.Equal(t, "1", received.Items[0].ID)
	assert.Equal(t, 2, received.Items[0].Quantity)

	// checkout must not clear the cart; that happens after payment confirms
	assert.Equal(t, 2, app.Cart.TotalItems())
}

func TestNewStoreFromConfigSelectsDriver(t *testing.T) {
	dir := t.TempDir()

	memory, err := NewStoreFromConfig(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
	})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.MemoryStore{}, memory)

	file, err := NewStoreFromConfig(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverFile, Path: dir},
	})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.FileStore{}, file)

	sqlite, err := NewStoreFromConfig(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, Path: dir},
	})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.SQLiteStore{}, sqlite)

	_, err = NewStoreFromConfig(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: "punchcards"},
	})
	assert.Error(t, err)
}
