package rest

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
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/types"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string {
	return s.token
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.APIConfig{BaseURL: server.URL}, testLogger(), opts...)
	require.NoError(t, err)
	return client
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.APIConfig{}, testLogger())
	assert.Error(t, err)
}

func TestLoginRoundTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var creds types.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "marie@email.com", creds.Email)

		json.NewEncoder(w).Encode(types.TokenResponse{
			AccessToken: "jwt-token",
			TokenType:   "bearer",
			User:        types.User{ID: "u2", Email: creds.Email},
		})
	}))

	resp, err := client.Login(context.Background(), types.Credentials{Email: "marie@email.com", Password: "marie123"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.AccessToken)
	assert.Equal(t, "u2", resp.User.ID)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(types.User{ID: "u1"})
	}), WithTokenSource(staticTokens{token: "abc123"}))

	_, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestEmptyTokenLeavesRequestUnauthenticated(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]types.Product{})
	}), WithTokenSource(staticTokens{}))

	_, err := client.ListProducts(context.Background(), types.ProductFilters{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListProductsEncodesFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/", r.URL.Path)
		assert.Equal(t, "sacs-a-main", r.URL.Query().Get("category"))
		assert.Equal(t, "noir", r.URL.Query().Get("search"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]types.Product{{ID: "1", Name: "Sac", Price: decimal.NewFromFloat(89.99)}})
	}))

	products, err := client.ListProducts(context.Background(), types.ProductFilters{
		Category: "sacs-a-main",
		Search:   "noir",
		Limit:    20,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.NewFromFloat(89.99)))
}

func TestStringDetailMapsToTypedError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Email ou mot de passe incorrect"})
	}))

	_, err := client.Login(context.Background(), types.Credentials{Email: "x@y.fr", Password: "wrong1"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, "Email ou mot de passe incorrect", typed.Message())
}

func TestValidationListDetailCollapsesToFirstMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`))
	}))

	_, err := client.Register(context.Background(), types.RegisterInput{})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "value is not a valid email address", typed.Message())
}

func TestMissingDetailFallsBackToPublicMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))

	_, err := client.ListOrders(context.Background())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, "backend unavailable", typed.Message())
}

func TestTransportFailureIsDependencyError(t *testing.T) {
	client, err := NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, testLogger())
	require.NoError(t, err)

	_, err = client.ListCategories(context.Background())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestCheckoutSessionRejectsEmptyCart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the backend")
	}))

	_, err := client.CreateCheckoutSession(context.Background(), types.CheckoutRequest{})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutStatusRoundTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/checkout/status/cs_123", r.URL.Path)
		w.Write([]byte(`{"payment_status":"paid","status":"complete","amount_total":155.98,"currency":"eur"}`))
	}))

	status, err := client.CheckoutStatus(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "paid", string(status.PaymentStatus))
	assert.True(t, status.AmountTotal.Equal(decimal.NewFromFloat(155.98)))
}
