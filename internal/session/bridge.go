package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/types"
)

// State is the session lifecycle phase. The only legal transitions are
// Hydrating to either resolved state, Unauthenticated to Authenticated
// via login/register, and Authenticated to Unauthenticated via logout.
type State string

const (
	StateHydrating       State = "hydrating"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

const defaultVerifyTimeout = 10 * time.Second

const (
	loginFallbackMessage    = "Erreur de connexion"
	registerFallbackMessage = "Erreur lors de l'inscription"
	updateFallbackMessage   = "Erreur lors de la mise à jour du profil"
)

// authAPI is the remote surface the bridge reconciles against.
type authAPI interface {
	Login(ctx context.Context, creds types.Credentials) (*types.TokenResponse, error)
	Register(ctx context.Context, input types.RegisterInput) (*types.TokenResponse, error)
	Profile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, updates types.ProfileUpdate) (*types.User, error)
}

// Result is the outcome of a session operation. Remote failures are
// folded into it and never escape as errors.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func okResult() Result {
	return Result{Success: true}
}

func failResult(err error, fallback string) Result {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return Result{Error: typed.Message()}
	}
	return Result{Error: fallback}
}

// Params groups dependencies for the session bridge.
type Params struct {
	Bridge *kvstore.Bridge
	API    authAPI
	Logger *logger.Logger
	// VerifyTimeout bounds the startup profile verification; zero means
	// the 10s default.
	VerifyTimeout time.Duration
}

// Bridge holds authentication state with token-based persistence,
// reconciled against the backend on startup.
type Bridge struct {
	mu      sync.Mutex
	state   State
	user    *types.User
	loading bool

	bridge        *kvstore.Bridge
	api           authAPI
	logg          *logger.Logger
	verifyTimeout time.Duration
}

// NewBridge builds a session bridge in the Hydrating state.
func NewBridge(params Params) (*Bridge, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bridge is required")
	}
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auth api is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	timeout := params.VerifyTimeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	return &Bridge{
		state:         StateHydrating,
		loading:       true,
		bridge:        params.Bridge,
		api:           params.API,
		logg:          params.Logger,
		verifyTimeout: timeout,
	}, nil
}

// TokenSource reads the persisted access token on every request, so the
// REST client always sends whatever the session last stored.
type TokenSource struct {
	bridge *kvstore.Bridge
}

// NewTokenSource builds a token source over the shared bridge.
func NewTokenSource(bridge *kvstore.Bridge) TokenSource {
	return TokenSource{bridge: bridge}
}

// Token returns the persisted access token, or empty when signed out.
func (t TokenSource) Token() string {
	var token string
	t.bridge.Get(kvstore.KeyAuthToken, &token)
	return token
}

// Hydrate resolves the startup state exactly once: migrate legacy
// storage keys, then verify any cached token against the backend. The
// server's profile wins over the cached copy; any verification failure
// clears the cached session.
func (b *Bridge) Hydrate(ctx context.Context) {
	b.mu.Lock()
	if b.state != StateHydrating {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.bridge.Migrate(kvstore.LegacyKeyMigrations)

	var token string
	var cached types.User
	hasToken := b.bridge.Get(kvstore.KeyAuthToken, &token) && token != ""
	hasUser := b.bridge.Get(kvstore.KeyAuthUser, &cached)

	if !hasToken || !hasUser {
		if hasToken || hasUser {
			b.clearPersisted()
		}
		b.resolve(nil)
		return
	}

	if tokenExpired(token) {
		b.logg.Info(ctx, "cached token expired, skipping verification")
		b.clearPersisted()
		b.resolve(nil)
		return
	}

	verifyCtx, cancel := context.WithTimeout(ctx, b.verifyTimeout)
	defer cancel()

	profile, err := b.api.Profile(verifyCtx)
	if err != nil {
		b.logg.Warn(ctx, "session verification failed, clearing cached session")
		b.clearPersisted()
		b.resolve(nil)
		return
	}

	b.bridge.Put(kvstore.KeyAuthUser, profile)
	b.resolve(profile)
	b.logg.Info(b.logg.WithUserID(ctx, profile.ID), "session restored")
}

// tokenExpired inspects the unverified exp claim to skip a verification
// round-trip for a token the server is guaranteed to reject. Opaque
// tokens pass through to the server.
func tokenExpired(raw string) bool {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (b *Bridge) resolve(user *types.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loading = false
	if user == nil {
		b.state = StateUnauthenticated
		b.user = nil
		return
	}
	b.state = StateAuthenticated
	copied := *user
	b.user = &copied
}

// Login exchanges credentials for a session. Validation failures and
// remote errors both come back as a failed Result.
func (b *Bridge) Login(ctx context.Context, email, password string) Result {
	creds := types.Credentials{Email: email, Password: password}
	if err := checkInput(creds); err != nil {
		return failResult(err, loginFallbackMessage)
	}

	b.setLoading(true)
	defer b.setLoading(false)

	resp, err := b.api.Login(ctx, creds)
	if err != nil {
		b.logg.Warn(ctx, "login rejected")
		return failResult(err, loginFallbackMessage)
	}

	b.establish(resp)
	b.logg.Info(b.logg.WithUserID(ctx, resp.User.ID), "login succeeded")
	return okResult()
}

// Register creates an account and signs it in, with the same contract
// as Login.
func (b *Bridge) Register(ctx context.Context, input types.RegisterInput) Result {
	if err := checkInput(input); err != nil {
		return failResult(err, registerFallbackMessage)
	}

	b.setLoading(true)
	defer b.setLoading(false)

	resp, err := b.api.Register(ctx, input)
	if err != nil {
		b.logg.Warn(ctx, "registration rejected")
		return failResult(err, registerFallbackMessage)
	}

	b.establish(resp)
	b.logg.Info(b.logg.WithUserID(ctx, resp.User.ID), "registration succeeded")
	return okResult()
}

func (b *Bridge) establish(resp *types.TokenResponse) {
	b.bridge.Put(kvstore.KeyAuthToken, resp.AccessToken)
	b.bridge.Put(kvstore.KeyAuthUser, resp.User)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateAuthenticated
	user := resp.User
	b.user = &user
}

// Logout clears the persisted session synchronously. It needs no remote
// call and is always effective locally, even offline.
func (b *Bridge) Logout() {
	b.clearPersisted()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateUnauthenticated
	b.user = nil
	b.loading = false
}

// UpdateProfile applies a partial update remotely and, on success,
// replaces both the in-memory and persisted profile with the server's
// merged view. A failure leaves local state untouched.
func (b *Bridge) UpdateProfile(ctx context.Context, updates types.ProfileUpdate) Result {
	if !b.IsAuthenticated() {
		return Result{Error: "authentication required"}
	}
	if err := checkInput(updates); err != nil {
		return failResult(err, updateFallbackMessage)
	}

	merged, err := b.api.UpdateProfile(ctx, updates)
	if err != nil {
		b.logg.Warn(ctx, "profile update rejected")
		return failResult(err, updateFallbackMessage)
	}

	b.bridge.Put(kvstore.KeyAuthUser, merged)

	b.mu.Lock()
	copied := *merged
	b.user = &copied
	b.mu.Unlock()

	return okResult()
}

func (b *Bridge) clearPersisted() {
	b.bridge.Delete(kvstore.KeyAuthToken)
	b.bridge.Delete(kvstore.KeyAuthUser)
}

func (b *Bridge) setLoading(loading bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = loading
}

// State reports the current lifecycle phase.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// User returns a copy of the signed-in profile, or nil.
func (b *Bridge) User() *types.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.user == nil {
		return nil
	}
	copied := *b.user
	return &copied
}

// IsAuthenticated is true exactly when a user profile is held.
func (b *Bridge) IsAuthenticated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateAuthenticated && b.user != nil
}

// IsLoading is true during hydration and while a login or register
// call is in flight. Callers gate concurrent actions on it.
func (b *Bridge) IsLoading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}
