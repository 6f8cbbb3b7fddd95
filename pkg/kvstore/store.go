package kvstore

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/logger"
)

// Canonical storage keys for the storefront client.
const (
	KeyAuthToken = "tkbshop_token"
	KeyAuthUser  = "tkbshop_user"
	KeyCart      = "tkbshop_cart"
	KeyFavorites = "tkbshop_favorites"
	KeyTheme     = "tkbshop_theme"
	KeyLanguage  = "tkbshop_language"
)

// LegacyKeyMigrations maps the pre-rename keys to their canonical names.
var LegacyKeyMigrations = map[string]string{
	"chicboutique_token": KeyAuthToken,
	"chicboutique_user":  KeyAuthUser,
	"fashionCart":        KeyCart,
}

// Store is the raw durable byte store underneath the bridge.
type Store interface {
	Read(key string) ([]byte, bool)
	Write(key string, raw []byte) error
	Remove(key string) error
}

// Bridge layers JSON encoding and best-effort semantics over a Store.
// Reads degrade to "no prior state" on missing or corrupt data; writes
// never surface an error to the caller.
type Bridge struct {
	store Store
	logg  *logger.Logger
}

// NewBridge wraps the given store.
func NewBridge(store Store, logg *logger.Logger) (*Bridge, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Bridge{store: store, logg: logg}, nil
}

// Get decodes the stored JSON value into out. Missing keys and decode
// failures both report false.
func (b *Bridge) Get(key string, out any) bool {
	raw, ok := b.store.Read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		ctx := b.logg.WithStorageKey(context.Background(), key)
		b.logg.Warn(ctx, "discarding corrupt stored value")
		return false
	}
	return true
}

// Put JSON-encodes and stores the value. Persistence is best-effort: a
// failed write is logged and swallowed so it never blocks a transition.
func (b *Bridge) Put(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		ctx := b.logg.WithStorageKey(context.Background(), key)
		b.logg.Error(ctx, "encode stored value", err)
		return
	}
	if err := b.store.Write(key, raw); err != nil {
		ctx := b.logg.WithStorageKey(context.Background(), key)
		b.logg.Warn(ctx, "best-effort write failed")
	}
}

// Delete removes the key. Removing an absent key is a no-op.
func (b *Bridge) Delete(key string) {
	if err := b.store.Remove(key); err != nil {
		ctx := b.logg.WithStorageKey(context.Background(), key)
		b.logg.Warn(ctx, "best-effort remove failed")
	}
}

// Migrate renames stored values per the mapping: for each pair, when the
// old key holds a value and the new key does not, the value moves over.
// Safe to run on every startup; after the first successful run there is
// nothing left to move.
func (b *Bridge) Migrate(mapping map[string]string) {
	for oldKey, newKey := range mapping {
		raw, ok := b.store.Read(oldKey)
		if !ok {
			continue
		}
		if _, exists := b.store.Read(newKey); exists {
			continue
		}
		if err := b.store.Write(newKey, raw); err != nil {
			ctx := b.logg.WithStorageKey(context.Background(), newKey)
			b.logg.Warn(ctx, "key migration write failed")
			continue
		}
		b.Delete(oldKey)
		ctx := b.logg.WithFields(context.Background(), map[string]any{
			"old_key": oldKey,
			"new_key": newKey,
		})
		b.logg.Info(ctx, "migrated storage key")
	}
}
