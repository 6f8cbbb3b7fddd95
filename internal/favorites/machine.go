package favorites

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tkbshop/storefront/internal/notify"
	"github.com/tkbshop/storefront/pkg/enums"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/types"
)

const (
	addedMessage   = "Ajouté aux favoris !"
	alreadyMessage = "Déjà dans vos favoris !"
	removedMessage = "Retiré des favoris"
	clearedMessage = "Favoris vidés"
)

// Entry is the denormalized product snapshot captured at favoriting
// time. It is never refreshed against the catalog.
type Entry struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
}

type notifier interface {
	Push(message string, kind enums.NotificationKind, payload *notify.CartPayload) string
}

// Params groups dependencies for the favorites machine.
type Params struct {
	Bridge   *kvstore.Bridge
	Notifier notifier
	Logger   *logger.Logger
}

// Machine is the favorites state machine: a uniqueness-enforcing set of
// product snapshots with write-through persistence.
type Machine struct {
	mu       sync.Mutex
	hydrated bool
	items    []Entry

	bridge   *kvstore.Bridge
	notifier notifier
	logg     *logger.Logger
}

// NewMachine builds a favorites machine with the required dependencies.
func NewMachine(params Params) (*Machine, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bridge is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Machine{
		bridge:   params.Bridge,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

// Hydrate loads the persisted favorites once, before any mutation.
func (m *Machine) Hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hydrated {
		return
	}
	m.hydrated = true

	var stored []Entry
	if !m.bridge.Get(kvstore.KeyFavorites, &stored) {
		return
	}
	seen := map[string]struct{}{}
	for _, entry := range stored {
		if entry.ProductID == "" {
			continue
		}
		if _, dup := seen[entry.ProductID]; dup {
			continue
		}
		seen[entry.ProductID] = struct{}{}
		m.items = append(m.items, entry)
	}
	m.logg.Info(m.logg.WithField(context.Background(), "favorites", len(m.items)), "favorites hydrated")
}

// Add snapshots the product into the favorites set. Adding an
// already-favorited product changes nothing and surfaces an
// informational notification.
func (m *Machine) Add(product types.Product) {
	m.mu.Lock()
	if m.containsLocked(product.ID) {
		m.mu.Unlock()
		m.notifier.Push(alreadyMessage, enums.NotificationKindError, nil)
		return
	}
	m.items = append(m.items, Entry{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Category:  product.Category,
	})
	m.persistLocked()
	m.mu.Unlock()

	m.notifier.Push(addedMessage, enums.NotificationKindSuccess, nil)
}

// Remove drops the product from the set. Removing an absent id still
// notifies, mirroring the storefront's behavior.
func (m *Machine) Remove(productID string) {
	m.mu.Lock()
	for i, entry := range m.items {
		if entry.ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	m.persistLocked()
	m.mu.Unlock()

	m.notifier.Push(removedMessage, enums.NotificationKindSuccess, nil)
}

// Toggle adds or removes based on current membership. This is the
// primary entry point used by product cards.
func (m *Machine) Toggle(product types.Product) {
	if m.Contains(product.ID) {
		m.Remove(product.ID)
		return
	}
	m.Add(product)
}

// Contains is a pure membership test.
func (m *Machine) Contains(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containsLocked(productID)
}

func (m *Machine) containsLocked(productID string) bool {
	for _, entry := range m.items {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Clear empties the set.
func (m *Machine) Clear() {
	m.mu.Lock()
	m.items = nil
	m.persistLocked()
	m.mu.Unlock()

	m.notifier.Push(clearedMessage, enums.NotificationKindSuccess, nil)
}

// Items returns a copy of the favorites in insertion order.
func (m *Machine) Items() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.items))
	copy(out, m.items)
	return out
}

// Count reports the number of favorited products.
func (m *Machine) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Machine) persistLocked() {
	items := m.items
	if items == nil {
		items = []Entry{}
	}
	m.bridge.Put(kvstore.KeyFavorites, items)
}
