package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tkbshop/storefront/internal/notify"
	"github.com/tkbshop/storefront/pkg/enums"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/types"
)

const addedMessage = "Produit ajouté au panier !"

// LineItem is one row of the cart. Lines merge by product+variant, not
// by line id; the line id only gives consumers a stable handle.
type LineItem struct {
	LineID        string          `json:"lineId"`
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	SelectedColor string          `json:"selectedColor"`
	SelectedSize  string          `json:"selectedSize"`
	Quantity      int             `json:"quantity"`
}

type identityKey struct {
	productID string
	color     string
	size      string
}

func (l LineItem) identity() identityKey {
	return identityKey{productID: l.ProductID, color: l.SelectedColor, size: l.SelectedSize}
}

type notifier interface {
	Push(message string, kind enums.NotificationKind, payload *notify.CartPayload) string
}

// Params groups dependencies for the cart machine.
type Params struct {
	Bridge   *kvstore.Bridge
	Notifier notifier
	Logger   *logger.Logger
}

// Machine is the cart state machine. Every mutation writes the full
// line list through to the bridge before returning.
type Machine struct {
	mu       sync.Mutex
	hydrated bool
	items    []LineItem

	bridge   *kvstore.Bridge
	notifier notifier
	logg     *logger.Logger
}

// NewMachine builds a cart machine with the required dependencies.
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

// Hydrate loads the persisted cart once, before any mutation. Later
// calls are no-ops, so a restart cannot clobber live state.
func (m *Machine) Hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hydrated {
		return
	}
	m.hydrated = true

	var stored []LineItem
	if !m.bridge.Get(kvstore.KeyCart, &stored) {
		return
	}
	m.items = sanitize(stored)
	m.logg.Info(m.logg.WithField(context.Background(), "lines", len(m.items)), "cart hydrated")
}

// sanitize drops invalid persisted lines and re-merges duplicate
// variants so the in-memory invariants hold regardless of what an old
// client wrote.
func sanitize(stored []LineItem) []LineItem {
	items := make([]LineItem, 0, len(stored))
	for _, line := range stored {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		merged := false
		for i := range items {
			if items[i].identity() == line.identity() {
				items[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, line)
		}
	}
	return items
}

// Add merges the product+variant into an existing line or appends a new
// one, then notifies and persists. A non-positive quantity counts as 1.
func (m *Machine) Add(product types.Product, color, size string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	key := identityKey{productID: product.ID, color: color, size: size}
	merged := false
	for i := range m.items {
		if m.items[i].identity() == key {
			m.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		m.items = append(m.items, LineItem{
			LineID:        uuid.NewString(),
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.Price,
			Image:         product.Image,
			SelectedColor: color,
			SelectedSize:  size,
			Quantity:      quantity,
		})
	}
	m.persistLocked()
	m.mu.Unlock()

	m.notifier.Push(addedMessage, enums.NotificationKindCart, &notify.CartPayload{
		ProductName:   product.Name,
		Image:         product.Image,
		SelectedColor: color,
		SelectedSize:  size,
	})
}

// Remove deletes the line with the given id. Unknown ids are a silent
// no-op.
func (m *Machine) Remove(lineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, line := range m.items {
		if line.LineID == lineID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.persistLocked()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity, clamped at zero. A zero
// result removes the line in the same transition.
func (m *Machine) UpdateQuantity(lineID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].LineID != lineID {
			continue
		}
		if quantity == 0 {
			m.items = append(m.items[:i], m.items[i+1:]...)
		} else {
			m.items[i].Quantity = quantity
		}
		m.persistLocked()
		return
	}
}

// Clear empties the cart.
func (m *Machine) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	m.persistLocked()
}

// Items returns a copy of the line list in insertion order.
func (m *Machine) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]LineItem, len(m.items))
	copy(out, m.items)
	return out
}

// TotalItems sums the quantities across all lines.
func (m *Machine) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, line := range m.items {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity across all lines,
// recomputed fresh on every call.
func (m *Machine) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, line := range m.items {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// CheckoutItems converts the cart into the wire shape the payments
// endpoint expects.
func (m *Machine) CheckoutItems() []types.CheckoutItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.CheckoutItem, 0, len(m.items))
	for _, line := range m.items {
		out = append(out, types.CheckoutItem{
			ID:            line.ProductID,
			Name:          line.Name,
			Price:         line.UnitPrice,
			Image:         line.Image,
			SelectedColor: line.SelectedColor,
			SelectedSize:  line.SelectedSize,
			Quantity:      line.Quantity,
		})
	}
	return out
}

func (m *Machine) persistLocked() {
	items := m.items
	if items == nil {
		items = []LineItem{}
	}
	m.bridge.Put(kvstore.KeyCart, items)
}
