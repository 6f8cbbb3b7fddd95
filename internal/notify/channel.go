package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tkbshop/storefront/pkg/enums"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
)

// DefaultTTL is how long a notification stays visible before it
// self-destructs.
const DefaultTTL = 3 * time.Second

// CartPayload carries the product details shown inside a cart-kind
// notification.
type CartPayload struct {
	ProductName   string `json:"name"`
	Image         string `json:"image"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
}

// Notification is one transient user-facing message. Notifications are
// process-local and never persisted.
type Notification struct {
	ID        string
	Message   string
	Kind      enums.NotificationKind
	Payload   *CartPayload
	CreatedAt time.Time
}

// Params groups dependencies for the notification channel.
type Params struct {
	// TTL overrides the auto-expiry window; zero means DefaultTTL.
	TTL time.Duration
}

// Channel is a time-boxed queue of notifications. Each entry expires on
// its own timer unless dismissed first.
type Channel struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Notification
	timers map[string]*time.Timer
}

// NewChannel builds a notification channel.
func NewChannel(params Params) (*Channel, error) {
	if params.TTL < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ttl must not be negative")
	}
	ttl := params.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Channel{
		ttl:    ttl,
		timers: map[string]*time.Timer{},
	}, nil
}

// Push enqueues a notification and schedules its auto-removal. The
// returned id can be used for an early dismissal.
func (c *Channel) Push(message string, kind enums.NotificationKind, payload *CartPayload) string {
	id := uuid.NewString()

	c.mu.Lock()
	c.active = append(c.active, Notification{
		ID:        id,
		Message:   message,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
	c.timers[id] = time.AfterFunc(c.ttl, func() {
		c.Dismiss(id)
	})
	c.mu.Unlock()

	return id
}

// Dismiss removes the notification immediately and cancels its pending
// expiry. Dismissing an unknown id is a no-op.
func (c *Channel) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, notification := range c.active {
		if notification.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
}

// Active returns the live notifications in insertion order.
func (c *Channel) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.active))
	copy(out, c.active)
	return out
}

// Len reports how many notifications are currently visible.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}
