package favorites

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkbshop/storefront/internal/notify"
	"github.com/tkbshop/storefront/pkg/enums"
	"github.com/tkbshop/storefront/pkg/kvstore"
	"github.com/tkbshop/storefront/pkg/logger"
	"github.com/tkbshop/storefront/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestBridge(t *testing.T) *kvstore.Bridge {
	t.Helper()
	bridge, err := kvstore.NewBridge(kvstore.NewMemoryStore(), testLogger())
	require.NoError(t, err)
	return bridge
}

func newTestMachine(t *testing.T, bridge *kvstore.Bridge) (*Machine, *notify.Channel) {
	t.Helper()
	channel, err := notify.NewChannel(notify.Params{TTL: time.Minute})
	require.NoError(t, err)

	machine, err := NewMachine(Params{Bridge: bridge, Notifier: channel, Logger: testLogger()})
	require.NoError(t, err)
	machine.Hydrate()
	return machine, channel
}

func basketsBlanches() types.Product {
	return types.Product{
		ID:       "7",
		Name:     "Baskets Blanches Tendance",
		Price:    decimal.NewFromFloat(69.99),
		Image:    "https://images.example.com/baskets.jpg",
		Category: "chaussures-femmes",
	}
}

func TestAddSnapshotsProduct(t *testing.T) {
	machine, channel := newTestMachine(t, newTestBridge(t))

	machine.Add(basketsBlanches())

	require.Equal(t, 1, machine.Count())
	entry := machine.Items()[0]
	assert.Equal(t, "7", entry.ProductID)
	assert.Equal(t, "chaussures-femmes", entry.Category)
	assert.True(t, entry.Price.Equal(decimal.NewFromFloat(69.99)))

	active := channel.Active()
	require.Len(t, active, 1)
	assert.Equal(t, enums.NotificationKindSuccess, active[0].Kind)
}

func TestAddDuplicateIsInformationalNoOp(t *testing.T) {
	machine, channel := newTestMachine(t, newTestBridge(t))

	machine.Add(basketsBlanches())
	machine.Add(basketsBlanches())

	assert.Equal(t, 1, machine.Count())

	active := channel.Active()
	require.Len(t, active, 2)
	assert.Equal(t, enums.NotificationKindError, active[1].Kind)
	assert.Equal(t, "Déjà dans vos favoris !", active[1].Message)
}

func TestRemoveDropsEntry(t *testing.T) {
	machine, _ := newTestMachine(t, newTestBridge(t))

	machine.Add(basketsBlanches())
	machine.Remove("7")

	assert.Equal(t, 0, machine.Count())
	assert.False(t, machine.Contains("7"))
}

func TestRemoveAbsentIdIsNoOp(t *testing.T) {
	machine, _ := newTestMachine(t, newTestBridge(t))

	machine.Add(basketsBlanches())
	machine.Remove("999")

	assert.Equal(t, 1, machine.Count())
}

func TestToggleSymmetry(t *testing.T) {
	machine, _ := newTestMachine(t, newTestBridge(t))

	machine.Toggle(basketsBlanches())
	assert.Equal(t, 1, machine.Count())

	machine.Toggle(basketsBlanches())
	assert.Equal(t, 0, machine.Count())
	assert.False(t, machine.Contains("7"))
}

func TestClearEmitsNotification(t *testing.T) {
	machine, channel := newTestMachine(t, newTestBridge(t))

	machine.Add(basketsBlanches())
	machine.Clear()

	assert.Equal(t, 0, machine.Count())

	active := channel.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, "Favoris vidés", active[len(active)-1].Message)
}

func TestPersistenceRoundTrip(t *testing.T) {
	bridge := newTestBridge(t)

	machine, _ := newTestMachine(t, bridge)
	machine.Add(basketsBlanches())

	rehydrated, _ := newTestMachine(t, bridge)
	require.Equal(t, 1, rehydrated.Count())
	assert.True(t, rehydrated.Contains("7"))
}

func TestHydrateDeduplicatesStoredEntries(t *testing.T) {
	bridge := newTestBridge(t)
	bridge.Put(kvstore.KeyFavorites, []Entry{
		{ProductID: "7", Name: "Baskets"},
		{ProductID: "7", Name: "Baskets dupliquées"},
		{ProductID: "", Name: "fantôme"},
	})

	machine, _ := newTestMachine(t, bridge)

	require.Equal(t, 1, machine.Count())
	assert.Equal(t, "Baskets", machine.Items()[0].Name)
}

func TestHydrateRunsOnce(t *testing.T) {
	bridge := newTestBridge(t)

	machine, _ := newTestMachine(t, bridge)
	machine.Add(basketsBlanches())

	bridge.Put(kvstore.KeyFavorites, []Entry{})
	machine.Hydrate()

	assert.Equal(t, 1, machine.Count())
}
