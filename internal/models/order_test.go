package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	draft := OrderDraft{
		OrderType:   OrderDineIn,
		TableNumber: "12",
		Items: []OrderItem{
			{Name: "Burger", Quantity: 2, StationID: "kitchen"},
			{Name: "Old Fashioned", Quantity: 1, StationID: "bar"},
			{Name: "Caesar Salad", Quantity: 1, StationID: "kitchen"},
		},
	}

	order, err := NewOrder("1001", draft, now)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "1001", order.OrderNumber)
	assert.Equal(t, now, order.CreatedAt)
	require.Len(t, order.Items, 3)
	for _, item := range order.Items {
		assert.NotEmpty(t, item.ID)
	}

	// Two kitchen items collapse to one station entry.
	require.Len(t, order.StationStatuses, 2)
	assert.Equal(t, StatusPending, order.StationStatuses["kitchen"])
	assert.Equal(t, StatusPending, order.StationStatuses["bar"])
	assert.NoError(t, order.Validate())
}

func TestNewOrderRejects(t *testing.T) {
	now := time.Now()

	_, err := NewOrder("1", OrderDraft{}, now)
	assert.Error(t, err)

	_, err = NewOrder("2", OrderDraft{
		Items: []OrderItem{{Name: "Burger", Quantity: 1}},
	}, now)
	assert.Error(t, err)

	_, err = NewOrder("3", OrderDraft{
		Items: []OrderItem{{Name: "Burger", Quantity: 0, StationID: "kitchen"}},
	}, now)
	assert.Error(t, err)
}

func TestNewRemake(t *testing.T) {
	now := time.Now()
	parent, err := NewOrder("1001", OrderDraft{
		OrderType:   OrderDineIn,
		TableNumber: "4",
		Items: []OrderItem{
			{Name: "Burger", Variant: "medium", Quantity: 1, StationID: "kitchen", IsModified: true},
			{Name: "Old Fashioned", Quantity: 1, StationID: "bar"},
		},
	}, now)
	require.NoError(t, err)

	remake := NewRemake(parent, parent.Items[0], "burnt", now.Add(time.Minute))

	assert.True(t, remake.IsRemake)
	assert.Equal(t, "1001-R", remake.OrderNumber)
	assert.Equal(t, parent.ID, remake.OriginalOrderID)
	assert.Equal(t, "burnt", remake.RemakeReason)
	assert.Equal(t, "4", remake.TableNumber)

	require.Len(t, remake.Items, 1)
	assert.NotEqual(t, parent.Items[0].ID, remake.Items[0].ID)
	assert.Equal(t, "Burger", remake.Items[0].Name)
	// Change flags do not travel to the remake.
	assert.False(t, remake.Items[0].IsModified)

	// Only the item's station is involved.
	require.Len(t, remake.StationStatuses, 1)
	assert.Equal(t, StatusPending, remake.StationStatuses["kitchen"])
	assert.NoError(t, remake.Validate())
}

func TestNormalizeStations(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("1001", OrderDraft{
		Items: []OrderItem{{Name: "Burger", Quantity: 1, StationID: "kitchen"}},
	}, now)
	require.NoError(t, err)

	order.StationStatuses["kitchen"] = StatusPreparing
	order.Items = append(order.Items, OrderItem{ID: "x", Name: "Cheesecake", Quantity: 1, StationID: "dessert"})
	order.NormalizeStations()

	// Kitchen keeps its progress; the new station starts pending.
	assert.Equal(t, StatusPreparing, order.StationStatuses["kitchen"])
	assert.Equal(t, StatusPending, order.StationStatuses["dessert"])
	assert.NoError(t, order.Validate())

	// Dropping the dessert item drops its station entry too.
	order.Items = order.Items[:1]
	order.NormalizeStations()
	require.Len(t, order.StationStatuses, 1)
	assert.NoError(t, order.Validate())
}

func TestValidateCatchesBrokenInvariant(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("1001", OrderDraft{
		Items: []OrderItem{{Name: "Burger", Quantity: 1, StationID: "kitchen"}},
	}, now)
	require.NoError(t, err)

	order.StationStatuses["ghost"] = StatusPending
	assert.Error(t, order.Validate())

	delete(order.StationStatuses, "ghost")
	delete(order.StationStatuses, "kitchen")
	assert.Error(t, order.Validate())
}

func TestDisplayLabel(t *testing.T) {
	dineIn := &Order{OrderType: OrderDineIn, TableNumber: "12"}
	assert.Equal(t, "T-12", dineIn.DisplayLabel())

	pickup := &Order{OrderType: OrderPickup, CustomerName: "Dana"}
	assert.Equal(t, "Dana", pickup.DisplayLabel())

	anonymous := &Order{OrderType: OrderDelivery}
	assert.Equal(t, "delivery", anonymous.DisplayLabel())
}

func TestClone(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("1001", OrderDraft{
		Items: []OrderItem{
			{Name: "Burger", Quantity: 1, StationID: "kitchen", Customizations: []string{"no onions"}},
		},
	}, now)
	require.NoError(t, err)

	clone := order.Clone()
	clone.Items[0].Name = "Changed"
	clone.Items[0].Customizations[0] = "changed"
	clone.StationStatuses["kitchen"] = StatusReady

	assert.Equal(t, "Burger", order.Items[0].Name)
	assert.Equal(t, "no onions", order.Items[0].Customizations[0])
	assert.Equal(t, StatusPending, order.StationStatuses["kitchen"])
}

func TestCompletedOrderRecall(t *testing.T) {
	now := time.Now()
	order, err := NewOrder("1001", OrderDraft{
		Items: []OrderItem{
			{Name: "Burger", Quantity: 1, StationID: "kitchen"},
			{Name: "Old Fashioned", Quantity: 1, StationID: "bar"},
		},
	}, now)
	require.NoError(t, err)
	order.StationStatuses["kitchen"] = StatusReady
	order.StationStatuses["bar"] = StatusReady

	completed := NewCompletedOrder(order, now.Add(5*time.Minute))

	// Snapshot is detached from the live order.
	order.Items[0].Name = "Changed"
	assert.Equal(t, "Burger", completed.Order.Items[0].Name)

	recalled := completed.Recall(now.Add(10 * time.Minute))
	assert.True(t, recalled.IsRecalled)
	assert.Equal(t, now.Add(10*time.Minute), recalled.RecalledAt)
	for _, s := range recalled.StationStatuses {
		assert.Equal(t, StatusReady, s)
	}
	// The archive entry itself stays clean.
	assert.False(t, completed.Order.IsRecalled)
}
