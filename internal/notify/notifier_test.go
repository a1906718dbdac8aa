package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expediter/internal/config"
	"expediter/internal/kds"
)

// fakeSink records broadcast envelopes.
type fakeSink struct {
	mu   sync.Mutex
	sent []Envelope
}

func (s *fakeSink) Broadcast(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, env)
}

func (s *fakeSink) byType(eventType string) []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Envelope
	for _, env := range s.sent {
		if env.Type == eventType {
			out = append(out, env)
		}
	}
	return out
}

func newTestNotifier(t *testing.T) (*Notifier, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	n := NewNotifier(config.Default(), sink)
	t.Cleanup(n.Close)
	return n, sink
}

func TestOrderArrivedToast(t *testing.T) {
	n, sink := newTestNotifier(t)

	n.OrderArrived(kds.ArrivalEvent{OrderID: "o1", OrderNumber: "1001", ItemCount: 2, Kind: "new"})

	require.Len(t, sink.byType(EventOrderArrived), 1)
	shown := sink.byType(EventToastShown)
	require.Len(t, shown, 1)

	toasts := n.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastNewOrder, toasts[0].Kind)
	assert.Equal(t, "New order #1001", toasts[0].Title)
	assert.Equal(t, 5*time.Second, toasts[0].ExpiresAt.Sub(toasts[0].CreatedAt))
}

func TestToastKindsAndLifetimes(t *testing.T) {
	n, _ := newTestNotifier(t)

	n.OrderModified(kds.ModifiedEvent{OrderID: "o1", OrderNumber: "1001"})
	n.StockChanged(kds.StockEvent{ItemID: "burger", ItemName: "Burger", Status: "out"})

	toasts := n.Active()
	require.Len(t, toasts, 2)

	byKind := map[string]Toast{}
	for _, toast := range toasts {
		byKind[toast.Kind] = toast
	}
	assert.Equal(t, 60*time.Second, byKind[ToastModified].ExpiresAt.Sub(byKind[ToastModified].CreatedAt))
	assert.Equal(t, 10*time.Second, byKind[ToastStock].ExpiresAt.Sub(byKind[ToastStock].CreatedAt))
	assert.Equal(t, "Burger is out", byKind[ToastStock].Title)
}

func TestToastVisibleCap(t *testing.T) {
	n, sink := newTestNotifier(t)

	for i := 0; i < 5; i++ {
		n.OrderArrived(kds.ArrivalEvent{
			OrderID:     string(rune('a' + i)),
			OrderNumber: string(rune('a' + i)),
			Kind:        "new",
		})
	}

	toasts := n.Active()
	assert.Len(t, toasts, config.Default().Toasts.MaxVisible)
	// Two oldest were retired early.
	assert.Len(t, sink.byType(EventToastExpired), 2)
}

func TestToastCapScopedToNewOrderKind(t *testing.T) {
	n, sink := newTestNotifier(t)

	// A long-lived alert is already up.
	n.OrderModified(kds.ModifiedEvent{OrderID: "m1", OrderNumber: "900"})

	limit := config.Default().Toasts.MaxVisible
	for i := 0; i < limit+1; i++ {
		n.OrderArrived(kds.ArrivalEvent{
			OrderID:     string(rune('a' + i)),
			OrderNumber: string(rune('a' + i)),
			Kind:        "new",
		})
	}

	// The cap retired only the oldest arrival; the modified alert survives
	// alongside a full set of new-order toasts.
	toasts := n.Active()
	require.Len(t, toasts, limit+1)

	kinds := map[string]int{}
	for _, toast := range toasts {
		kinds[toast.Kind]++
	}
	assert.Equal(t, 1, kinds[ToastModified])
	assert.Equal(t, limit, kinds[ToastNewOrder])

	expired := sink.byType(EventToastExpired)
	require.Len(t, expired, 1)
	retired, ok := expired[0].Data.(Toast)
	require.True(t, ok)
	assert.Equal(t, ToastNewOrder, retired.Kind)
}

func TestToastDismiss(t *testing.T) {
	n, sink := newTestNotifier(t)

	n.OrderArrived(kds.ArrivalEvent{OrderID: "o1", OrderNumber: "1001", Kind: "new"})
	toasts := n.Active()
	require.Len(t, toasts, 1)

	assert.True(t, n.Dismiss(toasts[0].ID))
	assert.Empty(t, n.Active())
	assert.Len(t, sink.byType(EventToastExpired), 1)

	// Dismissing again finds nothing.
	assert.False(t, n.Dismiss(toasts[0].ID))
	assert.Zero(t, n.timers.pending())
}

func TestModifiedToastSupersedes(t *testing.T) {
	n, sink := newTestNotifier(t)

	n.OrderModified(kds.ModifiedEvent{OrderID: "o1", OrderNumber: "1001"})
	n.OrderModified(kds.ModifiedEvent{OrderID: "o1", OrderNumber: "1001"})

	// Second change replaces the first toast instead of stacking.
	toasts := n.Active()
	require.Len(t, toasts, 1)
	assert.Len(t, sink.byType(EventToastExpired), 1)
	assert.Equal(t, 1, n.timers.pending())

	// A different order gets its own toast.
	n.OrderModified(kds.ModifiedEvent{OrderID: "o2", OrderNumber: "1002"})
	assert.Len(t, n.Active(), 2)
}

func TestToastExpiry(t *testing.T) {
	sink := &fakeSink{}
	cfg := config.Default()
	cfg.Toasts.NewOrderSeconds = 1

	n := NewNotifier(cfg, sink)
	t.Cleanup(n.Close)

	n.OrderArrived(kds.ArrivalEvent{OrderID: "o1", OrderNumber: "1001", Kind: "new"})
	require.Len(t, n.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(n.Active()) == 0 && len(sink.byType(EventToastExpired)) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestOrdersWoken(t *testing.T) {
	n, sink := newTestNotifier(t)

	n.OrdersWoken(nil)
	assert.Empty(t, sink.byType(EventOrdersWoken))

	n.OrdersWoken([]string{"o1", "o2"})
	assert.Len(t, sink.byType(EventOrdersWoken), 1)
}
