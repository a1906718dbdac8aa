package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"expediter/internal/config"
	"expediter/internal/kds"
)

// Broadcaster delivers event envelopes to connected displays.
type Broadcaster interface {
	Broadcast(Envelope)
}

// Notifier turns engine events into websocket pushes and manages the toast
// lifecycle: each toast lives for its configured lifetime unless dismissed
// or superseded, and at most MaxVisible new-order toasts are shown at once
// (oldest retired first). Modification and stock toasts are bounded by
// supersession per subject instead, so a burst of arrivals never hides an
// active order-changed alert and a long-lived alert never starves arrivals.
type Notifier struct {
	cfg  *config.Config
	sink Broadcaster
	now  func() time.Time

	mu     sync.Mutex
	toasts map[string]Toast
	timers *timerRegistry
}

// NewNotifier wires a notifier to its broadcast sink.
func NewNotifier(cfg *config.Config, sink Broadcaster) *Notifier {
	return &Notifier{
		cfg:    cfg,
		sink:   sink,
		now:    time.Now,
		toasts: make(map[string]Toast),
		timers: newTimerRegistry(),
	}
}

// OrderArrived pushes the arrival event and raises a short-lived toast.
func (n *Notifier) OrderArrived(ev kds.ArrivalEvent) {
	now := n.now()
	n.sink.Broadcast(Envelope{Type: EventOrderArrived, At: now, Data: ev})

	title := fmt.Sprintf("New order #%s", ev.OrderNumber)
	switch ev.Kind {
	case "remake":
		title = fmt.Sprintf("Remake #%s", ev.OrderNumber)
	case "recall":
		title = fmt.Sprintf("Recalled #%s", ev.OrderNumber)
	}
	n.show(Toast{
		ID:        uuid.NewString(),
		Kind:      ToastNewOrder,
		Title:     title,
		Body:      fmt.Sprintf("%d item(s)", ev.ItemCount),
		CreatedAt: now,
		ExpiresAt: now.Add(n.lifetime(ToastNewOrder)),
		Payload:   ev,
	})
}

// OrderModified pushes the modification event and raises a long-lived toast.
// A second modification to the same order supersedes the first toast, timer
// included.
func (n *Notifier) OrderModified(ev kds.ModifiedEvent) {
	now := n.now()
	n.sink.Broadcast(Envelope{Type: EventOrderModified, At: now, Data: ev})

	n.supersede(ToastModified, ev.OrderID)
	n.show(Toast{
		ID:        uuid.NewString(),
		Kind:      ToastModified,
		Title:     fmt.Sprintf("Order #%s changed", ev.OrderNumber),
		CreatedAt: now,
		ExpiresAt: now.Add(n.lifetime(ToastModified)),
		Payload:   ev,
	})
}

// StockChanged pushes the 86-board event and raises a toast. Only status
// changes reach here; the engine filters count-only updates.
func (n *Notifier) StockChanged(ev kds.StockEvent) {
	now := n.now()
	n.sink.Broadcast(Envelope{Type: EventStockChanged, At: now, Data: ev})

	n.supersede(ToastStock, ev.ItemID)
	n.show(Toast{
		ID:        uuid.NewString(),
		Kind:      ToastStock,
		Title:     fmt.Sprintf("%s is %s", ev.ItemName, ev.Status),
		CreatedAt: now,
		ExpiresAt: now.Add(n.lifetime(ToastStock)),
		Payload:   ev,
	})
}

// OrdersWoken announces orders returning from snooze.
func (n *Notifier) OrdersWoken(orderIDs []string) {
	if len(orderIDs) == 0 {
		return
	}
	n.sink.Broadcast(Envelope{
		Type: EventOrdersWoken,
		At:   n.now(),
		Data: map[string][]string{"orderIds": orderIDs},
	})
}

// Dismiss retires a toast ahead of its lifetime, cancelling its expiry
// timer. Reports whether the toast was still active.
func (n *Notifier) Dismiss(toastID string) bool {
	n.mu.Lock()
	toast, ok := n.toasts[toastID]
	if ok {
		delete(n.toasts, toastID)
	}
	n.mu.Unlock()

	if !ok {
		return false
	}
	n.timers.cancel(toastID)
	n.sink.Broadcast(Envelope{Type: EventToastExpired, At: n.now(), Data: toast})
	return true
}

// Active returns the live toasts, oldest first.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Toast, 0, len(n.toasts))
	for _, toast := range n.toasts {
		out = append(out, toast)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close cancels every pending toast timer.
func (n *Notifier) Close() {
	n.timers.stopAll()
}

func (n *Notifier) lifetime(kind string) time.Duration {
	switch kind {
	case ToastModified:
		return time.Duration(n.cfg.Toasts.ModifiedSeconds) * time.Second
	case ToastStock:
		return time.Duration(n.cfg.Toasts.StockSeconds) * time.Second
	default:
		return time.Duration(n.cfg.Toasts.NewOrderSeconds) * time.Second
	}
}

// show records the toast, evicting the oldest toast of the same kind if a
// new-order toast hits the visible cap, schedules its expiry, and
// broadcasts it.
func (n *Notifier) show(toast Toast) {
	var evicted []Toast
	n.mu.Lock()
	if toast.Kind == ToastNewOrder {
		for n.countOfKind(ToastNewOrder) >= n.cfg.Toasts.MaxVisible {
			oldest := ""
			var oldestAt time.Time
			for id, t := range n.toasts {
				if t.Kind != ToastNewOrder {
					continue
				}
				if oldest == "" || t.CreatedAt.Before(oldestAt) {
					oldest = id
					oldestAt = t.CreatedAt
				}
			}
			evicted = append(evicted, n.toasts[oldest])
			delete(n.toasts, oldest)
		}
	}
	n.toasts[toast.ID] = toast
	n.mu.Unlock()

	for _, old := range evicted {
		n.timers.cancel(old.ID)
		n.sink.Broadcast(Envelope{Type: EventToastExpired, At: n.now(), Data: old})
	}

	n.timers.schedule(toast.ID, toast.ExpiresAt.Sub(n.now()), func() {
		n.expire(toast.ID)
	})
	n.sink.Broadcast(Envelope{Type: EventToastShown, At: n.now(), Data: toast})
}

// supersede retires the active toast of the given kind bound to the same
// subject, if any.
func (n *Notifier) supersede(kind, subjectID string) {
	n.mu.Lock()
	var stale []Toast
	for id, toast := range n.toasts {
		if toast.Kind != kind {
			continue
		}
		if toastSubject(toast) == subjectID {
			stale = append(stale, toast)
			delete(n.toasts, id)
		}
	}
	n.mu.Unlock()

	for _, toast := range stale {
		n.timers.cancel(toast.ID)
		n.sink.Broadcast(Envelope{Type: EventToastExpired, At: n.now(), Data: toast})
	}
}

// countOfKind counts active toasts of one kind. Caller holds n.mu.
func (n *Notifier) countOfKind(kind string) int {
	count := 0
	for _, toast := range n.toasts {
		if toast.Kind == kind {
			count++
		}
	}
	return count
}

func toastSubject(toast Toast) string {
	switch p := toast.Payload.(type) {
	case kds.ModifiedEvent:
		return p.OrderID
	case kds.StockEvent:
		return p.ItemID
	case kds.ArrivalEvent:
		return p.OrderID
	}
	return ""
}

func (n *Notifier) expire(toastID string) {
	n.mu.Lock()
	toast, ok := n.toasts[toastID]
	if ok {
		delete(n.toasts, toastID)
	}
	n.mu.Unlock()

	if ok {
		n.sink.Broadcast(Envelope{Type: EventToastExpired, At: n.now(), Data: toast})
	}
}
