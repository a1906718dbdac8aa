package kds

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"expediter/internal/config"
	"expediter/internal/models"
)

// Result is the outcome of a lifecycle command. Missing targets and failed
// preconditions are expected in a display-local model (stale double-taps on
// tickets that already moved), so they are reported as values rather than
// errors and absorbed by the caller.
type Result int

const (
	Applied Result = iota
	NotFound
	PreconditionNotMet
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	case PreconditionNotMet:
		return "precondition_not_met"
	default:
		return "unknown"
	}
}

// ArrivalEvent carries what a new-ticket toast needs to render.
type ArrivalEvent struct {
	OrderID      string           `json:"orderId"`
	OrderNumber  string           `json:"orderNumber"`
	OrderType    models.OrderType `json:"orderType"`
	TableNumber  string           `json:"tableNumber,omitempty"`
	CustomerName string           `json:"customerName,omitempty"`
	ItemCount    int              `json:"itemCount"`
	IsPriority   bool             `json:"isPriority,omitempty"`
	Kind         string           `json:"kind"` // new, remake, recall
}

// ModifiedEvent signals that an active ticket was changed mid-flight.
type ModifiedEvent struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// StockEvent signals an 86-board status change (never a count-only update).
type StockEvent struct {
	ItemID    string            `json:"itemId"`
	ItemName  string            `json:"itemName"`
	Status    models.StockLevel `json:"status"`
	LowCount  int               `json:"lowCount,omitempty"`
	UpdatedBy string            `json:"updatedBy"`
}

// Events receives the engine's notification-worthy transitions. Each fires
// exactly once per qualifying transition, synchronously under the engine
// lock; implementations must not call back into the engine.
type Events interface {
	OrderArrived(ArrivalEvent)
	OrderModified(ModifiedEvent)
	StockChanged(StockEvent)
}

// Metrics receives operational counters. Implemented by the monitoring
// package; a nil collector disables reporting.
type Metrics interface {
	CommandProcessed(command string, result Result)
	OrderCompleted(wait time.Duration)
	BoardGauges(active, archived, stockedOut int)
}

type nopEvents struct{}

func (nopEvents) OrderArrived(ArrivalEvent)   {}
func (nopEvents) OrderModified(ModifiedEvent) {}
func (nopEvents) StockChanged(StockEvent)     {}

type nopMetrics struct{}

func (nopMetrics) CommandProcessed(string, Result) {}
func (nopMetrics) OrderCompleted(time.Duration)    {}
func (nopMetrics) BoardGauges(int, int, int)       {}

// arrival records that an order just reached a status, for the transient
// staging pin in the READY column. Entries expire on read.
type arrival struct {
	status    models.StationStatus
	expiresAt time.Time
}

// Engine owns the active order collection and is its only writer. All
// commands and queries serialize through one mutex, so every command's
// effects (station update, status recompute, archive-on-complete) are atomic
// with respect to any other command or read.
type Engine struct {
	mu      sync.Mutex
	cfg     *config.Config
	now     func() time.Time
	events  Events
	metrics Metrics

	orders     []*models.Order
	archive    *archive
	stock      *stockLedger
	dismissed  map[models.BatchKey]bool
	arrivals   map[string]arrival
	nextNumber int
}

// New creates an engine with no listeners attached.
func New(cfg *config.Config) *Engine {
	return &Engine{
		cfg:        cfg,
		now:        time.Now,
		events:     nopEvents{},
		metrics:    nopMetrics{},
		archive:    newArchive(cfg.Archive.Capacity),
		stock:      newStockLedger(),
		dismissed:  make(map[models.BatchKey]bool),
		arrivals:   make(map[string]arrival),
		nextNumber: 1001,
	}
}

// SetEvents attaches the notification sink. Must be called before commands
// start flowing.
func (e *Engine) SetEvents(ev Events) {
	if ev != nil {
		e.events = ev
	}
}

// SetMetrics attaches the metrics sink.
func (e *Engine) SetMetrics(m Metrics) {
	if m != nil {
		e.metrics = m
	}
}

func (e *Engine) policy() urgencyPolicy {
	return urgencyPolicy{
		warningAfter: e.cfg.WarningAfter(),
		urgentAfter:  e.cfg.UrgentAfter(),
	}
}

// CreateOrder appends a new order to the board with a pending status for
// every involved station, and emits the new-order arrival event. This is the
// only command that rejects invalid input with an error: arrival drafts come
// from an external producer and must satisfy the station invariant.
func (e *Engine) CreateOrder(draft models.OrderDraft) (*models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := models.NewOrder(e.nextOrderNumber(), draft, e.now())
	if err != nil {
		e.metrics.CommandProcessed("create_order", PreconditionNotMet)
		return nil, fmt.Errorf("create order: %w", err)
	}

	e.orders = append(e.orders, order)
	e.emitArrival(order, "new")
	e.finishCommand("create_order", Applied)
	return order.Clone(), nil
}

// AdvanceStation sets the station's status on an order. When the station was
// already ready, the new status is ready, and the update leaves every station
// ready, the command is a bump-to-complete: the order is archived and removed
// from the board.
func (e *Engine) AdvanceStation(orderID, stationID string, next models.StationStatus) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !next.Valid() {
		return e.finishCommand("advance_station", PreconditionNotMet)
	}
	order := e.findOrder(orderID)
	if order == nil {
		return e.finishCommand("advance_station", NotFound)
	}
	prev, ok := order.StationStatuses[stationID]
	if !ok {
		return e.finishCommand("advance_station", PreconditionNotMet)
	}

	now := e.now()
	order.StationStatuses[stationID] = next

	if next == models.StatusReady && prev == models.StatusReady && allStationsReady(order.StationStatuses) {
		e.archive.add(models.NewCompletedOrder(order, now))
		e.removeOrder(orderID)
		delete(e.arrivals, orderID)
		e.metrics.OrderCompleted(now.Sub(order.CreatedAt))
		e.maybeResetDismissals()
		return e.finishCommand("bump", Applied)
	}

	if prev != next {
		e.arrivals[orderID] = arrival{status: next, expiresAt: now.Add(e.cfg.StagingWindow())}
	}
	return e.finishCommand("advance_station", Applied)
}

// Refire clones a single item into a new remake ticket, prepended to the
// board. The source order and item are untouched.
func (e *Engine) Refire(orderID, itemID, reason string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.findOrder(orderID)
	if order == nil {
		return e.finishCommand("refire", NotFound)
	}
	item := order.ItemByID(itemID)
	if item == nil {
		return e.finishCommand("refire", NotFound)
	}

	remake := models.NewRemake(order, *item, reason, e.now())
	e.orders = append([]*models.Order{remake}, e.orders...)
	e.emitArrival(remake, "remake")
	return e.finishCommand("refire", Applied)
}

// Recall pulls a completed order out of the archive and puts it back on the
// board with every station forced to ready.
func (e *Engine) Recall(completedOrderID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.archive.remove(completedOrderID)
	if entry == nil {
		return e.finishCommand("recall", NotFound)
	}

	now := e.now()
	order := entry.Recall(now)
	e.orders = append([]*models.Order{order}, e.orders...)
	e.arrivals[order.ID] = arrival{status: models.StatusReady, expiresAt: now.Add(e.cfg.StagingWindow())}
	e.emitArrival(order, "recall")
	return e.finishCommand("recall", Applied)
}

// ItemPatch flags one existing item as changed for display emphasis.
type ItemPatch struct {
	ItemID        string `json:"itemId"`
	IsNew         bool   `json:"isNew,omitempty"`
	IsModified    bool   `json:"isModified,omitempty"`
	IsRemoved     bool   `json:"isRemoved,omitempty"`
	ChangeDetails string `json:"changeDetails,omitempty"`
}

// Modification is the payload of MarkModified: per-item change flags plus
// items added mid-flight.
type Modification struct {
	Patches  []ItemPatch        `json:"patches,omitempty"`
	AddItems []models.OrderItem `json:"addItems,omitempty"`
}

// MarkModified stamps an order as changed mid-flight. Patches flag existing
// items; added items join the order as new (a station they introduce starts
// pending). The 2-minute highlight window that follows is a read-time
// decision surfaced through OrderView.RecentlyModified.
func (e *Engine) MarkModified(orderID string, change Modification) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.findOrder(orderID)
	if order == nil {
		return e.finishCommand("mark_modified", NotFound)
	}

	now := e.now()
	for _, patch := range change.Patches {
		item := order.ItemByID(patch.ItemID)
		if item == nil {
			continue
		}
		item.IsNew = patch.IsNew
		item.IsModified = patch.IsModified
		item.IsRemoved = patch.IsRemoved
		item.ChangeDetails = patch.ChangeDetails
	}
	for _, add := range change.AddItems {
		if add.StationID == "" || add.Quantity <= 0 {
			continue
		}
		add.ID = uuid.NewString()
		add.IsNew = true
		order.Items = append(order.Items, add)
	}
	order.NormalizeStations()

	order.IsModified = true
	order.ModifiedAt = now
	e.events.OrderModified(ModifiedEvent{OrderID: order.ID, OrderNumber: order.OrderNumber})
	return e.finishCommand("mark_modified", Applied)
}

// Snooze defers a ticket. Eligible only while the order has waited less than
// the configured window, and only once per lifetime: WasSnoozed is spent
// forever on first use.
func (e *Engine) Snooze(orderID string, duration time.Duration) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.findOrder(orderID)
	if order == nil {
		return e.finishCommand("snooze", NotFound)
	}

	now := e.now()
	if duration <= 0 ||
		now.Sub(order.CreatedAt) >= e.cfg.SnoozeMaxWait() ||
		order.WasSnoozed ||
		order.IsSnoozed {
		return e.finishCommand("snooze", PreconditionNotMet)
	}

	order.IsSnoozed = true
	order.SnoozedAt = now
	order.SnoozeUntil = now.Add(duration)
	order.WasSnoozed = true
	return e.finishCommand("snooze", Applied)
}

// WakeUp manually ends a snooze early. WasSnoozed stays set.
func (e *Engine) WakeUp(orderID string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.findOrder(orderID)
	if order == nil {
		return e.finishCommand("wake_up", NotFound)
	}
	if !order.IsSnoozed {
		return e.finishCommand("wake_up", PreconditionNotMet)
	}
	clearSnooze(order)
	return e.finishCommand("wake_up", Applied)
}

// WakeExpired clears every snooze whose deadline has passed, returning the
// ids of woken orders. Driven by the periodic tick in cmd.
func (e *Engine) WakeExpired() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var woken []string
	for _, order := range e.orders {
		if order.IsSnoozed && !now.Before(order.SnoozeUntil) {
			clearSnooze(order)
			woken = append(woken, order.ID)
			log.Printf("order %s woke from snooze", order.OrderNumber)
		}
	}
	return woken
}

// UpdateStock upserts the 86 entry for a menu item; restoring to available
// deletes it. Only a status change emits the stock event; a count-only
// update to an already-low item stays quiet.
func (e *Engine) UpdateStock(itemID string, level models.StockLevel, count int, updatedBy string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !level.Valid() {
		return e.finishCommand("update_stock", PreconditionNotMet)
	}

	name := e.menuItemName(itemID)
	changed := e.stock.set(itemID, name, level, count, updatedBy, e.now())
	if changed {
		e.events.StockChanged(StockEvent{
			ItemID:    itemID,
			ItemName:  name,
			Status:    level,
			LowCount:  count,
			UpdatedBy: updatedBy,
		})
	}
	return e.finishCommand("update_stock", Applied)
}

// DismissBatch suppresses a batch suggestion by its (name, variant) key.
func (e *Engine) DismissBatch(key models.BatchKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dismissed[key] = true
	e.finishCommand("dismiss_batch", Applied)
}

// internal helpers, all called under e.mu

func (e *Engine) findOrder(orderID string) *models.Order {
	for _, order := range e.orders {
		if order.ID == orderID {
			return order
		}
	}
	return nil
}

func (e *Engine) removeOrder(orderID string) {
	for i, order := range e.orders {
		if order.ID == orderID {
			e.orders = append(e.orders[:i], e.orders[i+1:]...)
			return
		}
	}
}

func (e *Engine) nextOrderNumber() string {
	n := e.nextNumber
	e.nextNumber++
	return fmt.Sprintf("%d", n)
}

func (e *Engine) emitArrival(order *models.Order, kind string) {
	e.events.OrderArrived(ArrivalEvent{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		OrderType:    order.OrderType,
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		ItemCount:    len(order.Items),
		IsPriority:   order.IsPriority,
		Kind:         kind,
	})
}

// maybeResetDismissals forgets dismissed batch keys when the board drains
// empty under session-scoped dismissals.
func (e *Engine) maybeResetDismissals() {
	if e.cfg.Batching.DismissalScope == config.DismissPerSession && len(e.orders) == 0 {
		e.dismissed = make(map[models.BatchKey]bool)
	}
}

func (e *Engine) finishCommand(command string, result Result) Result {
	e.metrics.CommandProcessed(command, result)
	e.metrics.BoardGauges(len(e.orders), e.archive.size(), e.stock.unavailable())
	return result
}

func (e *Engine) menuItemName(itemID string) string {
	for _, item := range e.cfg.Menu {
		if item.ID == itemID {
			return item.Name
		}
	}
	return itemID
}

func clearSnooze(order *models.Order) {
	order.IsSnoozed = false
	order.SnoozedAt = time.Time{}
	order.SnoozeUntil = time.Time{}
	// WasSnoozed stays true: one snooze per lifetime.
}
