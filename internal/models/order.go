package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StationStatus is the per-station preparation state of an order.
type StationStatus string

const (
	StatusPending   StationStatus = "pending"
	StatusPreparing StationStatus = "preparing"
	StatusReady     StationStatus = "ready"
)

// Valid reports whether s is one of the three known station statuses.
func (s StationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// OrderType determines which display label an order carries: table number
// for dine-in, customer name for pickup and delivery.
type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderPickup   OrderType = "pickup"
	OrderDelivery OrderType = "delivery"
)

// OrderItem is one line item within an order. Identity is immutable once
// created; a re-fire clones content into a brand-new item in a remake order.
type OrderItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Variant        string   `json:"variant,omitempty"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations,omitempty"`
	StationID      string   `json:"stationId"`

	// Change-tracking flags set through order modification.
	IsNew         bool   `json:"isNew,omitempty"`
	IsModified    bool   `json:"isModified,omitempty"`
	IsRemoved     bool   `json:"isRemoved,omitempty"`
	ChangeDetails string `json:"changeDetails,omitempty"`
}

// Order is one customer order. StationStatuses keys are always exactly the
// distinct station ids present among Items; overall status is derived from
// them, never stored.
type Order struct {
	ID              string                   `json:"id"`
	OrderNumber     string                   `json:"orderNumber"`
	OrderType       OrderType                `json:"orderType"`
	TableNumber     string                   `json:"tableNumber,omitempty"`
	CustomerName    string                   `json:"customerName,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	Items           []OrderItem              `json:"items"`
	StationStatuses map[string]StationStatus `json:"stationStatuses"`

	IsPriority          bool   `json:"isPriority,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`

	IsRemake        bool   `json:"isRemake,omitempty"`
	RemakeReason    string `json:"remakeReason,omitempty"`
	OriginalOrderID string `json:"originalOrderId,omitempty"`

	IsRecalled bool      `json:"isRecalled,omitempty"`
	RecalledAt time.Time `json:"recalledAt,omitempty"`

	IsModified bool      `json:"isModified,omitempty"`
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`

	IsSnoozed   bool      `json:"isSnoozed,omitempty"`
	SnoozedAt   time.Time `json:"snoozedAt,omitempty"`
	SnoozeUntil time.Time `json:"snoozeUntil,omitempty"`
	WasSnoozed  bool      `json:"wasSnoozed,omitempty"`
}

// OrderDraft is the arrival-path input for a new order.
type OrderDraft struct {
	OrderType           OrderType   `json:"orderType"`
	TableNumber         string      `json:"tableNumber,omitempty"`
	CustomerName        string      `json:"customerName,omitempty"`
	Items               []OrderItem `json:"items"`
	IsPriority          bool        `json:"isPriority,omitempty"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
}

// NewOrder builds an active order from a draft, assigning ids and a pending
// status for every station touched by its items. Items missing a station id
// or quantity are rejected rather than normalized away.
func NewOrder(orderNumber string, draft OrderDraft, now time.Time) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("order %s has no items", orderNumber)
	}

	order := &Order{
		ID:                  uuid.NewString(),
		OrderNumber:         orderNumber,
		OrderType:           draft.OrderType,
		TableNumber:         draft.TableNumber,
		CustomerName:        draft.CustomerName,
		CreatedAt:           now,
		IsPriority:          draft.IsPriority,
		SpecialInstructions: draft.SpecialInstructions,
		StationStatuses:     make(map[string]StationStatus),
	}

	for _, item := range draft.Items {
		if item.StationID == "" {
			return nil, fmt.Errorf("item %q has no station", item.Name)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %q has non-positive quantity %d", item.Name, item.Quantity)
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		order.Items = append(order.Items, item)
		order.StationStatuses[item.StationID] = StatusPending
	}

	return order, nil
}

// NewRemake builds a remake order carrying a single re-fired item. The item
// content is cloned under a new id; the source order is never mutated.
func NewRemake(parent *Order, item OrderItem, reason string, now time.Time) *Order {
	clone := item
	clone.ID = uuid.NewString()
	clone.IsNew = false
	clone.IsModified = false
	clone.IsRemoved = false
	clone.ChangeDetails = ""

	return &Order{
		ID:                  uuid.NewString(),
		OrderNumber:         parent.OrderNumber + "-R",
		OrderType:           parent.OrderType,
		TableNumber:         parent.TableNumber,
		CustomerName:        parent.CustomerName,
		CreatedAt:           now,
		Items:               []OrderItem{clone},
		StationStatuses:     map[string]StationStatus{clone.StationID: StatusPending},
		SpecialInstructions: parent.SpecialInstructions,
		IsRemake:            true,
		RemakeReason:        reason,
		OriginalOrderID:     parent.ID,
	}
}

// NormalizeStations rebuilds StationStatuses so its keys are exactly the
// distinct station ids among Items. Existing station entries keep their
// status; stations introduced by new items start pending.
func (o *Order) NormalizeStations() {
	statuses := make(map[string]StationStatus, len(o.StationStatuses))
	for _, item := range o.Items {
		if prev, ok := o.StationStatuses[item.StationID]; ok {
			statuses[item.StationID] = prev
		} else {
			statuses[item.StationID] = StatusPending
		}
	}
	o.StationStatuses = statuses
}

// Validate checks the station invariant: every item's station has a status
// entry and every status entry is backed by at least one item.
func (o *Order) Validate() error {
	itemStations := make(map[string]bool, len(o.StationStatuses))
	for _, item := range o.Items {
		if item.StationID == "" {
			return fmt.Errorf("order %s: item %q has no station", o.OrderNumber, item.Name)
		}
		itemStations[item.StationID] = true
		if _, ok := o.StationStatuses[item.StationID]; !ok {
			return fmt.Errorf("order %s: station %q has items but no status entry", o.OrderNumber, item.StationID)
		}
	}
	for station := range o.StationStatuses {
		if !itemStations[station] {
			return fmt.Errorf("order %s: station %q has a status entry but no items", o.OrderNumber, station)
		}
	}
	return nil
}

// DisplayLabel returns the human-facing secondary label for a ticket.
func (o *Order) DisplayLabel() string {
	if o.OrderType == OrderDineIn && o.TableNumber != "" {
		return "T-" + o.TableNumber
	}
	if o.CustomerName != "" {
		return o.CustomerName
	}
	return string(o.OrderType)
}

// HasStation reports whether the order has any responsibility at station.
func (o *Order) HasStation(stationID string) bool {
	_, ok := o.StationStatuses[stationID]
	return ok
}

// ItemByID locates an item by id. Returns nil when absent.
func (o *Order) ItemByID(itemID string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	dup := *o
	dup.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		dup.Items[i] = item
		dup.Items[i].Customizations = append([]string(nil), item.Customizations...)
	}
	dup.StationStatuses = make(map[string]StationStatus, len(o.StationStatuses))
	for k, v := range o.StationStatuses {
		dup.StationStatuses[k] = v
	}
	return &dup
}
