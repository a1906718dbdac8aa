package models

import "time"

// CompletedOrder is the archival record created when a ticket is bumped with
// every station ready. It keeps a snapshot of the order content so a recall
// can reconstruct the ticket even after the active order is gone.
type CompletedOrder struct {
	Order       *Order    `json:"order"`
	BumpedAt    time.Time `json:"bumpedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewCompletedOrder snapshots an order at bump time.
func NewCompletedOrder(order *Order, now time.Time) *CompletedOrder {
	return &CompletedOrder{
		Order:       order.Clone(),
		BumpedAt:    now,
		CompletedAt: now,
	}
}

// Recall reconstructs an active order from the snapshot: every station is
// forced back to ready and the recall flags are stamped. The archive entry
// itself is untouched; the caller removes it.
func (c *CompletedOrder) Recall(now time.Time) *Order {
	order := c.Order.Clone()
	for station := range order.StationStatuses {
		order.StationStatuses[station] = StatusReady
	}
	order.IsRecalled = true
	order.RecalledAt = now
	return order
}
