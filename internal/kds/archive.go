package kds

import "expediter/internal/models"

// archive is the bounded completed-order store. Oldest entries are evicted
// first once capacity is reached.
type archive struct {
	capacity int
	entries  []*models.CompletedOrder // oldest first
}

func newArchive(capacity int) *archive {
	return &archive{capacity: capacity}
}

func (a *archive) add(entry *models.CompletedOrder) {
	a.entries = append(a.entries, entry)
	if len(a.entries) > a.capacity {
		a.entries = a.entries[len(a.entries)-a.capacity:]
	}
}

// remove takes the entry whose snapshotted order id matches, returning nil
// when absent.
func (a *archive) remove(orderID string) *models.CompletedOrder {
	for i, entry := range a.entries {
		if entry.Order.ID == orderID {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			return entry
		}
	}
	return nil
}

// list returns the archive newest first, the order the recall panel shows.
func (a *archive) list() []*models.CompletedOrder {
	out := make([]*models.CompletedOrder, 0, len(a.entries))
	for i := len(a.entries) - 1; i >= 0; i-- {
		out = append(out, a.entries[i])
	}
	return out
}

func (a *archive) size() int {
	return len(a.entries)
}
