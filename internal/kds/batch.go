package kds

import (
	"sort"

	"expediter/internal/models"
)

// BatchSuggestions groups identical (name, variant) pending items across the
// station's active orders and proposes cooking them together. A group
// qualifies once it spans the configured minimum number of distinct orders;
// at most MaxSuggestions groups are returned, largest total quantity first.
// Snoozed orders and dismissed groups are excluded.
func (e *Engine) BatchSuggestions(stationID string) []models.BatchSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	groups := make(map[models.BatchKey]*models.BatchSuggestion)
	for _, order := range e.orders {
		if order.IsSnoozed {
			continue
		}
		if stationID != "" && !order.HasStation(stationID) {
			continue
		}
		for _, item := range order.Items {
			if item.IsRemoved {
				continue
			}
			if stationID != "" && item.StationID != stationID {
				continue
			}
			// Only items a cook has not started yet can join a batch.
			if order.StationStatuses[item.StationID] != models.StatusPending {
				continue
			}
			key := models.BatchKey{ItemName: item.Name, Variant: item.Variant}
			if e.dismissed[key] {
				continue
			}
			g, ok := groups[key]
			if !ok {
				g = &models.BatchSuggestion{ItemName: item.Name, Variant: item.Variant}
				groups[key] = g
			}
			g.TotalQuantity += item.Quantity
			if !containsString(g.OrderIDs, order.ID) {
				g.OrderIDs = append(g.OrderIDs, order.ID)
				g.OrderNumbers = append(g.OrderNumbers, order.OrderNumber)
				g.OrderCount++
			}
		}
	}

	out := make([]models.BatchSuggestion, 0, len(groups))
	for _, g := range groups {
		if g.OrderCount >= e.cfg.Batching.MinOrders {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].ItemName < out[j].ItemName
	})
	if len(out) > e.cfg.Batching.MaxSuggestions {
		out = out[:e.cfg.Batching.MaxSuggestions]
	}
	return out
}

func containsString(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
