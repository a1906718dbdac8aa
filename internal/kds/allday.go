package kds

import (
	"sort"

	"expediter/internal/models"
)

// AllDayItem is one aggregated line on the all-day view: total outstanding
// quantity of a menu item variant across the whole board.
type AllDayItem struct {
	Name          string `json:"name"`
	Variant       string `json:"variant,omitempty"`
	TotalQuantity int    `json:"totalQuantity"`
	OrderCount    int    `json:"orderCount"`
}

// AllDayCategory groups all-day lines under a menu category heading.
type AllDayCategory struct {
	Category string       `json:"category"`
	Items    []AllDayItem `json:"items"`
}

// AllDay aggregates outstanding quantities across every active order, grouped
// by menu category then item name. Items at a ready station are no longer
// outstanding; removed items and snoozed orders do not count. Items without a
// catalog entry land under "Other".
func (e *Engine) AllDay(stationID string) []AllDayCategory {
	e.mu.Lock()
	defer e.mu.Unlock()

	categories := make(map[string]string, len(e.cfg.Menu))
	for _, m := range e.cfg.Menu {
		categories[m.Name] = m.Category
	}

	type line struct {
		item   AllDayItem
		orders map[string]bool
	}
	byCategory := make(map[string]map[models.BatchKey]*line)

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
			if order.StationStatuses[item.StationID] == models.StatusReady {
				continue
			}
			category, ok := categories[item.Name]
			if !ok || category == "" {
				category = "Other"
			}
			lines, ok := byCategory[category]
			if !ok {
				lines = make(map[models.BatchKey]*line)
				byCategory[category] = lines
			}
			key := models.BatchKey{ItemName: item.Name, Variant: item.Variant}
			l, ok := lines[key]
			if !ok {
				l = &line{
					item:   AllDayItem{Name: item.Name, Variant: item.Variant},
					orders: make(map[string]bool),
				}
				lines[key] = l
			}
			l.item.TotalQuantity += item.Quantity
			l.orders[order.ID] = true
		}
	}

	out := make([]AllDayCategory, 0, len(byCategory))
	for category, lines := range byCategory {
		c := AllDayCategory{Category: category}
		for _, l := range lines {
			l.item.OrderCount = len(l.orders)
			c.Items = append(c.Items, l.item)
		}
		sort.SliceStable(c.Items, func(i, j int) bool {
			if c.Items[i].TotalQuantity != c.Items[j].TotalQuantity {
				return c.Items[i].TotalQuantity > c.Items[j].TotalQuantity
			}
			return c.Items[i].Name < c.Items[j].Name
		})
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
