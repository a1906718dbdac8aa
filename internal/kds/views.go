package kds

import (
	"time"

	"expediter/internal/models"
)

// OrderView is the read model for one ticket: the order snapshot plus every
// display fact derived at query time (overall status, urgency tier, priority
// number, staging pin, modified highlight). Station-scoped queries carry the
// viewing station's own status in StationStatus.
type OrderView struct {
	*models.Order

	Status           models.StationStatus `json:"status"`
	Urgency          Urgency              `json:"urgency"`
	Elapsed          time.Duration        `json:"elapsed"`
	Priority         int                  `json:"priority,omitempty"`
	Staged           bool                 `json:"staged,omitempty"`
	RecentlyModified bool                 `json:"recentlyModified,omitempty"`
	WaitingStations  []string             `json:"waitingStations,omitempty"`
	StationStatus    models.StationStatus `json:"stationStatus,omitempty"`
}

// Columns is the three-lane board plus the snoozed tray, already sorted and
// numbered for display. Station is empty for the expo (all stations) view.
type Columns struct {
	Station   string      `json:"station,omitempty"`
	Pending   []OrderView `json:"pending"`
	Preparing []OrderView `json:"preparing"`
	Ready     []OrderView `json:"ready"`
	Snoozed   []OrderView `json:"snoozed"`
}

// view builds the read model for one order. Caller holds e.mu.
func (e *Engine) view(order *models.Order, stationID string, now time.Time) OrderView {
	v := OrderView{
		Order:   order.Clone(),
		Status:  DeriveStatus(order.StationStatuses),
		Urgency: e.policy().level(order.CreatedAt, now),
		Elapsed: now.Sub(order.CreatedAt),
	}
	if order.IsModified && now.Sub(order.ModifiedAt) < e.cfg.ModifiedHighlight() {
		v.RecentlyModified = true
	}
	if stationID != "" {
		v.StationStatus = order.StationStatuses[stationID]
	}
	// The staging pin tracks the status the viewer buckets by: the station's
	// own status on a station board, the overall status on the expo board.
	ref := v.Status
	if stationID != "" {
		ref = v.StationStatus
	}
	if a, ok := e.arrivals[order.ID]; ok && now.Before(a.expiresAt) && a.status == ref {
		v.Staged = true
	}
	// A station that has finished wants to know who it is waiting on.
	if stationID != "" && order.StationStatuses[stationID] == models.StatusReady && v.Status != models.StatusReady {
		for st, s := range order.StationStatuses {
			if s != models.StatusReady {
				v.WaitingStations = append(v.WaitingStations, st)
			}
		}
	}
	return v
}

// ListOrders returns every active order visible to the station, unsorted.
// An empty station id means the expo view of the whole board.
func (e *Engine) ListOrders(stationID string) []OrderView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	out := make([]OrderView, 0, len(e.orders))
	for _, order := range e.orders {
		if stationID != "" && !order.HasStation(stationID) {
			continue
		}
		out = append(out, e.view(order, stationID, now))
	}
	return out
}

// Columns returns the sorted board for a station (or the expo view when the
// station id is empty). A station board buckets each ticket by that
// station's own status, so a ticket whose bar items are done sits in bar's
// READY column while kitchen still works it; the expo board buckets by the
// derived overall status. Snoozed orders sit in their own tray and never
// count toward a column; expired staging pins are dropped here.
func (e *Engine) Columns(stationID string) Columns {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.pruneArrivals(now)

	cols := Columns{
		Station:   stationID,
		Pending:   []OrderView{},
		Preparing: []OrderView{},
		Ready:     []OrderView{},
		Snoozed:   []OrderView{},
	}
	for _, order := range e.orders {
		if stationID != "" && !order.HasStation(stationID) {
			continue
		}
		v := e.view(order, stationID, now)
		if order.IsSnoozed {
			cols.Snoozed = append(cols.Snoozed, v)
			continue
		}
		bucket := v.Status
		if stationID != "" {
			bucket = v.StationStatus
		}
		switch bucket {
		case models.StatusPending:
			cols.Pending = append(cols.Pending, v)
		case models.StatusPreparing:
			cols.Preparing = append(cols.Preparing, v)
		case models.StatusReady:
			cols.Ready = append(cols.Ready, v)
		}
	}

	sortPending(cols.Pending)
	assignPriorities(cols.Pending)
	sortFIFO(cols.Preparing)
	sortReady(cols.Ready)
	sortFIFO(cols.Snoozed)
	return cols
}

// ListCompleted returns the archive newest first.
func (e *Engine) ListCompleted() []*models.CompletedOrder {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.archive.list()
	out := make([]*models.CompletedOrder, len(entries))
	for i, entry := range entries {
		dup := *entry
		dup.Order = entry.Order.Clone()
		out[i] = &dup
	}
	return out
}

// StockStatuses returns the 86 board sorted by item name. Items not listed
// are available.
func (e *Engine) StockStatuses() []models.StockStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.list()
}

// StockLevel reports the current level for one menu item.
func (e *Engine) StockLevel(itemID string) models.StockLevel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stock.level(itemID)
}

// pruneArrivals drops staging records past their window. Caller holds e.mu.
func (e *Engine) pruneArrivals(now time.Time) {
	for id, a := range e.arrivals {
		if !now.Before(a.expiresAt) {
			delete(e.arrivals, id)
		}
	}
}
