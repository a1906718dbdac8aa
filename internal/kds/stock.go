package kds

import (
	"sort"
	"time"

	"expediter/internal/models"
)

// stockLedger is the 86 board: a map from menu item id to its stock entry.
// Items at "available" are not stored, so absence means available.
type stockLedger struct {
	entries map[string]models.StockStatus
}

func newStockLedger() *stockLedger {
	return &stockLedger{entries: make(map[string]models.StockStatus)}
}

func (l *stockLedger) level(itemID string) models.StockLevel {
	if entry, ok := l.entries[itemID]; ok {
		return entry.Status
	}
	return models.StockAvailable
}

// set upserts an entry, deleting it when the item is restored to available.
// The returned flag reports a status change relative to the prior stored
// level; a count-only update to an already-low item is not a change.
func (l *stockLedger) set(itemID, itemName string, level models.StockLevel, count int, updatedBy string, now time.Time) bool {
	prior := l.level(itemID)

	if level == models.StockAvailable {
		delete(l.entries, itemID)
		return prior != models.StockAvailable
	}

	entry := models.StockStatus{
		ItemID:    itemID,
		ItemName:  itemName,
		Status:    level,
		UpdatedAt: now,
		UpdatedBy: updatedBy,
	}
	if level == models.StockLow {
		entry.LowCount = count
	}
	l.entries[itemID] = entry
	return prior != level
}

// list returns all non-available entries sorted by item name.
func (l *stockLedger) list() []models.StockStatus {
	out := make([]models.StockStatus, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}

// unavailable counts entries that are low or out.
func (l *stockLedger) unavailable() int {
	return len(l.entries)
}
