package kds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expediter/internal/models"
)

func TestStockLedger(t *testing.T) {
	ledger := newStockLedger()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	// Absence means available.
	assert.Equal(t, models.StockAvailable, ledger.level("burger"))
	assert.Zero(t, ledger.unavailable())

	// First 86 is a status change.
	assert.True(t, ledger.set("burger", "Burger", models.StockOut, 0, "chef", now))
	assert.Equal(t, models.StockOut, ledger.level("burger"))
	assert.Equal(t, 1, ledger.unavailable())

	// Same status again is not a change.
	assert.False(t, ledger.set("burger", "Burger", models.StockOut, 0, "chef", now))

	// Low keeps the count; count-only updates are not changes.
	assert.True(t, ledger.set("burger", "Burger", models.StockLow, 4, "chef", now))
	assert.False(t, ledger.set("burger", "Burger", models.StockLow, 2, "chef", now))

	entries := ledger.list()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].LowCount)

	// Restoring deletes the entry.
	assert.True(t, ledger.set("burger", "Burger", models.StockAvailable, 0, "chef", now))
	assert.Empty(t, ledger.list())
	assert.False(t, ledger.set("burger", "Burger", models.StockAvailable, 0, "chef", now))
}

func TestStockLedgerListSorted(t *testing.T) {
	ledger := newStockLedger()
	now := time.Now()

	ledger.set("wings", "Wings", models.StockOut, 0, "chef", now)
	ledger.set("burger", "Burger", models.StockLow, 3, "chef", now)

	entries := ledger.list()
	require.Len(t, entries, 2)
	assert.Equal(t, "Burger", entries[0].ItemName)
	assert.Equal(t, "Wings", entries[1].ItemName)
}

func TestArchiveBounds(t *testing.T) {
	a := newArchive(3)
	now := time.Now()

	mk := func(id string) *models.CompletedOrder {
		return &models.CompletedOrder{
			Order:    &models.Order{ID: id},
			BumpedAt: now,
		}
	}

	for _, id := range []string{"a", "b", "c", "d"} {
		a.add(mk(id))
	}

	assert.Equal(t, 3, a.size())
	assert.Nil(t, a.remove("a"))

	// Newest first.
	entries := a.list()
	require.Len(t, entries, 3)
	assert.Equal(t, "d", entries[0].Order.ID)
	assert.Equal(t, "b", entries[2].Order.ID)

	got := a.remove("c")
	require.NotNil(t, got)
	assert.Equal(t, 2, a.size())
	assert.Nil(t, a.remove("c"))
}
