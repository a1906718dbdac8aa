package models

import "time"

// StockLevel is the 86-board availability of a menu item.
type StockLevel string

const (
	StockAvailable StockLevel = "available"
	StockLow       StockLevel = "low"
	StockOut       StockLevel = "out"
)

// Valid reports whether l is a known stock level.
func (l StockLevel) Valid() bool {
	switch l {
	case StockAvailable, StockLow, StockOut:
		return true
	}
	return false
}

// StockStatus is one 86-ledger entry. Items at StockAvailable are never
// stored; absence from the ledger means available.
type StockStatus struct {
	ItemID    string     `json:"itemId"`
	ItemName  string     `json:"itemName"`
	Status    StockLevel `json:"status"`
	LowCount  int        `json:"lowCount,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
	UpdatedBy string     `json:"updatedBy"`
}
