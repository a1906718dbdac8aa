package models

// BatchSuggestion is a derived batching hint: the same item appearing across
// enough distinct pending orders at one station to be worth preparing
// together. Never persisted; recomputed on every read.
type BatchSuggestion struct {
	ItemName      string   `json:"itemName"`
	Variant       string   `json:"variant,omitempty"`
	TotalQuantity int      `json:"totalQuantity"`
	OrderCount    int      `json:"orderCount"`
	OrderIDs      []string `json:"orderIds"`
	OrderNumbers  []string `json:"orderNumbers"`
}

// BatchKey identifies a suggestion for dismissal purposes.
type BatchKey struct {
	ItemName string `json:"itemName"`
	Variant  string `json:"variant,omitempty"`
}
