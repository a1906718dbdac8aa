package notify

import "time"

// Event types pushed over the websocket.
const (
	EventOrderArrived  = "order_arrived"
	EventOrderModified = "order_modified"
	EventStockChanged  = "stock_changed"
	EventToastShown    = "toast_shown"
	EventToastExpired  = "toast_expired"
	EventOrdersWoken   = "orders_woken"
)

// Toast kinds.
const (
	ToastNewOrder = "new_order"
	ToastModified = "order_modified"
	ToastStock    = "stock"
)

// Envelope wraps every websocket message with its type and timestamp.
type Envelope struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data,omitempty"`
}

// Toast is one transient on-screen notification. ExpiresAt is when the
// notifier will retire it unless dismissed or superseded first.
type Toast struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	Title     string      `json:"title"`
	Body      string      `json:"body,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Payload   interface{} `json:"payload,omitempty"`
}
