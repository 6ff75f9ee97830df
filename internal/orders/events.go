package orders

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderUpdated"
	EventOrderDeleted = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "coffee-orders-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ItemID int64 `json:"item_id"`
	Qty    int   `json:"qty"`
}

// Payload untuk OrderCreated & OrderUpdated: item yang stoknya baru didebit.
type OrderChangedPayload struct {
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Items        []ItemQty `json:"items"`
}

type OrderDeletedPayload struct {
	OrderID int64 `json:"order_id"`
}

// Partition key = order_id supaya event satu order tetap urut.
func PartitionKey(orderID int64) []byte {
	return []byte(strconv.FormatInt(orderID, 10))
}
