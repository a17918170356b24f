package kafka

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeOrderConfirmed  = "order.confirmed"
	EventTypeOrderShipped    = "order.shipped"
	EventTypeOrderDelivered  = "order.delivered"
	EventTypeRefundRequested = "refund.requested"
	EventTypeRefundProcessed = "refund.processed"
	EventTypeStockAlert      = "stock.alert"
	EventTypeAuditRecorded   = "audit.recorded"
)

// Kafka topics
const (
	TopicOrderEvents  = "order-events"
	TopicRefundEvents = "refund-events"
	TopicStockAlerts  = "stock-alerts"
	TopicAuditEvents  = "audit-events"
)

// OrderEvent notifies collaborators of an order lifecycle transition.
// Emitted exactly once per qualifying transition.
type OrderEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uint      `json:"customer_id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// RefundEvent notifies collaborators of refund workflow progress.
type RefundEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	RefundID  uint      `json:"refund_id"`
	OrderID   uint      `json:"order_id"`
	PaymentID uint      `json:"payment_id"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Stock alert kinds
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
	AlertOverstock  = "overstock"
	AlertReorder    = "reorder"
)

// StockAlertEvent is raised when a ledger mutation crosses a threshold.
type StockAlertEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	ProductID       uint      `json:"product_id"`
	AlertType       string    `json:"alert_type"`
	CurrentQuantity int       `json:"current_quantity"`
	Threshold       int       `json:"threshold"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// AuditEvent mirrors an audit record onto the bus for downstream sinks.
type AuditEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Actor         string          `json:"actor"`
	Action        string          `json:"action"`
	ObjectType    string          `json:"object_type"`
	ObjectID      string          `json:"object_id"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	RequestOrigin string          `json:"request_origin,omitempty"`
	Success       bool            `json:"success"`
	Timestamp     time.Time       `json:"timestamp"`
}
