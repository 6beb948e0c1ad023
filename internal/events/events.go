// Package events defines the message-broker contract shared with the other
// rental services: exchange names, routing keys and event payloads.
package events

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=events.go -destination=mock/publisher.go -package=mock github.com/trongdh/rentora/internal/events Publisher

const (
	ExchangePayment      = "payment.events"
	ExchangeNotification = "notification.events"
)

const (
	RoutingKeyPaymentCreated   = "payment.created"
	RoutingKeyPaymentCompleted = "payment.completed"
	RoutingKeyPaymentFailed    = "payment.failed"
	RoutingKeyPaymentRefunded  = "payment.refunded"

	RoutingKeyInvoiceCreated = "invoice.created"
	RoutingKeyInvoicePaid    = "invoice.paid"
)

// QueueInvoiceCreated is the queue this service consumes invoice creation
// events from. The invoicing service owns the invoice lifecycle; we keep a
// local copy so callbacks can settle them.
const QueueInvoiceCreated = "rentora-backend.invoice.created"

// Publisher publishes a JSON event to a topic exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload any) error
}

// PaymentEvent is emitted on every payment state change.
type PaymentEvent struct {
	PaymentID     string    `json:"payment_id"`
	InvoiceID     string    `json:"invoice_id"`
	OrderRef      string    `json:"order_ref"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	TransactionNo string    `json:"transaction_no,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// InvoiceEvent mirrors the invoicing service's invoice.created payload.
type InvoiceEvent struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
}
