package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mock/querier.go -package=mock github.com/trongdh/rentora/internal/domains/payments/repository Querier

// ErrNotFound is returned when a payment or invoice does not exist.
var ErrNotFound = errors.New("repository: not found")

// Payment is one payment attempt against an invoice. OrderRef is the
// provider-facing transaction reference and correlates the record with the
// gateway callback.
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceID      primitive.ObjectID `bson:"invoice"`
	Amount         int64              `bson:"amount"`
	Description    string             `bson:"description"`
	Method         string             `bson:"method"`
	Status         string             `bson:"status"`
	OrderRef       string             `bson:"order_ref"`
	TransactionNo  string             `bson:"transaction_no,omitempty"`
	ResponseCode   string             `bson:"response_code,omitempty"`
	BankCode       string             `bson:"bank_code,omitempty"`
	CardType       string             `bson:"card_type,omitempty"`
	PayDate        string             `bson:"pay_date,omitempty"`
	ClientIP       string             `bson:"client_ip,omitempty"`
	Refunded       bool               `bson:"refunded"`
	RefundedAmount int64              `bson:"refunded_amount"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// Invoice is the local copy of an invoicing-service invoice, kept so
// callbacks can settle it without a cross-service call.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceNumber string             `bson:"invoice_number"`
	Amount        int64              `bson:"amount"`
	Description   string             `bson:"description"`
	Status        string             `bson:"status"`
	DueDate       time.Time          `bson:"due_date"`
	PaidAt        *time.Time         `bson:"paid_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// SettlePaymentParams carries the provider outcome applied to a payment.
type SettlePaymentParams struct {
	PaymentID     primitive.ObjectID
	Status        string
	TransactionNo string
	ResponseCode  string
	BankCode      string
	CardType      string
	PayDate       string
}

// MarkRefundedParams records a completed refund on a payment.
type MarkRefundedParams struct {
	PaymentID     primitive.ObjectID
	Amount        int64
	TransactionNo string
}

type Querier interface {
	InsertPayment(ctx context.Context, payment Payment) (Payment, error)
	GetPaymentByOrderRef(ctx context.Context, orderRef string) (Payment, error)
	GetPaymentByID(ctx context.Context, id string) (Payment, error)
	SettlePayment(ctx context.Context, params SettlePaymentParams) error
	MarkPaymentRefunded(ctx context.Context, params MarkRefundedParams) error
	ListStalePendingPayments(ctx context.Context, olderThan time.Time, limit int64) ([]Payment, error)

	GetInvoiceByID(ctx context.Context, id string) (Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id primitive.ObjectID, status string) error
	MarkInvoicePaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error
	UpsertInvoice(ctx context.Context, invoice Invoice) error
}
