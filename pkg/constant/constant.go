package constant

import "time"

const (
	CacheParentKey = "rentora-backend"
)

const (
	RequestParamOrderID   = "orderId"
	RequestParamPaymentID = "paymentId"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"

	PaymentMethodVNPay = "vnpay"
)

const (
	InvoiceStatusPending    = "pending"
	InvoiceStatusProcessing = "processing"
	InvoiceStatusPaid       = "paid"
	InvoiceStatusRefunded   = "refunded"
	InvoiceStatusCancelled  = "cancelled"
)

const (
	PaymentLocaleVN = "vn"
	PaymentLocaleEN = "en"
)

const (
	FullDateFormat = time.RFC3339
	DateFormat     = "2006-01-02"
)

const (
	// PendingReconcileAge is how long a payment may sit pending before the
	// scheduler asks the provider for its real state.
	PendingReconcileAge = 15 * time.Minute

	// PendingReconcileBatch caps how many stale payments one scheduler run
	// reconciles.
	PendingReconcileBatch = 50
)
