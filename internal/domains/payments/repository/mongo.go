package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionPayments = "payments"
	collectionInvoices = "invoices"
)

// Queries implements Querier on top of MongoDB collections.
type Queries struct {
	payments *mongo.Collection
	invoices *mongo.Collection
}

var _ Querier = (*Queries)(nil)

func New(db *mongo.Database) *Queries {
	return &Queries{
		payments: db.Collection(collectionPayments),
		invoices: db.Collection(collectionInvoices),
	}
}

// EnsureIndexes creates the lookup indexes used by the payment flow.
func (q *Queries) EnsureIndexes(ctx context.Context) error {
	_, err := q.payments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_ref", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "invoice", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("repository: create payment indexes: %w", err)
	}

	_, err = q.invoices.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("repository: create invoice indexes: %w", err)
	}

	return nil
}

func (q *Queries) InsertPayment(ctx context.Context, payment Payment) (Payment, error) {
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	res, err := q.payments.InsertOne(ctx, payment)
	if err != nil {
		return Payment{}, fmt.Errorf("repository: insert payment: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}

	return payment, nil
}

func (q *Queries) GetPaymentByOrderRef(ctx context.Context, orderRef string) (Payment, error) {
	var payment Payment

	err := q.payments.FindOne(ctx, bson.M{"order_ref": orderRef}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, ErrNotFound
		}

		return Payment{}, fmt.Errorf("repository: get payment by order ref: %w", err)
	}

	return payment, nil
}

func (q *Queries) GetPaymentByID(ctx context.Context, id string) (Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Payment{}, ErrNotFound
	}

	var payment Payment

	err = q.payments.FindOne(ctx, bson.M{"_id": oid}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Payment{}, ErrNotFound
		}

		return Payment{}, fmt.Errorf("repository: get payment by id: %w", err)
	}

	return payment, nil
}

func (q *Queries) SettlePayment(ctx context.Context, params SettlePaymentParams) error {
	update := bson.M{"$set": bson.M{
		"status":         params.Status,
		"transaction_no": params.TransactionNo,
		"response_code":  params.ResponseCode,
		"bank_code":      params.BankCode,
		"card_type":      params.CardType,
		"pay_date":       params.PayDate,
		"updated_at":     time.Now(),
	}}

	res, err := q.payments.UpdateByID(ctx, params.PaymentID, update)
	if err != nil {
		return fmt.Errorf("repository: settle payment: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (q *Queries) MarkPaymentRefunded(ctx context.Context, params MarkRefundedParams) error {
	update := bson.M{"$set": bson.M{
		"refunded":        true,
		"refunded_amount": params.Amount,
		"transaction_no":  params.TransactionNo,
		"updated_at":      time.Now(),
	}}

	res, err := q.payments.UpdateByID(ctx, params.PaymentID, update)
	if err != nil {
		return fmt.Errorf("repository: mark payment refunded: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (q *Queries) ListStalePendingPayments(ctx context.Context, olderThan time.Time, limit int64) ([]Payment, error) {
	filter := bson.M{
		"status":     "pending",
		"created_at": bson.M{"$lt": olderThan},
	}

	cursor, err := q.payments.Find(ctx, filter, options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("repository: list stale pending payments: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Payment
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("repository: decode stale pending payments: %w", err)
	}

	return result, nil
}

func (q *Queries) GetInvoiceByID(ctx context.Context, id string) (Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Invoice{}, ErrNotFound
	}

	var invoice Invoice

	err = q.invoices.FindOne(ctx, bson.M{"_id": oid}).Decode(&invoice)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Invoice{}, ErrNotFound
		}

		return Invoice{}, fmt.Errorf("repository: get invoice by id: %w", err)
	}

	return invoice, nil
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := q.invoices.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("repository: update invoice status: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (q *Queries) MarkInvoicePaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error {
	res, err := q.invoices.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     "paid",
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("repository: mark invoice paid: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (q *Queries) UpsertInvoice(ctx context.Context, invoice Invoice) error {
	now := time.Now()
	invoice.UpdatedAt = now

	// Invoices keep the id assigned by the invoicing service so payment
	// requests can reference them directly.
	filter := bson.M{"invoice_number": invoice.InvoiceNumber}
	if !invoice.ID.IsZero() {
		filter = bson.M{"_id": invoice.ID}
	}

	update := bson.M{
		"$set": bson.M{
			"amount":      invoice.Amount,
			"description": invoice.Description,
			"status":      invoice.Status,
			"due_date":    invoice.DueDate,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"invoice_number": invoice.InvoiceNumber,
			"created_at":     now,
		},
	}

	_, err := q.invoices.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("repository: upsert invoice: %w", err)
	}

	return nil
}
