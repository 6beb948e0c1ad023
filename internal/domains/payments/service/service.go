package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/internal/domains/payments/dto"
	"github.com/trongdh/rentora/internal/domains/payments/repository"
	"github.com/trongdh/rentora/internal/events"
	"github.com/trongdh/rentora/pkg/constant"
	"github.com/trongdh/rentora/pkg/failure"
	"github.com/trongdh/rentora/pkg/helper"
	"github.com/trongdh/rentora/pkg/logger"
	"github.com/trongdh/rentora/pkg/redis"
	"github.com/trongdh/rentora/pkg/vnpay"
)

type PaymentService interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest, clientIP string) (dto.CreatePaymentResponse, error)
	HandleReturn(ctx context.Context, query map[string]string) dto.PaymentReturnResult
	GetStatus(ctx context.Context, orderRef string) (dto.PaymentStatusResponse, error)
	Refund(ctx context.Context, paymentID string, req dto.RefundPaymentRequest) (dto.RefundPaymentResponse, error)
	ReconcilePending(ctx context.Context) (checked, settled int, err error)
}

type paymentService struct {
	repo      repository.Querier
	cache     redis.IRedisCache
	cfg       *config.Config
	logger    logger.Interface
	gateway   *vnpay.Client
	publisher events.Publisher
	validator *validator.Validate
}

func New(r repository.Querier, c redis.IRedisCache, cfg *config.Config, l logger.Interface, g *vnpay.Client, p events.Publisher) PaymentService {
	return &paymentService{
		repo:      r,
		cache:     c,
		cfg:       cfg,
		logger:    l,
		gateway:   g,
		publisher: p,
		validator: validator.New(),
	}
}

const (
	identifier = "service - payments - %s"

	statusCacheKey = "payments:status"
)

func (s *paymentService) Create(ctx context.Context, req dto.CreatePaymentRequest, clientIP string) (res dto.CreatePaymentResponse, err error) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Error(identifier, " - Create - validation error: %v", err)

		return res, failure.BadRequestFromString("validation error: " + err.Error())
	}

	var invoiceID primitive.ObjectID

	if req.InvoiceID != "" {
		invoiceID, err = primitive.ObjectIDFromHex(req.InvoiceID)
		if err != nil {
			return res, failure.BadRequestFromString("invalid invoice id: " + req.InvoiceID)
		}

		invoice, err := s.repo.GetInvoiceByID(ctx, req.InvoiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return res, failure.NotFound("invoice " + req.InvoiceID + " not found")
			}

			s.logger.Error(identifier, " - Create - failed to get invoice: %v", err)

			return res, failure.InternalError(err)
		}

		if invoice.Status == constant.InvoiceStatusPaid {
			return res, failure.BadRequestFromString("invoice " + req.InvoiceID + " is already paid")
		}

		if invoice.Amount != req.Amount {
			return res, failure.BadRequestFromString(
				fmt.Sprintf("amount %d does not match invoice amount %d", req.Amount, invoice.Amount))
		}
	}

	paymentURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		Amount:    req.Amount,
		OrderInfo: req.OrderDescription,
		Locale:    req.Language,
		BankCode:  req.BankCode,
		ClientIP:  clientIP,
	})
	if err != nil {
		s.logger.Error(identifier, " - Create - failed to build payment url: %v", err)

		return res, failure.InternalError(err)
	}

	now := helper.NowInAppTimezone()

	payment, err := s.repo.InsertPayment(ctx, repository.Payment{
		InvoiceID:   invoiceID,
		Amount:      req.Amount,
		Description: req.OrderDescription,
		Method:      constant.PaymentMethodVNPay,
		Status:      constant.PaymentStatusPending,
		OrderRef:    paymentURL.OrderID,
		ClientIP:    clientIP,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error(identifier, " - Create - failed to insert payment: %v", err)

		return res, failure.InternalError(err)
	}

	if !invoiceID.IsZero() {
		if err := s.repo.UpdateInvoiceStatus(ctx, invoiceID, constant.InvoiceStatusProcessing); err != nil {
			s.logger.Error(identifier, " - Create - failed to mark invoice processing: %v", err)
		}
	}

	s.publish(ctx, events.ExchangePayment, events.RoutingKeyPaymentCreated, events.PaymentEvent{
		PaymentID:  payment.ID.Hex(),
		InvoiceID:  req.InvoiceID,
		OrderRef:   payment.OrderRef,
		Amount:     payment.Amount,
		Status:     payment.Status,
		OccurredAt: now,
	})

	return dto.CreatePaymentResponse{
		PaymentID:  payment.ID.Hex(),
		OrderRef:   payment.OrderRef,
		Amount:     payment.Amount,
		Status:     payment.Status,
		PaymentURL: paymentURL.URL,
	}, nil
}

// HandleReturn processes the gateway return redirect. It never returns an
// error: whatever happens, the customer's browser has to land somewhere, so
// failures map to an error redirect instead.
func (s *paymentService) HandleReturn(ctx context.Context, query map[string]string) dto.PaymentReturnResult {
	result := s.gateway.VerifyReturn(query)

	if !result.ValidSignature {
		s.logger.Error(identifier, " - HandleReturn - invalid signature for order %s", result.OrderID)

		return s.redirect("invalid", "Invalid signature", result.OrderID, false)
	}

	payment, err := s.repo.GetPaymentByOrderRef(ctx, result.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(identifier, " - HandleReturn - unknown order %s", result.OrderID)

			return s.redirect("error", "Payment not found", result.OrderID, false)
		}

		s.logger.Error(identifier, " - HandleReturn - failed to get payment: %v", err)

		return s.redirect("error", "Internal error", result.OrderID, false)
	}

	// Callbacks can be replayed; a settled payment keeps its first outcome.
	if payment.Status != constant.PaymentStatusPending {
		return s.redirect(redirectStatus(payment.Status), vnpay.ResponseMessage(payment.ResponseCode),
			payment.OrderRef, payment.Status == constant.PaymentStatusCompleted)
	}

	status := constant.PaymentStatusFailed

	switch {
	case result.Successful:
		status = constant.PaymentStatusCompleted
	case result.ResponseCode == vnpay.ResponseCodeUserCancelled:
		status = constant.PaymentStatusCancelled
	}

	if err := s.settle(ctx, payment, repository.SettlePaymentParams{
		PaymentID:     payment.ID,
		Status:        status,
		TransactionNo: result.TransactionNo,
		ResponseCode:  result.ResponseCode,
		BankCode:      result.BankCode,
		CardType:      result.CardType,
		PayDate:       result.PayDate,
	}); err != nil {
		s.logger.Error(identifier, " - HandleReturn - failed to settle payment %s: %v", payment.ID.Hex(), err)

		return s.redirect("error", "Internal error", payment.OrderRef, false)
	}

	return s.redirect(redirectStatus(status), result.Message, payment.OrderRef,
		status == constant.PaymentStatusCompleted)
}

func (s *paymentService) GetStatus(ctx context.Context, orderRef string) (res dto.PaymentStatusResponse, err error) {
	cacheKey := helper.BuildCacheKey(statusCacheKey, orderRef)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	payment, err := s.repo.GetPaymentByOrderRef(ctx, orderRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return res, failure.NotFound("payment " + orderRef + " not found")
		}

		s.logger.Error(identifier, " - GetStatus - failed to get payment: %v", err)

		return res, failure.InternalError(err)
	}

	if payment.Status == constant.PaymentStatusPending {
		payment = s.reconcile(ctx, payment)
	}

	res = statusResponse(payment)

	if payment.Status != constant.PaymentStatusPending {
		go func() {
			err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.Duration)
			if err != nil {
				s.logger.Error(identifier, " - GetStatus - failed to save cache: %v", err)
			}
		}()
	}

	return res, nil
}

// reconcile asks the gateway for the real state of a pending payment and
// settles it when the gateway reports a terminal outcome. Query failures
// leave the payment pending.
func (s *paymentService) reconcile(ctx context.Context, payment repository.Payment) repository.Payment {
	st, err := s.gateway.QueryTransaction(ctx, payment.OrderRef, payment.Amount)
	if err != nil {
		s.logger.Error(identifier, " - reconcile - querydr failed for %s: %v", payment.OrderRef, err)

		return payment
	}

	if !st.Successful {
		s.logger.Info(identifier, " - reconcile - querydr for %s refused: %s", payment.OrderRef, st.Message)

		return payment
	}

	var status string

	switch st.TransactionStatus {
	case vnpay.ResponseCodeSuccess:
		status = constant.PaymentStatusCompleted
	case "01", "", vnpay.ResponseCodeUserCancelled:
		// Still in flight at the gateway, or the customer is still on
		// the pay page and may yet come back through the return URL.
		return payment
	default:
		status = constant.PaymentStatusFailed
	}

	if err := s.settle(ctx, payment, repository.SettlePaymentParams{
		PaymentID:     payment.ID,
		Status:        status,
		TransactionNo: st.TransactionNo,
		ResponseCode:  st.TransactionStatus,
		BankCode:      st.BankCode,
		CardType:      st.CardType,
		PayDate:       st.PayDate,
	}); err != nil {
		s.logger.Error(identifier, " - reconcile - failed to settle payment %s: %v", payment.ID.Hex(), err)

		return payment
	}

	payment.Status = status
	payment.TransactionNo = st.TransactionNo
	payment.ResponseCode = st.TransactionStatus
	payment.BankCode = st.BankCode
	payment.CardType = st.CardType
	payment.PayDate = st.PayDate

	return payment
}

func (s *paymentService) Refund(ctx context.Context, paymentID string, req dto.RefundPaymentRequest) (res dto.RefundPaymentResponse, err error) {
	if err := s.validator.Struct(req); err != nil {
		s.logger.Error(identifier, " - Refund - validation error: %v", err)

		return res, failure.BadRequestFromString("validation error: " + err.Error())
	}

	if _, err := primitive.ObjectIDFromHex(paymentID); err != nil {
		return res, failure.BadRequestFromString("invalid payment id: " + paymentID)
	}

	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return res, failure.NotFound("payment " + paymentID + " not found")
		}

		s.logger.Error(identifier, " - Refund - failed to get payment: %v", err)

		return res, failure.InternalError(err)
	}

	if payment.Method != constant.PaymentMethodVNPay {
		return res, failure.BadRequestFromString("payment " + paymentID + " was not made through vnpay")
	}

	if payment.Status != constant.PaymentStatusCompleted {
		return res, failure.BadRequestFromString("payment " + paymentID + " is not completed")
	}

	if payment.Refunded {
		return res, failure.BadRequestFromString("payment " + paymentID + " is already refunded")
	}

	amount := req.Amount
	if amount == 0 {
		amount = payment.Amount
	}

	if amount > payment.Amount {
		return res, failure.BadRequestFromString(
			fmt.Sprintf("refund amount %d exceeds paid amount %d", amount, payment.Amount))
	}

	refund, err := s.gateway.Refund(ctx, vnpay.RefundRequest{
		OrderID:        payment.OrderRef,
		Amount:         amount,
		OriginalAmount: payment.Amount,
		TransactionNo:  payment.TransactionNo,
		CreatedBy:      req.Actor,
	})
	if err != nil {
		s.logger.Error(identifier, " - Refund - gateway call failed: %v", err)

		var reqErr *vnpay.RequestError
		if errors.As(err, &reqErr) {
			return res, failure.BadGateway("payment gateway unreachable")
		}

		return res, failure.InternalError(err)
	}

	if !refund.Successful {
		s.logger.Error(identifier, " - Refund - refused by gateway: %s (%s)", refund.Message, refund.ResponseCode)

		return res, failure.BadRequestFromString("refund refused: " + refund.Message)
	}

	if err := s.repo.MarkPaymentRefunded(ctx, repository.MarkRefundedParams{
		PaymentID:     payment.ID,
		Amount:        amount,
		TransactionNo: refund.TransactionNo,
	}); err != nil {
		s.logger.Error(identifier, " - Refund - failed to mark payment refunded: %v", err)

		return res, failure.InternalError(err)
	}

	if !payment.InvoiceID.IsZero() {
		if err := s.repo.UpdateInvoiceStatus(ctx, payment.InvoiceID, constant.InvoiceStatusRefunded); err != nil {
			s.logger.Error(identifier, " - Refund - failed to mark invoice refunded: %v", err)
		}
	}

	s.invalidateStatus(ctx, payment.OrderRef)

	s.publish(ctx, events.ExchangePayment, events.RoutingKeyPaymentRefunded, events.PaymentEvent{
		PaymentID:     payment.ID.Hex(),
		InvoiceID:     invoiceHex(payment.InvoiceID),
		OrderRef:      payment.OrderRef,
		Amount:        amount,
		Status:        payment.Status,
		TransactionNo: refund.TransactionNo,
		OccurredAt:    helper.NowInAppTimezone(),
	})

	return dto.RefundPaymentResponse{
		PaymentID:     payment.ID.Hex(),
		OrderRef:      payment.OrderRef,
		Amount:        amount,
		Type:          refund.TransactionType,
		ResponseCode:  refund.ResponseCode,
		TransactionNo: refund.TransactionNo,
	}, nil
}

// ReconcilePending settles stale pending payments against the gateway's
// transaction query. Payments younger than the reconcile age are left alone;
// their return callback may still arrive.
func (s *paymentService) ReconcilePending(ctx context.Context) (checked, settled int, err error) {
	cutoff := helper.NowInAppTimezone().Add(-constant.PendingReconcileAge)

	stale, err := s.repo.ListStalePendingPayments(ctx, cutoff, constant.PendingReconcileBatch)
	if err != nil {
		s.logger.Error(identifier, " - ReconcilePending - failed to list stale payments: %v", err)

		return 0, 0, failure.InternalError(err)
	}

	for _, payment := range stale {
		reconciled := s.reconcile(ctx, payment)
		if reconciled.Status != payment.Status {
			settled++
		}
	}

	return len(stale), settled, nil
}

// settle writes a terminal outcome, propagates it to the invoice and emits
// the matching payment event.
func (s *paymentService) settle(ctx context.Context, payment repository.Payment, params repository.SettlePaymentParams) error {
	if err := s.repo.SettlePayment(ctx, params); err != nil {
		return err
	}

	if params.Status == constant.PaymentStatusCompleted && !payment.InvoiceID.IsZero() {
		paidAt := helper.NowInAppTimezone()

		if err := s.repo.MarkInvoicePaid(ctx, payment.InvoiceID, paidAt); err != nil {
			s.logger.Error(identifier, " - settle - failed to mark invoice paid: %v", err)
		} else {
			s.publish(ctx, events.ExchangeNotification, events.RoutingKeyInvoicePaid, events.InvoiceEvent{
				InvoiceID: payment.InvoiceID.Hex(),
				Amount:    payment.Amount,
				Status:    constant.InvoiceStatusPaid,
			})
		}
	}

	routingKey := events.RoutingKeyPaymentFailed
	if params.Status == constant.PaymentStatusCompleted {
		routingKey = events.RoutingKeyPaymentCompleted
	}

	s.publish(ctx, events.ExchangePayment, routingKey, events.PaymentEvent{
		PaymentID:     payment.ID.Hex(),
		InvoiceID:     invoiceHex(payment.InvoiceID),
		OrderRef:      payment.OrderRef,
		Amount:        payment.Amount,
		Status:        params.Status,
		TransactionNo: params.TransactionNo,
		OccurredAt:    helper.NowInAppTimezone(),
	})

	s.invalidateStatus(ctx, payment.OrderRef)

	return nil
}

// publish emits an event without letting a broker outage fail the payment
// flow; the write already happened, the event is best-effort.
func (s *paymentService) publish(ctx context.Context, exchange, routingKey string, payload any) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), exchange, routingKey, payload); err != nil {
		s.logger.Error(identifier, " - publish - failed to publish %s: %v", routingKey, err)
	}
}

func (s *paymentService) invalidateStatus(ctx context.Context, orderRef string) {
	cacheKey := helper.BuildCacheKey(statusCacheKey, orderRef)

	if err := s.cache.Delete(context.WithoutCancel(ctx), cacheKey); err != nil {
		s.logger.Error(identifier, " - invalidateStatus - failed to delete cache: %v", err)
	}
}

func (s *paymentService) redirect(status, message, orderRef string, successful bool) dto.PaymentReturnResult {
	return dto.PaymentReturnResult{
		RedirectURL: fmt.Sprintf("%s?status=%s&message=%s&orderId=%s",
			s.cfg.VNPay.ResultURL, status, url.QueryEscape(message), url.QueryEscape(orderRef)),
		Successful: successful,
	}
}

func redirectStatus(paymentStatus string) string {
	switch paymentStatus {
	case constant.PaymentStatusCompleted:
		return "success"
	case constant.PaymentStatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

func statusResponse(payment repository.Payment) dto.PaymentStatusResponse {
	return dto.PaymentStatusResponse{
		PaymentID:     payment.ID.Hex(),
		InvoiceID:     invoiceHex(payment.InvoiceID),
		OrderRef:      payment.OrderRef,
		Amount:        payment.Amount,
		Status:        payment.Status,
		Method:        payment.Method,
		ResponseCode:  payment.ResponseCode,
		Message:       paymentMessage(payment),
		BankCode:      payment.BankCode,
		CardType:      payment.CardType,
		TransactionNo: payment.TransactionNo,
		PayDate:       payment.PayDate,
		Refunded:      payment.Refunded,
		RefundedAmt:   payment.RefundedAmount,
	}
}

func paymentMessage(payment repository.Payment) string {
	if payment.ResponseCode == "" {
		return ""
	}

	return vnpay.ResponseMessage(payment.ResponseCode)
}

func invoiceHex(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}

	return id.Hex()
}
