package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/internal/domains/payments/dto"
	"github.com/trongdh/rentora/internal/domains/payments/mock"
	"github.com/trongdh/rentora/internal/domains/payments/repository"
	eventsmock "github.com/trongdh/rentora/internal/events/mock"
	"github.com/trongdh/rentora/pkg/failure"
	log "github.com/trongdh/rentora/pkg/logger/mock"
	redis "github.com/trongdh/rentora/pkg/redis/mock"
	"github.com/trongdh/rentora/pkg/vnpay"
)

const testHashSecret = "RAOEXHYVSDDIIENYWSLDIIZTANRUAXNM"

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			Duration: 300,
		},
		VNPay: config.VNPay{
			TmnCode:    "2QXUI4B4",
			HashSecret: testHashSecret,
			PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			APIURL:     "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction",
			ReturnURL:  "http://localhost:3000/v1/payments/return",
			ResultURL:  "http://localhost:5173/payments/result",
		},
	}
}

func testGateway(t *testing.T, cfg *config.Config, apiURL string) *vnpay.Client {
	t.Helper()

	if apiURL == "" {
		apiURL = cfg.VNPay.APIURL
	}

	client, err := vnpay.New(vnpay.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PayURL:     cfg.VNPay.PayURL,
		APIURL:     apiURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})
	require.NoError(t, err)

	return client
}

// signedReturnQuery builds a gateway return exactly as the provider would
// send it, including the secure hash over the raw values.
func signedReturnQuery(orderRef, responseCode string) map[string]string {
	query := map[string]string{
		"vnp_TmnCode":       "2QXUI4B4",
		"vnp_TxnRef":        orderRef,
		"vnp_Amount":        "10000000",
		"vnp_ResponseCode":  responseCode,
		"vnp_BankCode":      "NCB",
		"vnp_BankTranNo":    "VNP14576169",
		"vnp_CardType":      "ATM",
		"vnp_PayDate":       "20250901103000",
		"vnp_TransactionNo": "14576169",
		"vnp_OrderInfo":     "Thanh toan hoa don",
	}

	query["vnp_SecureHash"] = vnpay.Sign(testHashSecret, query)

	return query
}

type serviceMocks struct {
	querier   *mock.MockQuerier
	cache     *redis.MockIRedisCache
	logger    *log.MockInterface
	publisher *eventsmock.MockPublisher
}

func newService(t *testing.T, ctrl *gomock.Controller, apiURL string) (PaymentService, serviceMocks) {
	t.Helper()

	cfg := testConfig()

	m := serviceMocks{
		querier:   mock.NewMockQuerier(ctrl),
		cache:     redis.NewMockIRedisCache(ctrl),
		logger:    log.NewMockInterface(ctrl),
		publisher: eventsmock.NewMockPublisher(ctrl),
	}

	m.logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	return New(m.querier, m.cache, cfg, m.logger, testGateway(t, cfg, apiURL), m.publisher), m
}

func TestPaymentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	clientIP := "203.113.1.7"

	service, m := newService(t, ctrl, "")

	t.Run("error: validation rejects zero amount", func(t *testing.T) {
		res, err := service.Create(ctx, dto.CreatePaymentRequest{
			OrderDescription: "Thanh toan hoa don",
		}, clientIP)

		assert.Error(t, err)
		assert.Equal(t, dto.CreatePaymentResponse{}, res)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: malformed invoice id", func(t *testing.T) {
		res, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
			InvoiceID:        "not-an-object-id-but-24ch",
		}, clientIP)

		assert.Error(t, err)
		assert.Equal(t, dto.CreatePaymentResponse{}, res)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: invoice not found", func(t *testing.T) {
		invoiceID := primitive.NewObjectID()

		m.querier.EXPECT().
			GetInvoiceByID(gomock.Any(), invoiceID.Hex()).
			Return(repository.Invoice{}, repository.ErrNotFound).
			Times(1)

		_, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
			InvoiceID:        invoiceID.Hex(),
		}, clientIP)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("error: invoice already paid", func(t *testing.T) {
		invoiceID := primitive.NewObjectID()

		m.querier.EXPECT().
			GetInvoiceByID(gomock.Any(), invoiceID.Hex()).
			Return(repository.Invoice{ID: invoiceID, Amount: 100000, Status: "paid"}, nil).
			Times(1)

		_, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
			InvoiceID:        invoiceID.Hex(),
		}, clientIP)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: amount does not match invoice", func(t *testing.T) {
		invoiceID := primitive.NewObjectID()

		m.querier.EXPECT().
			GetInvoiceByID(gomock.Any(), invoiceID.Hex()).
			Return(repository.Invoice{ID: invoiceID, Amount: 250000, Status: "pending"}, nil).
			Times(1)

		_, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
			InvoiceID:        invoiceID.Hex(),
		}, clientIP)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("success: without invoice", func(t *testing.T) {
		paymentID := primitive.NewObjectID()

		m.querier.EXPECT().
			InsertPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p repository.Payment) (repository.Payment, error) {
				assert.Equal(t, int64(100000), p.Amount)
				assert.Equal(t, "pending", p.Status)
				assert.Equal(t, "vnpay", p.Method)
				assert.Equal(t, clientIP, p.ClientIP)
				assert.NotEmpty(t, p.OrderRef)

				p.ID = paymentID

				return p, nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.created", gomock.Any()).
			Return(nil).
			Times(1)

		res, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
		}, clientIP)

		assert.NoError(t, err)
		assert.Equal(t, paymentID.Hex(), res.PaymentID)
		assert.Equal(t, "pending", res.Status)
		assert.NotEmpty(t, res.OrderRef)
		assert.Contains(t, res.PaymentURL, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?")
		assert.Contains(t, res.PaymentURL, "vnp_Amount=10000000")
		assert.Contains(t, res.PaymentURL, "vnp_SecureHash=")
	})

	t.Run("success: with invoice marks it processing", func(t *testing.T) {
		invoiceID := primitive.NewObjectID()

		m.querier.EXPECT().
			GetInvoiceByID(gomock.Any(), invoiceID.Hex()).
			Return(repository.Invoice{ID: invoiceID, Amount: 100000, Status: "pending"}, nil).
			Times(1)

		m.querier.EXPECT().
			InsertPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p repository.Payment) (repository.Payment, error) {
				assert.Equal(t, invoiceID, p.InvoiceID)

				p.ID = primitive.NewObjectID()

				return p, nil
			}).
			Times(1)

		m.querier.EXPECT().
			UpdateInvoiceStatus(gomock.Any(), invoiceID, "processing").
			Return(nil).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.created", gomock.Any()).
			Return(nil).
			Times(1)

		res, err := service.Create(ctx, dto.CreatePaymentRequest{
			Amount:           100000,
			OrderDescription: "Thanh toan hoa don",
			InvoiceID:        invoiceID.Hex(),
		}, clientIP)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.PaymentURL)
	})
}

func TestPaymentService_HandleReturn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	orderRef := "1756710000000a1b2c3d4"

	service, m := newService(t, ctrl, "")

	pendingPayment := repository.Payment{
		ID:       primitive.NewObjectID(),
		Amount:   100000,
		Method:   "vnpay",
		Status:   "pending",
		OrderRef: orderRef,
	}

	t.Run("invalid signature never touches the database", func(t *testing.T) {
		query := signedReturnQuery(orderRef, "00")
		query["vnp_Amount"] = "99900000"

		result := service.HandleReturn(ctx, query)

		assert.False(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=invalid")
	})

	t.Run("unknown order redirects with error", func(t *testing.T) {
		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(repository.Payment{}, repository.ErrNotFound).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "00"))

		assert.False(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=error")
	})

	t.Run("successful payment settles as completed", func(t *testing.T) {
		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(pendingPayment, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.SettlePaymentParams) error {
				assert.Equal(t, pendingPayment.ID, params.PaymentID)
				assert.Equal(t, "completed", params.Status)
				assert.Equal(t, "14576169", params.TransactionNo)
				assert.Equal(t, "00", params.ResponseCode)
				assert.Equal(t, "NCB", params.BankCode)

				return nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.completed", gomock.Any()).
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "00"))

		assert.True(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=success")
		assert.Contains(t, result.RedirectURL, "orderId="+orderRef)
	})

	t.Run("customer cancellation settles as cancelled", func(t *testing.T) {
		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(pendingPayment, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.SettlePaymentParams) error {
				assert.Equal(t, "cancelled", params.Status)

				return nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.failed", gomock.Any()).
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "24"))

		assert.False(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=cancelled")
	})

	t.Run("declined payment settles as failed", func(t *testing.T) {
		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(pendingPayment, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.SettlePaymentParams) error {
				assert.Equal(t, "failed", params.Status)

				return nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.failed", gomock.Any()).
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "51"))

		assert.False(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=failed")
	})

	t.Run("replayed callback keeps the first outcome", func(t *testing.T) {
		settled := pendingPayment
		settled.Status = "completed"
		settled.ResponseCode = "00"

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(settled, nil).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "24"))

		assert.True(t, result.Successful)
		assert.Contains(t, result.RedirectURL, "status=success")
	})

	t.Run("completed payment with invoice marks it paid", func(t *testing.T) {
		withInvoice := pendingPayment
		withInvoice.InvoiceID = primitive.NewObjectID()

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(withInvoice, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		m.querier.EXPECT().
			MarkInvoicePaid(gomock.Any(), withInvoice.InvoiceID, gomock.Any()).
			Return(nil).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "notification.events", "invoice.paid", gomock.Any()).
			Return(nil).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.completed", gomock.Any()).
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		result := service.HandleReturn(ctx, signedReturnQuery(orderRef, "00"))

		assert.True(t, result.Successful)
	})
}

func TestPaymentService_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	orderRef := "1756710000000a1b2c3d4"
	mockError := errors.New("error")

	completedPayment := repository.Payment{
		ID:           primitive.NewObjectID(),
		Amount:       100000,
		Method:       "vnpay",
		Status:       "completed",
		OrderRef:     orderRef,
		ResponseCode: "00",
	}

	t.Run("success: from cache", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		cached := dto.PaymentStatusResponse{OrderRef: orderRef, Status: "completed"}

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			SetArg(2, cached).
			Return(nil).
			Times(1)

		res, err := service.GetStatus(ctx, orderRef)

		assert.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
	})

	t.Run("error: payment not found", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockError)

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(repository.Payment{}, repository.ErrNotFound).
			Times(1)

		_, err := service.GetStatus(ctx, orderRef)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("success: terminal status from database", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockError)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(completedPayment, nil).
			Times(1)

		res, err := service.GetStatus(ctx, orderRef)

		assert.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.Equal(t, completedPayment.ID.Hex(), res.PaymentID)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("success: pending payment reconciled against gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"vnp_ResponseCode":      "00",
				"vnp_TransactionStatus": "00",
				"vnp_TxnRef":            orderRef,
				"vnp_Amount":            "10000000",
				"vnp_BankCode":          "NCB",
				"vnp_TransactionNo":     "14576169",
				"vnp_PayDate":           "20250901103000",
			})
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		pending := completedPayment
		pending.Status = "pending"
		pending.ResponseCode = ""

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockError)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(pending, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.SettlePaymentParams) error {
				assert.Equal(t, "completed", params.Status)
				assert.Equal(t, "14576169", params.TransactionNo)

				return nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.completed", gomock.Any()).
			Return(nil).
			Times(1)

		res, err := service.GetStatus(ctx, orderRef)

		assert.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.Equal(t, "14576169", res.TransactionNo)
	})

	t.Run("success: pending stays pending when gateway refuses the query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"vnp_ResponseCode": "91",
			})
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		pending := completedPayment
		pending.Status = "pending"
		pending.ResponseCode = ""

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(mockError)

		m.querier.EXPECT().
			GetPaymentByOrderRef(gomock.Any(), orderRef).
			Return(pending, nil).
			Times(1)

		res, err := service.GetStatus(ctx, orderRef)

		assert.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
	})
}

func TestPaymentService_Refund(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	completedPayment := repository.Payment{
		ID:            primitive.NewObjectID(),
		InvoiceID:     primitive.NewObjectID(),
		Amount:        100000,
		Method:        "vnpay",
		Status:        "completed",
		OrderRef:      "1756710000000a1b2c3d4",
		TransactionNo: "14576169",
	}

	refundOK := func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"vnp_ResponseCode":  "00",
			"vnp_TxnRef":        "RF" + completedPayment.OrderRef,
			"vnp_Amount":        "10000000",
			"vnp_TransactionNo": "14576200",
		})
	}

	t.Run("error: invalid payment id", func(t *testing.T) {
		service, _ := newService(t, ctrl, "")

		_, err := service.Refund(ctx, "nope", dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: payment not found", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(repository.Payment{}, repository.ErrNotFound).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("error: payment not completed", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		pending := completedPayment
		pending.Status = "pending"

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(pending, nil).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: already refunded", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		refunded := completedPayment
		refunded.Refunded = true

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(refunded, nil).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: refund exceeds paid amount", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(completedPayment, nil).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{Amount: 200000})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("error: gateway unreachable maps to bad gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(completedPayment, nil).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})

	t.Run("error: gateway refuses the refund", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{
				"vnp_ResponseCode": "91",
			})
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(completedPayment, nil).
			Times(1)

		_, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("success: full refund", func(t *testing.T) {
		var form url.Values

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			form = r.PostForm

			refundOK(w, r)
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(completedPayment, nil).
			Times(1)

		m.querier.EXPECT().
			MarkPaymentRefunded(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.MarkRefundedParams) error {
				assert.Equal(t, completedPayment.ID, params.PaymentID)
				assert.Equal(t, int64(100000), params.Amount)
				assert.Equal(t, "14576200", params.TransactionNo)

				return nil
			}).
			Times(1)

		m.querier.EXPECT().
			UpdateInvoiceStatus(gomock.Any(), completedPayment.InvoiceID, "refunded").
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.refunded", gomock.Any()).
			Return(nil).
			Times(1)

		res, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{Actor: "admin@rentora.io"})

		assert.NoError(t, err)
		assert.Equal(t, int64(100000), res.Amount)
		assert.Equal(t, vnpay.RefundFull, res.Type)
		assert.Equal(t, "14576200", res.TransactionNo)

		assert.Equal(t, vnpay.RefundFull, form.Get("vnp_TransactionType"))
		assert.Equal(t, "admin@rentora.io", form.Get("vnp_CreateBy"))
	})

	t.Run("success: partial refund", func(t *testing.T) {
		var form url.Values

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			form = r.PostForm

			refundOK(w, r)
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		m.querier.EXPECT().
			GetPaymentByID(gomock.Any(), completedPayment.ID.Hex()).
			Return(completedPayment, nil).
			Times(1)

		m.querier.EXPECT().
			MarkPaymentRefunded(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		m.querier.EXPECT().
			UpdateInvoiceStatus(gomock.Any(), completedPayment.InvoiceID, "refunded").
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.refunded", gomock.Any()).
			Return(nil).
			Times(1)

		res, err := service.Refund(ctx, completedPayment.ID.Hex(), dto.RefundPaymentRequest{Amount: 40000})

		assert.NoError(t, err)
		assert.Equal(t, int64(40000), res.Amount)
		assert.Equal(t, vnpay.RefundPartial, res.Type)

		assert.Equal(t, vnpay.RefundPartial, form.Get("vnp_TransactionType"))
		assert.Equal(t, "4000000", form.Get("vnp_Amount"))
	})
}

func TestPaymentService_ReconcilePending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("error: listing stale payments fails", func(t *testing.T) {
		service, m := newService(t, ctrl, "")

		m.querier.EXPECT().
			ListStalePendingPayments(gomock.Any(), gomock.Any(), int64(50)).
			Return(nil, errors.New("error")).
			Times(1)

		_, _, err := service.ReconcilePending(ctx)

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("success: settles completed, leaves in-flight", func(t *testing.T) {
		stale := []repository.Payment{
			{ID: primitive.NewObjectID(), Amount: 100000, Method: "vnpay", Status: "pending", OrderRef: "ref-settled"},
			{ID: primitive.NewObjectID(), Amount: 200000, Method: "vnpay", Status: "pending", OrderRef: "ref-inflight"},
		}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()

			status := "01"
			if r.PostForm.Get("vnp_TxnRef") == "ref-settled" {
				status = "00"
			}

			_ = json.NewEncoder(w).Encode(map[string]string{
				"vnp_ResponseCode":      "00",
				"vnp_TransactionStatus": status,
				"vnp_TransactionNo":     "14576300",
			})
		}))
		defer srv.Close()

		service, m := newService(t, ctrl, srv.URL)

		m.querier.EXPECT().
			ListStalePendingPayments(gomock.Any(), gomock.Any(), int64(50)).
			Return(stale, nil).
			Times(1)

		m.querier.EXPECT().
			SettlePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params repository.SettlePaymentParams) error {
				assert.Equal(t, stale[0].ID, params.PaymentID)
				assert.Equal(t, "completed", params.Status)

				return nil
			}).
			Times(1)

		m.publisher.EXPECT().
			Publish(gomock.Any(), "payment.events", "payment.completed", gomock.Any()).
			Return(nil).
			Times(1)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		checked, settled, err := service.ReconcilePending(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, checked)
		assert.Equal(t, 1, settled)
	})
}
