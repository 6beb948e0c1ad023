package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/trongdh/rentora/internal/delivery/http/response"
	"github.com/trongdh/rentora/internal/domains/payments/dto"
	"github.com/trongdh/rentora/internal/domains/payments/service"
	"github.com/trongdh/rentora/pkg/constant"
	"github.com/trongdh/rentora/pkg/failure"
	"github.com/trongdh/rentora/pkg/logger"
)

type Handler struct {
	service   service.PaymentService
	logger    logger.Interface
	validator *validator.Validate
}

func New(s service.PaymentService, l logger.Interface, v *validator.Validate) *Handler {
	return &Handler{
		service:   s,
		logger:    l,
		validator: v,
	}
}

const (
	identifier = "http - payments - %s"

	routepath = "/payments"
)

func (h *Handler) RegisterRoutes(r fiber.Router) {
	payments := r.Group(routepath)

	payments.Post("/", h.Create)
	payments.Get("/return", h.Return)
	payments.Get("/:"+constant.RequestParamOrderID+"/status", h.GetStatus)
	payments.Post("/:"+constant.RequestParamPaymentID+"/refund", h.Refund)
}

// Create starts a payment and responds with the gateway redirect URL the
// frontend sends the customer to.
func (h *Handler) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePaymentRequest

	if err := ctx.BodyParser(&req); err != nil {
		h.logger.Error(identifier, " - Create - body parser error: %v", err)

		return response.WithError(ctx, failure.BadRequestFromString("invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		validationErr := err.Error()
		transformErr := failure.BadRequestFromString(validationErr)

		h.logger.Error(identifier, " - Create - validation error: %v", transformErr)

		return response.WithError(ctx, transformErr)
	}

	res, err := h.service.Create(ctx.Context(), req, ctx.IP())
	if err != nil {
		h.logger.Error(identifier, " - Create - service error: %v", err)

		return response.WithError(ctx, err)
	}

	return response.WithJSON(ctx, fiber.StatusCreated, res)
}

// Return receives the gateway's browser redirect after the customer finishes
// (or abandons) the hosted payment page, settles the payment and forwards
// the customer to the frontend result page.
func (h *Handler) Return(ctx *fiber.Ctx) error {
	result := h.service.HandleReturn(ctx.Context(), ctx.Queries())

	return ctx.Redirect(result.RedirectURL, fiber.StatusFound)
}

func (h *Handler) GetStatus(ctx *fiber.Ctx) error {
	orderRef := ctx.Params(constant.RequestParamOrderID)
	if orderRef == "" {
		return response.WithError(ctx, failure.BadRequestFromString("order id is required"))
	}

	res, err := h.service.GetStatus(ctx.Context(), orderRef)
	if err != nil {
		h.logger.Error(identifier, " - GetStatus - service error: %v", err)

		return response.WithError(ctx, err)
	}

	return response.WithJSON(ctx, fiber.StatusOK, res)
}

func (h *Handler) Refund(ctx *fiber.Ctx) error {
	paymentID := ctx.Params(constant.RequestParamPaymentID)
	if paymentID == "" {
		return response.WithError(ctx, failure.BadRequestFromString("payment id is required"))
	}

	var req dto.RefundPaymentRequest

	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			h.logger.Error(identifier, " - Refund - body parser error: %v", err)

			return response.WithError(ctx, failure.BadRequestFromString("invalid request body"))
		}
	}

	if err := h.validator.Struct(req); err != nil {
		validationErr := err.Error()
		transformErr := failure.BadRequestFromString(validationErr)

		h.logger.Error(identifier, " - Refund - validation error: %v", transformErr)

		return response.WithError(ctx, transformErr)
	}

	res, err := h.service.Refund(ctx.Context(), paymentID, req)
	if err != nil {
		h.logger.Error(identifier, " - Refund - service error: %v", err)

		return response.WithError(ctx, err)
	}

	return response.WithJSON(ctx, fiber.StatusOK, res)
}
