package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/internal/delivery/http/middleware"
	paymentHandler "github.com/trongdh/rentora/internal/domains/payments/handler"
	"github.com/trongdh/rentora/pkg/logger"
)

type Handlers struct {
	Payment *paymentHandler.Handler
}

// NewRouter initializes the HTTP router and registers the routes for the application.
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	l logger.Interface,
	handlers Handlers,
) {
	// Options
	app.Use(middleware.Logger(l))
	app.Use(middleware.Recovery(l))
	app.Use(middleware.RequestID())
	app.Use(middleware.CORS(cfg))

	// Health endpoint consumed by the service registry.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})

	apiV1Group := app.Group("/v1")
	{
		handlers.Payment.RegisterRoutes(apiV1Group)
	}

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "route not found",
		})
	})
}
