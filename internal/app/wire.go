//go:build wireinject
// +build wireinject

package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/internal/delivery/http"
	"github.com/trongdh/rentora/internal/events"

	paymentHandler "github.com/trongdh/rentora/internal/domains/payments/handler"
	paymentRepository "github.com/trongdh/rentora/internal/domains/payments/repository"
	paymentService "github.com/trongdh/rentora/internal/domains/payments/service"

	"github.com/trongdh/rentora/pkg/helper"
	"github.com/trongdh/rentora/pkg/httpserver"
	"github.com/trongdh/rentora/pkg/logger"
	"github.com/trongdh/rentora/pkg/mongodb"
	"github.com/trongdh/rentora/pkg/rabbitmq"
	"github.com/trongdh/rentora/pkg/redis"
	"github.com/trongdh/rentora/pkg/vnpay"
)

// Application represents the dependency-injected app
type Application struct {
	HTTPServer *httpserver.Server
	Logger     logger.Interface
	Mongo      *mongodb.Mongo
	Redis      *redis.Redis
	RabbitMQ   *rabbitmq.Client
	Queries    *paymentRepository.Queries
	Payments   paymentService.PaymentService
	Scheduler  *paymentService.SchedulerService
}

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
	paymentService.NewSchedulerService,
	paymentHandler.New,
	wire.Bind(new(paymentRepository.Querier), new(*paymentRepository.Queries)),
)

func InitializeApp(cfg *config.Config) (*Application, error) {
	wire.Build(
		// Infrastructure providers
		provideLogger,
		provideMongo,
		provideDatabase,
		provideRedis,
		provideRedisCache,
		provideRabbitMQ,
		providePublisher,
		provideVNPay,
		provideValidator,

		paymentDomain,

		wire.Struct(new(http.Handlers), "*"),

		// HTTP server
		provideRouter,
		provideHTTPServer,

		// Application
		wire.Struct(new(Application), "*"),
	)

	return &Application{}, nil
}

func provideRouter(
	cfg *config.Config,
	l logger.Interface,
	h http.Handlers,
) *fiber.App {
	app := fiber.New()

	http.NewRouter(
		app,
		cfg,
		l,
		h,
	)

	return app
}

func provideLogger(cfg *config.Config) logger.Interface {
	return logger.New(cfg.Log.Level)
}

func provideMongo(cfg *config.Config) (*mongodb.Mongo, error) {
	return mongodb.New(cfg.Mongo.URI, cfg.Mongo.Database)
}

func provideDatabase(m *mongodb.Mongo) *mongo.Database {
	return m.Database
}

func provideRedis(cfg *config.Config) (*redis.Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	return redis.New(addr, cfg.Redis.Password, cfg.Redis.DB)
}

func provideRedisCache(r *redis.Redis, l logger.Interface) redis.IRedisCache {
	return redis.NewRedisCache(r.Client, l)
}

func provideRabbitMQ(cfg *config.Config, l logger.Interface) (*rabbitmq.Client, error) {
	return rabbitmq.New(cfg.RabbitMQ.URL, l)
}

func providePublisher(c *rabbitmq.Client) events.Publisher {
	return c
}

func provideVNPay(cfg *config.Config) (*vnpay.Client, error) {
	return vnpay.New(vnpay.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PayURL:     cfg.VNPay.PayURL,
		APIURL:     cfg.VNPay.APIURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	}, vnpay.Location(helper.Location()))
}

func provideValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func provideHTTPServer(cfg *config.Config, app *fiber.App) *httpserver.Server {
	return httpserver.New(
		httpserver.Port(cfg.HTTP.Port),
		httpserver.App(app),
	)
}
