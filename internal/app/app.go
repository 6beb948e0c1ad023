package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/pkg/consul"
	"github.com/trongdh/rentora/pkg/helper"
)

//go:generate go run github.com/google/wire/cmd/wire

func Run(cfg *config.Config) {
	if err := helper.InitTimezone(cfg.App.Timezone); err != nil {
		panic(fmt.Sprintf("failed to initialize timezone: %v", err))
	}

	app, err := InitializeApp(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize application: %v", err))
	}

	defer app.Mongo.Close()
	defer app.Redis.Close()
	defer app.RabbitMQ.Close()

	if err := app.Mongo.Ping(context.Background()); err != nil {
		app.Logger.Fatal(fmt.Errorf("app - Run - mongo.Ping: %w", err))
	}

	if err := app.Redis.Ping(context.Background()); err != nil {
		app.Logger.Fatal(fmt.Errorf("app - Run - redis.Ping: %w", err))
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := app.Queries.EnsureIndexes(indexCtx); err != nil {
		cancel()
		app.Logger.Fatal(fmt.Errorf("app - Run - mongo.EnsureIndexes: %w", err))
	}
	cancel()

	if err := StartConsumers(app.RabbitMQ, app.Queries, app.Logger); err != nil {
		app.Logger.Fatal(fmt.Errorf("app - Run - StartConsumers: %w", err))
	}

	Cron(app.Scheduler, cfg, app.Logger)

	if cfg.Consul.Enable {
		deregister := registerService(cfg, app)
		defer deregister()
	}

	app.HTTPServer.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		app.Logger.Info("app - Run - signal: " + s.String())
	case err = <-app.HTTPServer.Notify():
		app.Logger.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	err = app.HTTPServer.Shutdown()
	if err != nil {
		app.Logger.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}

// registerService announces the instance to the service registry and returns
// the matching deregistration hook.
func registerService(cfg *config.Config, app *Application) func() {
	client, err := consul.New(cfg.Consul.Address)
	if err != nil {
		app.Logger.Error(fmt.Errorf("app - registerService - consul.New: %w", err))

		return func() {}
	}

	port, err := strconv.Atoi(cfg.HTTP.Port)
	if err != nil {
		app.Logger.Error(fmt.Errorf("app - registerService - invalid http port: %w", err))

		return func() {}
	}

	serviceID, err := client.Register(consul.Service{
		Name:            cfg.App.Name,
		Address:         cfg.Consul.ServiceAddress,
		Port:            port,
		HealthURL:       fmt.Sprintf("http://%s:%d/healthz", cfg.Consul.ServiceAddress, port),
		Interval:        "10s",
		DeregisterAfter: "1m",
	})
	if err != nil {
		app.Logger.Error(fmt.Errorf("app - registerService - consul.Register: %w", err))

		return func() {}
	}

	app.Logger.Info("app - registerService - registered as " + serviceID)

	return func() {
		if err := client.Deregister(serviceID); err != nil {
			app.Logger.Error(fmt.Errorf("app - registerService - consul.Deregister: %w", err))
		}
	}
}
