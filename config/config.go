package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		App      App
		CORS     CORS
		Cache    Cache
		HTTP     HTTP
		Log      Log
		Mongo    Mongo
		Redis    Redis
		RabbitMQ RabbitMQ
		Consul   Consul
		Schedule Schedule
		VNPay    VNPay
	}

	App struct {
		Name     string `env:"APP_NAME,required"`
		Version  string `env:"APP_VERSION,required"`
		Timezone string `env:"APP_TIMEZONE" envDefault:"Asia/Ho_Chi_Minh"`
	}

	CORS struct {
		AllowCredentials bool   `env:"APP_CORS_ALLOW_CREDENTIALS"`
		AllowedHeaders   string `env:"APP_CORS_ALLOWED_HEADERS"`
		AllowedMethods   string `env:"APP_CORS_ALLOWED_METHODS"`
		AllowedOrigins   string `env:"APP_CORS_ALLOWED_ORIGINS"`
		Enable           bool   `env:"APP_CORS_ENABLE"`
		MaxAgeSeconds    int    `env:"APP_CORS_MAX_AGE_SECONDS"`
	}

	Cache struct {
		Duration int `env:"CACHE_DURATIONS,required"`
	}

	HTTP struct {
		Port string `env:"HTTP_PORT,required"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required" envDefault:"info"`
	}

	Mongo struct {
		URI      string `env:"MONGO_URI,required"`
		Database string `env:"MONGO_DATABASE,required"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST,required"`
		Port     int    `env:"REDIS_PORT,required"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB"`
	}

	RabbitMQ struct {
		URL string `env:"RABBITMQ_URL,required"`
	}

	Consul struct {
		Enable         bool   `env:"CONSUL_ENABLE"`
		Address        string `env:"CONSUL_ADDRESS" envDefault:"localhost:8500"`
		ServiceAddress string `env:"CONSUL_SERVICE_ADDRESS" envDefault:"localhost"`
	}

	Schedule struct {
		// PaymentsReconcile is the cron spec (with seconds) for the
		// stale pending payment reconciliation job.
		PaymentsReconcile string `env:"SCHEDULE_PAYMENTS_RECONCILE,required"`
	}

	VNPay struct {
		TmnCode    string `env:"VNP_TMN_CODE,required"`
		HashSecret string `env:"VNP_HASH_SECRET,required"`
		PayURL     string `env:"VNP_URL,required"`
		APIURL     string `env:"VNP_API_URL,required"`
		ReturnURL  string `env:"VNP_RETURN_URL,required"`
		// ResultURL is the frontend page the return handler redirects
		// the customer to after callback processing.
		ResultURL string `env:"PAYMENT_RESULT_URL,required"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config failed: %w", err)
	}

	return cfg, nil
}
