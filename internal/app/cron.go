package app

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/trongdh/rentora/config"
	"github.com/trongdh/rentora/internal/domains/payments/service"
	"github.com/trongdh/rentora/pkg/logger"
)

func Cron(scheduler *service.SchedulerService, cfg *config.Config, l logger.Interface) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(cfg.Schedule.PaymentsReconcile, func() {
		ctx := context.WithoutCancel(context.Background())

		if err := scheduler.ReconcilePendingPayments(ctx); err != nil {
			l.Error("Cron job - ReconcilePendingPayments failed: %v", err)
		}
	})

	if err != nil {
		l.Error("Cron job - AddFunc failed: %v", err)

		return
	}

	c.Start()
}
