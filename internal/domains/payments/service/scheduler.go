package service

import (
	"context"

	"github.com/trongdh/rentora/pkg/logger"
)

// SchedulerService reconciles payments the return callback never reached,
// typically because the customer closed the browser mid-flow.
type SchedulerService struct {
	payments PaymentService
	logger   logger.Interface
}

func NewSchedulerService(payments PaymentService, l logger.Interface) *SchedulerService {
	return &SchedulerService{
		payments: payments,
		logger:   l,
	}
}

func (s *SchedulerService) ReconcilePendingPayments(ctx context.Context) error {
	checked, settled, err := s.payments.ReconcilePending(ctx)
	if err != nil {
		return err
	}

	if checked > 0 {
		s.logger.Info(identifier, " - ReconcilePendingPayments - checked %d stale payments, settled %d",
			checked, settled)
	}

	return nil
}
