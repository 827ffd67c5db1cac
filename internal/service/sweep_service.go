package service

import (
	"context"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/asaas"
)

// ISweepService implements the two polling jobs. Both sweeps isolate
// per-row failures: one bad subscription never aborts the run.
type ISweepService interface {
	SyncPayments(ctx context.Context) (dto.SweepSummary, error)
	CheckExpired(ctx context.Context) (dto.SweepSummary, error)
}

type sweepService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    asaas.Gateway
	reconciler IReconcilerService
	logger     logger.ILogger
}

func NewSweepService(
	uowFactory unitofwork.RepositoryFactory,
	gateway asaas.Gateway,
	reconciler IReconcilerService,
	log logger.ILogger,
) ISweepService {
	return &sweepService{
		uowFactory: uowFactory,
		gateway:    gateway,
		reconciler: reconciler,
		logger:     log,
	}
}

// SyncPayments polls the gateway for every pending or active
// subscription and applies the newest settled payment. Covers webhooks
// that never arrived.
func (s *sweepService) SyncPayments(ctx context.Context) (dto.SweepSummary, error) {
	summary := dto.SweepSummary{}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx, specification.StatusIn{
		Statuses: []entity.SubscriptionStatus{
			entity.SubscriptionStatusPending,
			entity.SubscriptionStatusActive,
		},
	})
	if err != nil {
		return summary, err
	}
	summary.Total = len(subs)

	for _, sub := range subs {
		if sub.AsaasSubscriptionId == "" {
			continue
		}

		payments, err := s.gateway.FetchPayments(ctx, sub.AsaasSubscriptionId)
		if err != nil {
			summary.Errors++
			s.logger.Error("Sweep", "Failed to fetch payments", map[string]interface{}{
				"subscription_id": sub.Id, "error": err.Error(),
			})
			continue
		}

		settled := firstSettled(payments)
		if settled == nil {
			continue
		}

		if err := s.reconciler.ActivateFromPayment(ctx, sub, *settled); err != nil {
			summary.Errors++
			s.logger.Error("Sweep", "Failed to apply settled payment", map[string]interface{}{
				"subscription_id": sub.Id, "payment_id": settled.Id, "error": err.Error(),
			})
			continue
		}
		summary.Synced++
	}

	s.logger.Info("Sweep", "Payment sync finished", map[string]interface{}{
		"synced": summary.Synced, "errors": summary.Errors, "total": summary.Total,
	})
	return summary, nil
}

// CheckExpired sweeps both cancel spellings past their due date into
// expired.
func (s *sweepService) CheckExpired(ctx context.Context) (dto.SweepSummary, error) {
	summary := dto.SweepSummary{}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIn{
			Statuses: []entity.SubscriptionStatus{
				entity.SubscriptionStatusCanceled,
				entity.SubscriptionStatusCancelled,
			},
		},
		specification.DueBefore{Time: time.Now()},
	)
	if err != nil {
		return summary, err
	}
	summary.Total = len(subs)

	for _, sub := range subs {
		if err := s.reconciler.Expire(ctx, sub); err != nil {
			summary.Errors++
			s.logger.Error("Sweep", "Failed to expire subscription", map[string]interface{}{
				"subscription_id": sub.Id, "error": err.Error(),
			})
			continue
		}
		summary.Expired++
	}

	s.logger.Info("Sweep", "Expiration check finished", map[string]interface{}{
		"expired": summary.Expired, "errors": summary.Errors, "total": summary.Total,
	})
	return summary, nil
}

// firstSettled returns the newest settled payment, relying on Asaas
// returning payments newest first.
func firstSettled(payments []asaas.Payment) *asaas.Payment {
	for i := range payments {
		if asaas.IsSettled(payments[i].Status) {
			return &payments[i]
		}
	}
	return nil
}
