package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/asaas"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IReconcilerService owns every subscription status transition. All
// writers (webhooks, sweeps, user actions) go through it so the state
// machine lives in one place.
type IReconcilerService interface {
	FindForUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)
	FindByExternalId(ctx context.Context, asaasSubscriptionId string) (*entity.Subscription, error)
	ActivateFromPayment(ctx context.Context, sub *entity.Subscription, payment asaas.Payment) error
	CancelByUser(ctx context.Context, userId uuid.UUID) error
	Expire(ctx context.Context, sub *entity.Subscription) error
	MarkCancelledByGateway(ctx context.Context, sub *entity.Subscription) error
	RefreshDueDate(ctx context.Context, sub *entity.Subscription, nextDueDate time.Time) error
}

type reconcilerService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    asaas.Gateway
	pubSub     *gochannel.GoChannel
	topicName  string
	logger     logger.ILogger
}

func NewReconcilerService(
	uowFactory unitofwork.RepositoryFactory,
	gateway asaas.Gateway,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IReconcilerService {
	return &reconcilerService{
		uowFactory: uowFactory,
		gateway:    gateway,
		pubSub:     pubSub,
		topicName:  topicName,
		logger:     log,
	}
}

// FindForUser resolves the authoritative subscription for a user. The
// profile's current_subscription_id pointer wins; when it is unset (or
// dangling) the most recently created subscription is used.
func (s *reconcilerService) FindForUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByUserId{UserID: userId})
	if err != nil {
		return nil, err
	}

	if profile != nil && profile.CurrentSubscriptionId != nil {
		sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: *profile.CurrentSubscriptionId})
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return sub, nil
		}
	}

	return uow.SubscriptionRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (s *reconcilerService) FindByExternalId(ctx context.Context, asaasSubscriptionId string) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SubscriptionRepository().FindOne(ctx,
		specification.ByAsaasSubscriptionId{AsaasSubscriptionId: asaasSubscriptionId})
}

// ActivateFromPayment applies a settled payment: the subscription goes
// active, the profile's plan columns are refreshed and the payment is
// recorded. Re-applying the same payment is a no-op.
func (s *reconcilerService) ActivateFromPayment(ctx context.Context, sub *entity.Subscription, payment asaas.Payment) error {
	if !asaas.IsSettled(payment.Status) {
		return fmt.Errorf("payment %s is not settled (status %s)", payment.Id, payment.Status)
	}
	if !sub.Status.Reconcilable() {
		s.logger.Warn("Reconciler", "Skipping activation for terminal subscription", map[string]interface{}{
			"subscription_id": sub.Id, "status": sub.Status,
		})
		return nil
	}

	oldStatus := sub.Status

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Webhook retries and the sweep replay payments we already recorded.
	// An active row plus a known payment id means nothing would change.
	if sub.Status == entity.SubscriptionStatusActive {
		if seen, err := uow.PaymentHistoryRepository().Exists(ctx, payment.Id); err == nil && seen {
			return nil
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub.Status = entity.SubscriptionStatusActive
	sub.PaymentMethod = payment.BillingType
	if !payment.DueDate.Time.IsZero() {
		sub.NextDueDate = payment.DueDate.Time
	}
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	purchasedAt := time.Now()
	if pd := payment.PaymentDate.Ptr(); pd != nil {
		purchasedAt = *pd
	}
	err := uow.ProfileRepository().UpdatePlanColumns(ctx, sub.UserId, map[string]interface{}{
		"status_plano":            string(entity.PlanStatusActive),
		"plan_type":               string(sub.PlanType),
		"plan_purchased_at":       purchasedAt,
		"current_subscription_id": sub.Id,
	})
	if err != nil {
		return err
	}

	event := &entity.PaymentEvent{
		Id:             uuid.New(),
		AsaasPaymentId: payment.Id,
		SubscriptionId: sub.Id,
		Amount:         payment.Value,
		Status:         payment.Status,
		BillingType:    payment.BillingType,
		PaymentDate:    payment.PaymentDate.Ptr(),
		DueDate:        payment.DueDate.Ptr(),
		CreatedAt:      time.Now(),
	}
	if _, err := uow.PaymentHistoryRepository().Upsert(ctx, event); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if oldStatus != entity.SubscriptionStatusActive {
		s.publishStatusChange(sub, oldStatus)
	}
	return nil
}

// CancelByUser cancels at the gateway first, then records the graceful
// cancel. Premium access survives until next_due_date; the profile is
// not touched here.
func (s *reconcilerService) CancelByUser(ctx context.Context, userId uuid.UUID) error {
	sub, err := s.FindForUser(ctx, userId)
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("no subscription found")
	}
	if sub.Status.InCancelFamily() || sub.Status == entity.SubscriptionStatusExpired {
		return errors.New("subscription is not active")
	}

	if err := s.gateway.CancelSubscription(ctx, sub.AsaasSubscriptionId); err != nil {
		return fmt.Errorf("gateway cancel failed: %w", err)
	}

	oldStatus := sub.Status
	sub.Status = entity.SubscriptionStatusCanceled
	sub.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		// Gateway already cancelled. The sweep will reconverge the row.
		s.logger.Error("Reconciler", "Cancel persisted at gateway but not locally", map[string]interface{}{
			"subscription_id": sub.Id, "error": err.Error(),
		})
		return err
	}

	s.publishStatusChange(sub, oldStatus)
	return nil
}

// Expire finalizes a subscription whose grace period ran out (or whose
// payment the gateway reported overdue/deleted). The profile loses
// premium access.
func (s *reconcilerService) Expire(ctx context.Context, sub *entity.Subscription) error {
	if sub.Status == entity.SubscriptionStatusExpired {
		return nil
	}

	oldStatus := sub.Status

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub.Status = entity.SubscriptionStatusExpired
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	err := uow.ProfileRepository().UpdatePlanColumns(ctx, sub.UserId, map[string]interface{}{
		"status_plano": string(entity.PlanStatusInactive),
	})
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishStatusChange(sub, oldStatus)
	return nil
}

// MarkCancelledByGateway records a terminal cancel reported by the
// gateway (subscription deleted or inactivated upstream).
func (s *reconcilerService) MarkCancelledByGateway(ctx context.Context, sub *entity.Subscription) error {
	if sub.Status == entity.SubscriptionStatusCancelled {
		return nil
	}

	oldStatus := sub.Status

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub.Status = entity.SubscriptionStatusCancelled
	sub.UpdatedAt = time.Now()
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	err := uow.ProfileRepository().UpdatePlanColumns(ctx, sub.UserId, map[string]interface{}{
		"status_plano": string(entity.PlanStatusInactive),
	})
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishStatusChange(sub, oldStatus)
	return nil
}

// RefreshDueDate updates next_due_date without touching status. Used
// for SUBSCRIPTION_CREATED/UPDATED webhook events.
func (s *reconcilerService) RefreshDueDate(ctx context.Context, sub *entity.Subscription, nextDueDate time.Time) error {
	sub.NextDueDate = nextDueDate
	sub.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SubscriptionRepository().Update(ctx, sub)
}

func (s *reconcilerService) publishStatusChange(sub *entity.Subscription, oldStatus entity.SubscriptionStatus) {
	if s.pubSub == nil {
		return
	}

	payload, err := json.Marshal(dto.SubscriptionStatusChangedMessage{
		UserId:         sub.UserId.String(),
		SubscriptionId: sub.Id.String(),
		OldStatus:      string(oldStatus),
		NewStatus:      string(sub.Status),
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("Reconciler", "Failed to publish status change", map[string]interface{}{
			"subscription_id": sub.Id, "error": err.Error(),
		})
	}
}
