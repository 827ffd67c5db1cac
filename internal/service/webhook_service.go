package service

import (
	"context"
	"fmt"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/pkg/logger"
	"souartista-be/pkg/asaas"

	"github.com/patrickmn/go-cache"
)

// IWebhookService turns gateway webhook events into reconciler calls.
// Every error here is swallowed into the always-200 contract by the
// controller; the service itself reports errors only for logging.
type IWebhookService interface {
	HandleAsaasEvent(ctx context.Context, req *dto.AsaasWebhookRequest) error
	HandleAppleEvent(ctx context.Context, body []byte) error
}

type webhookService struct {
	reconciler IReconcilerService
	dedup      *cache.Cache
	logger     logger.ILogger
}

func NewWebhookService(reconciler IReconcilerService, log logger.ILogger) IWebhookService {
	return &webhookService{
		reconciler: reconciler,
		// Asaas retries webhooks aggressively. Best-effort suppression
		// of duplicates within a short window.
		dedup:  cache.New(10*time.Minute, 15*time.Minute),
		logger: log,
	}
}

func (s *webhookService) dedupKey(req *dto.AsaasWebhookRequest) string {
	id := ""
	if req.Payment != nil {
		id = req.Payment.Id
	} else if req.Subscription != nil {
		id = req.Subscription.Id
	}
	return req.Event + ":" + id
}

func (s *webhookService) HandleAsaasEvent(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	key := s.dedupKey(req)
	if _, seen := s.dedup.Get(key); seen {
		s.logger.Info("Webhook", "Duplicate event suppressed", map[string]interface{}{"key": key})
		return nil
	}
	s.dedup.Set(key, struct{}{}, cache.DefaultExpiration)

	s.logger.Info("Webhook", "Asaas event received", map[string]interface{}{"event": req.Event})

	switch req.Event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED":
		return s.handleSettledPayment(ctx, req)
	case "PAYMENT_OVERDUE", "PAYMENT_DELETED":
		return s.handleLostPayment(ctx, req)
	case "SUBSCRIPTION_DELETED", "SUBSCRIPTION_INACTIVATED":
		return s.handleGatewayCancel(ctx, req)
	case "SUBSCRIPTION_CREATED", "SUBSCRIPTION_UPDATED":
		return s.handleSubscriptionRefresh(ctx, req)
	default:
		s.logger.Info("Webhook", "Unrecognized event ignored", map[string]interface{}{"event": req.Event})
		return nil
	}
}

func (s *webhookService) handleSettledPayment(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	if req.Payment == nil || req.Payment.Subscription == "" {
		s.logger.Warn("Webhook", "Payment event without payment payload", map[string]interface{}{"event": req.Event})
		return nil
	}

	sub, err := s.reconciler.FindByExternalId(ctx, req.Payment.Subscription)
	if err != nil {
		return fmt.Errorf("lookup subscription %s: %w", req.Payment.Subscription, err)
	}
	if sub == nil {
		s.logger.Warn("Webhook", "Subscription not found for payment event", map[string]interface{}{
			"asaas_subscription_id": req.Payment.Subscription, "event": req.Event,
		})
		return nil
	}

	payment := webhookPaymentToGateway(req.Payment)
	if !asaas.IsSettled(payment.Status) {
		// Some events arrive before the payload status catches up.
		// The event name is authoritative here.
		payment.Status = asaas.PaymentStatusConfirmed
	}

	return s.reconciler.ActivateFromPayment(ctx, sub, payment)
}

func (s *webhookService) handleLostPayment(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	if req.Payment == nil || req.Payment.Subscription == "" {
		s.logger.Warn("Webhook", "Payment event without payment payload", map[string]interface{}{"event": req.Event})
		return nil
	}

	sub, err := s.reconciler.FindByExternalId(ctx, req.Payment.Subscription)
	if err != nil {
		return fmt.Errorf("lookup subscription %s: %w", req.Payment.Subscription, err)
	}
	if sub == nil {
		s.logger.Warn("Webhook", "Subscription not found for payment event", map[string]interface{}{
			"asaas_subscription_id": req.Payment.Subscription, "event": req.Event,
		})
		return nil
	}

	return s.reconciler.Expire(ctx, sub)
}

func (s *webhookService) handleGatewayCancel(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	if req.Subscription == nil || req.Subscription.Id == "" {
		s.logger.Warn("Webhook", "Subscription event without subscription payload", map[string]interface{}{"event": req.Event})
		return nil
	}

	sub, err := s.reconciler.FindByExternalId(ctx, req.Subscription.Id)
	if err != nil {
		return fmt.Errorf("lookup subscription %s: %w", req.Subscription.Id, err)
	}
	if sub == nil {
		s.logger.Warn("Webhook", "Subscription not found for cancel event", map[string]interface{}{
			"asaas_subscription_id": req.Subscription.Id, "event": req.Event,
		})
		return nil
	}

	return s.reconciler.MarkCancelledByGateway(ctx, sub)
}

func (s *webhookService) handleSubscriptionRefresh(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	if req.Subscription == nil || req.Subscription.Id == "" {
		return nil
	}

	nextDue, err := time.Parse("2006-01-02", req.Subscription.NextDueDate)
	if err != nil {
		s.logger.Warn("Webhook", "Unparseable nextDueDate, skipping refresh", map[string]interface{}{
			"value": req.Subscription.NextDueDate, "event": req.Event,
		})
		return nil
	}

	sub, err := s.reconciler.FindByExternalId(ctx, req.Subscription.Id)
	if err != nil {
		return fmt.Errorf("lookup subscription %s: %w", req.Subscription.Id, err)
	}
	if sub == nil {
		s.logger.Warn("Webhook", "Subscription not found for refresh event", map[string]interface{}{
			"asaas_subscription_id": req.Subscription.Id, "event": req.Event,
		})
		return nil
	}

	return s.reconciler.RefreshDueDate(ctx, sub, nextDue)
}

// HandleAppleEvent is a placeholder for App Store server notifications.
// The payload is logged so the integration can be built against real
// traffic later.
func (s *webhookService) HandleAppleEvent(ctx context.Context, body []byte) error {
	s.logger.Info("Webhook", "Apple event received (not yet implemented)", map[string]interface{}{
		"body_size": len(body),
	})
	return nil
}

func webhookPaymentToGateway(p *dto.WebhookPayment) asaas.Payment {
	payment := asaas.Payment{
		Id:           p.Id,
		Subscription: p.Subscription,
		Status:       p.Status,
		BillingType:  p.BillingType,
		Value:        p.Value,
	}
	if t, err := time.Parse("2006-01-02", p.PaymentDate); err == nil {
		payment.PaymentDate = asaas.Date{Time: t}
	}
	if t, err := time.Parse("2006-01-02", p.DueDate); err == nil {
		payment.DueDate = asaas.Date{Time: t}
	}
	return payment
}
