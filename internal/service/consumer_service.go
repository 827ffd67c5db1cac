package service

import (
	"context"
	"encoding/json"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/pkg/mailer"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService turns subscription status changes into user-facing
// notifications.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	notification INotificationService
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	notification INotificationService,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		notification: notification,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SubscriptionStatusChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal status change", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are never retriable
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.logger.Error("Consumer", "Status change with bad user_id", map[string]interface{}{"user_id": payload.UserId})
		msg.Ack()
		return
	}

	switch entity.SubscriptionStatus(payload.NewStatus) {
	case entity.SubscriptionStatusActive:
		cs.notification.Notify(ctx, userId,
			"Assinatura ativada",
			"Seu pagamento foi confirmado e sua assinatura esta ativa.",
			"/artist/subscription",
		)

	case entity.SubscriptionStatusCanceled:
		cs.notification.Notify(ctx, userId,
			"Assinatura cancelada",
			"Sua assinatura foi cancelada. Voce mantem o acesso ate o fim do periodo pago.",
			"/artist/subscription",
		)

	case entity.SubscriptionStatusCancelled:
		cs.notification.Notify(ctx, userId,
			"Assinatura encerrada",
			"Sua assinatura foi encerrada pelo provedor de pagamento.",
			"/artist/subscription",
		)

	case entity.SubscriptionStatusExpired:
		cs.notification.Notify(ctx, userId,
			"Assinatura expirada",
			"Sua assinatura expirou. Renove para continuar com o acesso premium.",
			"/artist/subscription",
		)
		cs.sendExpiryEmail(ctx, userId)
	}

	msg.Ack()
}

// sendExpiryEmail is best effort. A mail failure never blocks the
// status pipeline.
func (cs *consumerService) sendExpiryEmail(ctx context.Context, userId uuid.UUID) {
	if cs.emailService == nil {
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByUserId{UserID: userId})
	if err != nil || profile == nil {
		cs.logger.Warn("Consumer", "Profile not found for expiry email", map[string]interface{}{"user_id": userId})
		return
	}

	if err := cs.emailService.SendSubscriptionExpired(profile.Email, profile.FullName); err != nil {
		cs.logger.Warn("Consumer", "Expiry email failed", map[string]interface{}{
			"user_id": userId, "error": err.Error(),
		})
	}
}
