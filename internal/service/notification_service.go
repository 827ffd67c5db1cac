package service

import (
	"context"
	"encoding/json"
	"time"

	"souartista-be/internal/model"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/events"
	pktNats "souartista-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type INotificationService interface {
	// Notify writes the inbox row first, then relays a push event.
	// The bool reports whether the push relay was handed off; a false
	// never fails the caller.
	Notify(ctx context.Context, userID uuid.UUID, title, message, link string) (*model.Notification, bool)
	NotifyAll(ctx context.Context, title, message, link, createdBy string) (*model.Notification, bool)

	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	// Start begins consuming push events and fanning them out over the
	// websocket hub.
	Start()
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  *pktNats.Publisher
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	publisher *pktNats.Publisher,
	subscriber *pktNats.Subscriber,
	delivery NotificationDelivery,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		subscriber: subscriber,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, link string) (*model.Notification, bool) {
	notif := s.buildNotification(&userID, title, message, link, "system")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().CreateNotification(ctx, notif); err != nil {
		s.logger.Error("Notification", "Failed to persist notification", map[string]interface{}{
			"user_id": userID, "error": err.Error(),
		})
		return nil, false
	}

	pushed := s.relayPush(ctx, notif)
	return notif, pushed
}

func (s *notificationService) NotifyAll(ctx context.Context, title, message, link, createdBy string) (*model.Notification, bool) {
	notif := s.buildNotification(nil, title, message, link, createdBy)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().CreateNotification(ctx, notif); err != nil {
		s.logger.Error("Notification", "Failed to persist broadcast", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	pushed := s.relayPush(ctx, notif)
	return notif, pushed
}

func (s *notificationService) buildNotification(userID *uuid.UUID, title, message, link, createdBy string) *model.Notification {
	metaMap := map[string]interface{}{}
	if link != "" {
		metaMap["action_url"] = link
	}
	metaJSON, _ := json.Marshal(metaMap)

	return &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedBy: createdBy,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}

// relayPush hands the notification to the push bus. Failure is logged
// only; the row already exists and the client will see it on next poll.
func (s *notificationService) relayPush(ctx context.Context, notif *model.Notification) bool {
	if s.publisher == nil {
		return false
	}

	payload := map[string]interface{}{
		"id":      notif.ID.String(),
		"title":   notif.Title,
		"message": notif.Message,
		"link":    notif.Link,
	}
	if notif.UserID != nil {
		payload["user_id"] = notif.UserID.String()
	}

	event := events.NewEvent(events.TypePushNotification, payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Notification", "Push relay failed, row persisted anyway", map[string]interface{}{
			"notification_id": notif.ID, "error": err.Error(),
		})
		return false
	}
	return true
}

// Start begins listening for push events on the bus.
func (s *notificationService) Start() {
	if s.subscriber == nil {
		return
	}

	subject := "notifications." + events.TypePushNotification
	err := s.subscriber.Subscribe(subject, "push-worker", s.handlePushEvent)
	if err != nil {
		s.logger.Error("Notification", "Failed to start push subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("Notification", "Push worker started", map[string]interface{}{"subject": subject})
}

func (s *notificationService) handlePushEvent(ctx context.Context, event events.Event) error {
	if s.delivery == nil {
		return nil
	}

	payload := event.Payload()

	notif := model.Notification{
		Title:     asString(payload["title"]),
		Message:   asString(payload["message"]),
		Link:      asString(payload["link"]),
		CreatedAt: event.Timestamp(),
	}
	if idStr := asString(payload["id"]); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			notif.ID = id
		}
	}

	uidStr := asString(payload["user_id"])
	if uidStr == "" {
		s.delivery.Broadcast(notif)
		return nil
	}

	uid, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("Notification", "Push event with bad user_id", map[string]interface{}{"user_id": uidStr})
		return nil
	}
	notif.UserID = &uid

	s.delivery.Send(uid, notif)
	return nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().GetUnreadCount(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllAsRead(ctx, userID)
}
