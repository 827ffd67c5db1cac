package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/model"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedNotify struct {
	userID uuid.UUID
	title  string
}

type fakeNotificationService struct {
	notified chan recordedNotify
}

func newFakeNotificationService() *fakeNotificationService {
	return &fakeNotificationService{notified: make(chan recordedNotify, 8)}
}

func (f *fakeNotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, link string) (*model.Notification, bool) {
	f.notified <- recordedNotify{userID: userID, title: title}
	return &model.Notification{}, true
}

func (f *fakeNotificationService) NotifyAll(ctx context.Context, title, message, link, createdBy string) (*model.Notification, bool) {
	return &model.Notification{}, true
}

func (f *fakeNotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationService) Start() {}

type fakeEmailService struct {
	expiredTo chan string
}

func (f *fakeEmailService) SendDeletionOTP(toEmail, otp string) error { return nil }

func (f *fakeEmailService) SendSubscriptionExpired(toEmail, fullName string) error {
	f.expiredTo <- toEmail
	return nil
}

func publishStatusChange(t *testing.T, pubSub *gochannel.GoChannel, userId uuid.UUID, newStatus entity.SubscriptionStatus) {
	t.Helper()
	payload, err := json.Marshal(dto.SubscriptionStatusChangedMessage{
		UserId:         userId.String(),
		SubscriptionId: uuid.NewString(),
		OldStatus:      string(entity.SubscriptionStatusPending),
		NewStatus:      string(newStatus),
	})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), payload)))
}

func TestConsume_NotifiesOnStatusChange(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	notifier := newFakeNotificationService()
	uow := newFakeUnitOfWork()

	svc := NewConsumerService(pubSub, testTopic, &fakeUowFactory{uow: uow}, notifier, nil, noopLogger{})
	require.NoError(t, svc.Consume(context.Background()))

	userId := uuid.New()

	tests := []struct {
		status    entity.SubscriptionStatus
		wantTitle string
	}{
		{entity.SubscriptionStatusActive, "Assinatura ativada"},
		{entity.SubscriptionStatusCanceled, "Assinatura cancelada"},
		{entity.SubscriptionStatusCancelled, "Assinatura encerrada"},
		{entity.SubscriptionStatusExpired, "Assinatura expirada"},
	}

	for _, tt := range tests {
		publishStatusChange(t, pubSub, userId, tt.status)

		select {
		case got := <-notifier.notified:
			assert.Equal(t, userId, got.userID)
			assert.Equal(t, tt.wantTitle, got.title)
		case <-time.After(time.Second):
			t.Fatalf("no notification for status %q", tt.status)
		}
	}
}

func TestConsume_ExpirySendsEmail(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	notifier := newFakeNotificationService()
	mail := &fakeEmailService{expiredTo: make(chan string, 1)}

	uow := newFakeUnitOfWork()
	userId := uuid.New()
	uow.profileRepo.profiles = []*entity.Profile{{
		UserId:   userId,
		Email:    "artist@example.com",
		FullName: "Artista Teste",
	}}

	svc := NewConsumerService(pubSub, testTopic, &fakeUowFactory{uow: uow}, notifier, mail, noopLogger{})
	require.NoError(t, svc.Consume(context.Background()))

	publishStatusChange(t, pubSub, userId, entity.SubscriptionStatusExpired)

	select {
	case to := <-mail.expiredTo:
		assert.Equal(t, "artist@example.com", to)
	case <-time.After(time.Second):
		t.Fatal("expected an expiry email")
	}
}

func TestConsume_BadPayloadDoesNotNotify(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	notifier := newFakeNotificationService()

	svc := NewConsumerService(pubSub, testTopic, &fakeUowFactory{uow: newFakeUnitOfWork()}, notifier, nil, noopLogger{})
	require.NoError(t, svc.Consume(context.Background()))

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{not json`))
	require.NoError(t, pubSub.Publish(testTopic, msg))

	select {
	case <-notifier.notified:
		t.Fatal("malformed payload must be dropped")
	case <-time.After(100 * time.Millisecond):
	}
}
