package service

import (
	"context"
	"time"

	"souartista-be/internal/entity"
	"souartista-be/internal/model"
	"souartista-be/internal/repository"
	"souartista-be/internal/repository/contract"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/asaas"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeGateway struct {
	payments    map[string][]asaas.Payment
	paymentsErr map[string]error
	pix         *asaas.PixQrCode
	sub         *asaas.Subscription
	subErr      error
	cancelErr   error
	cancelled   []string
}

func (g *fakeGateway) FetchPayments(ctx context.Context, subscriptionID string) ([]asaas.Payment, error) {
	if err, ok := g.paymentsErr[subscriptionID]; ok {
		return nil, err
	}
	return g.payments[subscriptionID], nil
}

func (g *fakeGateway) FetchPixQrCode(ctx context.Context, paymentID string) (*asaas.PixQrCode, error) {
	return g.pix, nil
}

func (g *fakeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*asaas.Subscription, error) {
	return g.sub, g.subErr
}

func (g *fakeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.cancelled = append(g.cancelled, subscriptionID)
	return nil
}

type fakeReconciler struct {
	subsByExternal map[string]*entity.Subscription
	findErr        error

	activated   []string // payment ids
	activateErr error

	expired   []uuid.UUID
	expireErr error

	gatewayCancelled []uuid.UUID

	refreshed map[uuid.UUID]time.Time
}

func newFakeReconciler() *fakeReconciler {
	return &fakeReconciler{
		subsByExternal: map[string]*entity.Subscription{},
		refreshed:      map[uuid.UUID]time.Time{},
	}
}

func (r *fakeReconciler) FindForUser(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	for _, sub := range r.subsByExternal {
		if sub.UserId == userId {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *fakeReconciler) FindByExternalId(ctx context.Context, asaasSubscriptionId string) (*entity.Subscription, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.subsByExternal[asaasSubscriptionId], nil
}

func (r *fakeReconciler) ActivateFromPayment(ctx context.Context, sub *entity.Subscription, payment asaas.Payment) error {
	if r.activateErr != nil {
		return r.activateErr
	}
	r.activated = append(r.activated, payment.Id)
	return nil
}

func (r *fakeReconciler) CancelByUser(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (r *fakeReconciler) Expire(ctx context.Context, sub *entity.Subscription) error {
	if r.expireErr != nil {
		return r.expireErr
	}
	r.expired = append(r.expired, sub.Id)
	return nil
}

func (r *fakeReconciler) MarkCancelledByGateway(ctx context.Context, sub *entity.Subscription) error {
	r.gatewayCancelled = append(r.gatewayCancelled, sub.Id)
	return nil
}

func (r *fakeReconciler) RefreshDueDate(ctx context.Context, sub *entity.Subscription, nextDueDate time.Time) error {
	r.refreshed[sub.Id] = nextDueDate
	return nil
}

type fakeSubscriptionRepo struct {
	subs      []*entity.Subscription
	findErr   error
	updated   []*entity.Subscription
	updateErr error
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, sub)
	return nil
}

func (f *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeSubscriptionRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (f *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.subs) == 0 {
		return nil, nil
	}
	return f.subs[0], nil
}

func (f *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.subs, nil
}

func (f *fakeSubscriptionRepo) CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int, error) {
	count := 0
	for _, sub := range f.subs {
		if sub.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeProfileRepo struct {
	profiles    []*entity.Profile
	planColumns map[uuid.UUID]map[string]interface{}
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{planColumns: map[uuid.UUID]map[string]interface{}{}}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	f.profiles = append(f.profiles, profile)
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *entity.Profile) error { return nil }

func (f *fakeProfileRepo) Delete(ctx context.Context, userId uuid.UUID) error { return nil }

func (f *fakeProfileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error) {
	if len(f.profiles) == 0 {
		return nil, nil
	}
	return f.profiles[0], nil
}

func (f *fakeProfileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Profile, error) {
	return f.profiles, nil
}

func (f *fakeProfileRepo) UpdatePlanColumns(ctx context.Context, userId uuid.UUID, columns map[string]interface{}) error {
	f.planColumns[userId] = columns
	return nil
}

type fakePaymentHistoryRepo struct {
	seen     map[string]bool
	upserted []*entity.PaymentEvent
}

func newFakePaymentHistoryRepo() *fakePaymentHistoryRepo {
	return &fakePaymentHistoryRepo{seen: map[string]bool{}}
}

func (f *fakePaymentHistoryRepo) Upsert(ctx context.Context, payment *entity.PaymentEvent) (bool, error) {
	if f.seen[payment.AsaasPaymentId] {
		return false, nil
	}
	f.seen[payment.AsaasPaymentId] = true
	f.upserted = append(f.upserted, payment)
	return true, nil
}

func (f *fakePaymentHistoryRepo) Exists(ctx context.Context, asaasPaymentId string) (bool, error) {
	return f.seen[asaasPaymentId], nil
}

func (f *fakePaymentHistoryRepo) DeleteAllBySubscriptionIds(ctx context.Context, subscriptionIds []uuid.UUID) error {
	return nil
}

func (f *fakePaymentHistoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error) {
	return f.upserted, nil
}

type fakeNotificationRepo struct {
	created []*model.Notification
}

func (f *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *model.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationRepo) DeleteAllByUserID(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type fakeUnitOfWork struct {
	subscriptionRepo   *fakeSubscriptionRepo
	profileRepo        *fakeProfileRepo
	paymentHistoryRepo *fakePaymentHistoryRepo
	notificationRepo   *fakeNotificationRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		subscriptionRepo:   &fakeSubscriptionRepo{},
		profileRepo:        newFakeProfileRepo(),
		paymentHistoryRepo: newFakePaymentHistoryRepo(),
		notificationRepo:   &fakeNotificationRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUnitOfWork) ProfileRepository() contract.ProfileRepository { return u.profileRepo }

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.subscriptionRepo
}

func (u *fakeUnitOfWork) PaymentHistoryRepository() contract.PaymentHistoryRepository {
	return u.paymentHistoryRepo
}

func (u *fakeUnitOfWork) NotificationRepository() repository.NotificationRepository {
	return u.notificationRepo
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
