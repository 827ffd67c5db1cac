package service

import (
	"context"
	"testing"
	"time"

	"souartista-be/internal/entity"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (*fakeUnitOfWork, *entity.Profile, IAdminService) {
	t.Helper()
	admin := &entity.Profile{
		UserId: uuid.New(),
		Email:  "admin@souartista.com",
		Role:   entity.RoleAdmin,
	}
	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{admin}

	svc := NewAdminService(&fakeUowFactory{uow: uow}, newFakeNotificationService(), "test-secret", noopLogger{})
	return uow, admin, svc
}

func TestSetupTotp(t *testing.T) {
	_, admin, svc := newAdminFixture(t)

	resp, err := svc.SetupTotp(context.Background(), admin.UserId)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Secret)
	assert.Contains(t, resp.ProvisioningUri, "SouArtista")
	require.NotNil(t, admin.TotpSecret)
	assert.Equal(t, resp.Secret, *admin.TotpSecret)
}

func TestSetupTotp_RejectsReconfiguration(t *testing.T) {
	_, admin, svc := newAdminFixture(t)

	_, err := svc.SetupTotp(context.Background(), admin.UserId)
	require.NoError(t, err)

	_, err = svc.SetupTotp(context.Background(), admin.UserId)
	assert.ErrorIs(t, err, ErrTotpConfirmed)
}

func TestSetupTotp_RejectsNonAdmin(t *testing.T) {
	artist := &entity.Profile{UserId: uuid.New(), Email: "artist@example.com", Role: entity.RoleArtist}
	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{artist}

	svc := NewAdminService(&fakeUowFactory{uow: uow}, newFakeNotificationService(), "test-secret", noopLogger{})

	_, err := svc.SetupTotp(context.Background(), artist.UserId)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestVerifyTotp(t *testing.T) {
	_, admin, svc := newAdminFixture(t)

	setup, err := svc.SetupTotp(context.Background(), admin.UserId)
	require.NoError(t, err)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	resp, err := svc.VerifyTotp(context.Background(), admin.UserId, code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestVerifyTotp_InvalidCode(t *testing.T) {
	_, admin, svc := newAdminFixture(t)

	setup, err := svc.SetupTotp(context.Background(), admin.UserId)
	require.NoError(t, err)

	wrong := "000000"
	if code, _ := totp.GenerateCode(setup.Secret, time.Now()); code == wrong {
		wrong = "111111"
	}

	_, err = svc.VerifyTotp(context.Background(), admin.UserId, wrong)
	assert.ErrorIs(t, err, ErrTotpInvalid)
}

func TestSubscriptionStats(t *testing.T) {
	uow, _, svc := newAdminFixture(t)

	statuses := []entity.SubscriptionStatus{
		entity.SubscriptionStatusActive,
		entity.SubscriptionStatusActive,
		entity.SubscriptionStatusPending,
		entity.SubscriptionStatusCanceled,
		entity.SubscriptionStatusExpired,
	}
	for _, status := range statuses {
		sub := newTestSubscription("sub_" + string(status))
		sub.Status = status
		uow.subscriptionRepo.subs = append(uow.subscriptionRepo.subs, sub)
	}

	stats, err := svc.SubscriptionStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Canceled)
	assert.Equal(t, 0, stats.Cancelled)
	assert.Equal(t, 1, stats.Expired)
}

func TestVerifyTotp_WithoutSetup(t *testing.T) {
	_, admin, svc := newAdminFixture(t)

	_, err := svc.VerifyTotp(context.Background(), admin.UserId, "123456")
	assert.ErrorIs(t, err, ErrTotpNotSetup)
}
