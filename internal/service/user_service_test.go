package service

import (
	"context"
	"testing"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type otpCapturingMailer struct {
	lastOtp string
}

func (m *otpCapturingMailer) SendDeletionOTP(toEmail, otp string) error {
	m.lastOtp = otp
	return nil
}

func (m *otpCapturingMailer) SendSubscriptionExpired(toEmail, fullName string) error { return nil }

func TestRegister(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewUserService(&fakeUowFactory{uow: uow}, &fakeGateway{}, &otpCapturingMailer{}, "test-secret", noopLogger{})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "artist@example.com",
		Password: "s3nha-forte",
		FullName: "Artista Teste",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, entity.RoleArtist, resp.Role)

	require.Len(t, uow.profileRepo.profiles, 1)
	created := uow.profileRepo.profiles[0]
	assert.Equal(t, entity.PlanStatusInactive, created.StatusPlano)
	assert.NotEqual(t, "s3nha-forte", created.PasswordHash, "password is never stored in clear")

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, created.UserId.String(), claims["user_id"])
	assert.Equal(t, entity.RoleArtist, claims["role"])
}

func TestRegister_EmailTaken(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{{UserId: uuid.New(), Email: "artist@example.com"}}

	svc := NewUserService(&fakeUowFactory{uow: uow}, &fakeGateway{}, &otpCapturingMailer{}, "test-secret", noopLogger{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "artist@example.com",
		Password: "s3nha-forte",
		FullName: "Outro Artista",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nha-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{{
		UserId:       uuid.New(),
		Email:        "artist@example.com",
		PasswordHash: string(hash),
		Role:         entity.RoleArtist,
	}}

	svc := NewUserService(&fakeUowFactory{uow: uow}, &fakeGateway{}, &otpCapturingMailer{}, "test-secret", noopLogger{})

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "artist@example.com",
		Password: "s3nha-forte",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "artist@example.com",
		Password: "senha-errada",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewUserService(&fakeUowFactory{uow: newFakeUnitOfWork()}, &fakeGateway{}, &otpCapturingMailer{}, "test-secret", noopLogger{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountDeletionFlow(t *testing.T) {
	userId := uuid.New()

	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{{UserId: userId, Email: "artist@example.com"}}

	sub := newTestSubscription("sub_live")
	sub.UserId = userId
	sub.Status = entity.SubscriptionStatusActive
	uow.subscriptionRepo.subs = []*entity.Subscription{sub}

	mail := &otpCapturingMailer{}
	gateway := &fakeGateway{}
	svc := NewUserService(&fakeUowFactory{uow: uow}, gateway, mail, "test-secret", noopLogger{})

	require.NoError(t, svc.RequestAccountDeletion(context.Background(), userId))
	require.Len(t, mail.lastOtp, 6, "deletion code is a 6-digit OTP")

	wrongOtp := "000000"
	if mail.lastOtp == wrongOtp {
		wrongOtp = "111111"
	}
	assert.ErrorIs(t, svc.ConfirmAccountDeletion(context.Background(), userId, wrongOtp), ErrInvalidOtp)

	require.NoError(t, svc.ConfirmAccountDeletion(context.Background(), userId, mail.lastOtp))
	assert.Equal(t, []string{"sub_live"}, gateway.cancelled, "live gateway subscription is cancelled before rows are removed")
	assert.Equal(t, 1, uow.committed)
}

func TestConfirmAccountDeletion_ReplayRejected(t *testing.T) {
	userId := uuid.New()

	uow := newFakeUnitOfWork()
	uow.profileRepo.profiles = []*entity.Profile{{UserId: userId, Email: "artist@example.com"}}

	mail := &otpCapturingMailer{}
	svc := NewUserService(&fakeUowFactory{uow: uow}, &fakeGateway{}, mail, "test-secret", noopLogger{})

	require.NoError(t, svc.RequestAccountDeletion(context.Background(), userId))
	require.NoError(t, svc.ConfirmAccountDeletion(context.Background(), userId, mail.lastOtp))

	err := svc.ConfirmAccountDeletion(context.Background(), userId, mail.lastOtp)
	assert.ErrorIs(t, err, ErrInvalidOtp, "a code is single use")
}
