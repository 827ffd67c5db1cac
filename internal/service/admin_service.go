package service

import (
	"context"
	"errors"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

var (
	ErrNotAdmin      = errors.New("admin role required")
	ErrTotpNotSetup  = errors.New("totp is not configured")
	ErrTotpInvalid   = errors.New("invalid totp code")
	ErrTotpConfirmed = errors.New("totp already configured")
)

type IAdminService interface {
	SetupTotp(ctx context.Context, userId uuid.UUID) (*dto.TotpSetupResponse, error)
	VerifyTotp(ctx context.Context, userId uuid.UUID, code string) (*dto.TotpVerifyResponse, error)
	Broadcast(ctx context.Context, createdBy string, req *dto.BroadcastNotificationRequest) error
	SubscriptionStats(ctx context.Context) (*dto.SubscriptionStatsResponse, error)
}

type adminService struct {
	uowFactory   unitofwork.RepositoryFactory
	notification INotificationService
	jwtSecret    string
	logger       logger.ILogger
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	notification INotificationService,
	jwtSecret string,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:   uowFactory,
		notification: notification,
		jwtSecret:    jwtSecret,
		logger:       log,
	}
}

func (s *adminService) loadAdmin(ctx context.Context, userId uuid.UUID) (*entity.Profile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByUserId{UserID: userId})
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.Role != entity.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return profile, nil
}

// SetupTotp generates a TOTP secret for the admin and stores it on the
// profile. Re-running setup on an already configured account is
// rejected so a stolen session cannot rotate the secret silently.
func (s *adminService) SetupTotp(ctx context.Context, userId uuid.UUID) (*dto.TotpSetupResponse, error) {
	profile, err := s.loadAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile.TotpSecret != nil && *profile.TotpSecret != "" {
		return nil, ErrTotpConfirmed
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "SouArtista",
		AccountName: profile.Email,
	})
	if err != nil {
		return nil, err
	}

	secret := key.Secret()
	profile.TotpSecret = &secret
	profile.UpdatedAt = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProfileRepository().Update(ctx, profile); err != nil {
		return nil, err
	}

	return &dto.TotpSetupResponse{
		Secret:          secret,
		ProvisioningUri: key.URL(),
	}, nil
}

// VerifyTotp validates the code and issues a short-lived elevated token
// for destructive admin operations.
func (s *adminService) VerifyTotp(ctx context.Context, userId uuid.UUID, code string) (*dto.TotpVerifyResponse, error) {
	profile, err := s.loadAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile.TotpSecret == nil || *profile.TotpSecret == "" {
		return nil, ErrTotpNotSetup
	}

	if !totp.Validate(code, *profile.TotpSecret) {
		s.logger.Warn("Admin", "TOTP verification failed", map[string]interface{}{"user_id": userId})
		return nil, ErrTotpInvalid
	}

	claims := jwt.MapClaims{
		"user_id":  profile.UserId.String(),
		"role":     profile.Role,
		"elevated": true,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TotpVerifyResponse{Token: signed}, nil
}

// SubscriptionStats counts subscriptions per status for the admin
// dashboard.
func (s *adminService) SubscriptionStats(ctx context.Context) (*dto.SubscriptionStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SubscriptionRepository()

	stats := &dto.SubscriptionStatsResponse{}
	for status, target := range map[entity.SubscriptionStatus]*int{
		entity.SubscriptionStatusPending:   &stats.Pending,
		entity.SubscriptionStatusActive:    &stats.Active,
		entity.SubscriptionStatusCanceled:  &stats.Canceled,
		entity.SubscriptionStatusCancelled: &stats.Cancelled,
		entity.SubscriptionStatusExpired:   &stats.Expired,
	} {
		count, err := repo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		*target = count
	}
	return stats, nil
}

func (s *adminService) Broadcast(ctx context.Context, createdBy string, req *dto.BroadcastNotificationRequest) error {
	_, pushed := s.notification.NotifyAll(ctx, req.Title, req.Message, req.Link, createdBy)
	if !pushed {
		s.logger.Warn("Admin", "Broadcast stored without push relay", map[string]interface{}{"title": req.Title})
	}
	return nil
}
