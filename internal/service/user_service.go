package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"souartista-be/internal/dto"
	"souartista-be/internal/entity"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/pkg/mailer"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/asaas"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidOtp         = errors.New("invalid or expired code")
)

type IUserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)

	RequestAccountDeletion(ctx context.Context, userId uuid.UUID) error
	ConfirmAccountDeletion(ctx context.Context, userId uuid.UUID, otp string) error
}

type userService struct {
	uowFactory   unitofwork.RepositoryFactory
	gateway      asaas.Gateway
	emailService mailer.IEmailService
	otpStore     *cache.Cache
	jwtSecret    string
	logger       logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	gateway asaas.Gateway,
	emailService mailer.IEmailService,
	jwtSecret string,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:   uowFactory,
		gateway:      gateway,
		emailService: emailService,
		otpStore:     cache.New(10*time.Minute, 15*time.Minute),
		jwtSecret:    jwtSecret,
		logger:       log,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProfileRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		UserId:       uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         entity.RoleArtist,
		StatusPlano:  entity.PlanStatusInactive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.issueToken(profile)
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(profile)
}

func (s *userService) issueToken(profile *entity.Profile) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id": profile.UserId.String(),
		"role":    profile.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:    signed,
		UserId:   profile.UserId,
		Email:    profile.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByUserId{UserID: userId})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile not found")
	}

	return &dto.ProfileResponse{
		UserId:      profile.UserId,
		Email:       profile.Email,
		FullName:    profile.FullName,
		Role:        profile.Role,
		StatusPlano: string(profile.StatusPlano),
		PlanType:    string(profile.PlanType),
	}, nil
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestAccountDeletion emails a 6-digit code. The code lives in the
// OTP store for 10 minutes.
func (s *userService) RequestAccountDeletion(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByUserId{UserID: userId})
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.New("profile not found")
	}

	otp, err := generateOtp()
	if err != nil {
		return err
	}
	s.otpStore.Set("delete:"+userId.String(), otp, cache.DefaultExpiration)

	if err := s.emailService.SendDeletionOTP(profile.Email, otp); err != nil {
		return fmt.Errorf("failed to send deletion code: %w", err)
	}

	s.logger.Info("User", "Deletion OTP issued", map[string]interface{}{"user_id": userId})
	return nil
}

// ConfirmAccountDeletion verifies the code, cancels any live gateway
// subscription, then hard-deletes everything the user owns.
func (s *userService) ConfirmAccountDeletion(ctx context.Context, userId uuid.UUID, otp string) error {
	key := "delete:" + userId.String()
	stored, found := s.otpStore.Get(key)
	if !found || stored.(string) != otp {
		return ErrInvalidOtp
	}
	s.otpStore.Delete(key)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAll(ctx, specification.OwnedBy{UserID: userId})
	if err != nil {
		return err
	}

	// Stop gateway charges before the rows disappear. A failed cancel
	// is logged but does not keep the account alive.
	for _, sub := range subs {
		if sub.AsaasSubscriptionId == "" || !sub.Status.Reconcilable() {
			continue
		}
		if err := s.gateway.CancelSubscription(ctx, sub.AsaasSubscriptionId); err != nil {
			s.logger.Error("User", "Gateway cancel failed during account deletion", map[string]interface{}{
				"user_id": userId, "subscription_id": sub.Id, "error": err.Error(),
			})
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	subIds := make([]uuid.UUID, len(subs))
	for i, sub := range subs {
		subIds[i] = sub.Id
	}
	if err := uow.PaymentHistoryRepository().DeleteAllBySubscriptionIds(ctx, subIds); err != nil {
		return err
	}
	if err := uow.SubscriptionRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.NotificationRepository().DeleteAllByUserID(ctx, userId); err != nil {
		return err
	}
	if err := uow.ProfileRepository().Delete(ctx, userId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("User", "Account deleted", map[string]interface{}{"user_id": userId})
	return nil
}
