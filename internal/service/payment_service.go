package service

import (
	"context"
	"errors"

	"souartista-be/internal/dto"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/repository/specification"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/pkg/asaas"

	"github.com/google/uuid"
)

var ErrNoSubscription = errors.New("no subscription found")

type IPaymentService interface {
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	GetPixQrCode(ctx context.Context, userId uuid.UUID) (*dto.PixQrCodeResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
	GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    asaas.Gateway
	reconciler IReconcilerService
	logger     logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gateway asaas.Gateway,
	reconciler IReconcilerService,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		gateway:    gateway,
		reconciler: reconciler,
		logger:     log,
	}
}

// GetSubscriptionStatus returns the local subscription state enriched
// with the gateway's live view. A gateway failure degrades to local
// data only.
func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	sub, err := s.reconciler.FindForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}

	res := &dto.SubscriptionStatusResponse{
		SubscriptionId:      sub.Id,
		AsaasSubscriptionId: sub.AsaasSubscriptionId,
		Status:              string(sub.Status),
		PlanType:            string(sub.PlanType),
		PaymentMethod:       sub.PaymentMethod,
		NextDueDate:         sub.NextDueDate,
	}

	if sub.AsaasSubscriptionId != "" {
		gwSub, err := s.gateway.GetSubscription(ctx, sub.AsaasSubscriptionId)
		if err != nil {
			s.logger.Warn("Payment", "Gateway status lookup failed, returning local state", map[string]interface{}{
				"subscription_id": sub.Id, "error": err.Error(),
			})
		} else if gwSub != nil {
			res.GatewayStatus = gwSub.Status
		}
	}

	return res, nil
}

// GetPixQrCode finds the user's open PIX charge and returns its QR code
// payload.
func (s *paymentService) GetPixQrCode(ctx context.Context, userId uuid.UUID) (*dto.PixQrCodeResponse, error) {
	sub, err := s.reconciler.FindForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}
	if sub.AsaasSubscriptionId == "" {
		return nil, errors.New("subscription has no gateway id")
	}

	payments, err := s.gateway.FetchPayments(ctx, sub.AsaasSubscriptionId)
	if err != nil {
		return nil, err
	}

	var pendingId string
	for _, p := range payments {
		if p.Status == asaas.PaymentStatusPending || p.Status == asaas.PaymentStatusOverdue {
			pendingId = p.Id
			break
		}
	}
	if pendingId == "" {
		return nil, errors.New("no open payment found")
	}

	qr, err := s.gateway.FetchPixQrCode(ctx, pendingId)
	if err != nil {
		return nil, err
	}

	return &dto.PixQrCodeResponse{
		Payload:        qr.Payload,
		EncodedImage:   qr.EncodedImage,
		ExpirationDate: qr.ExpirationDate,
	}, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	return s.reconciler.CancelByUser(ctx, userId)
}

func (s *paymentService) GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryResponse, error) {
	sub, err := s.reconciler.FindForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	events, err := uow.PaymentHistoryRepository().FindAll(ctx,
		specification.Filter("subscription_id", sub.Id),
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PaymentHistoryResponse, len(events))
	for i, e := range events {
		res[i] = &dto.PaymentHistoryResponse{
			Id:          e.Id,
			Amount:      e.Amount,
			Status:      e.Status,
			BillingType: e.BillingType,
			PaymentDate: e.PaymentDate,
			DueDate:     e.DueDate,
		}
	}
	return res, nil
}
