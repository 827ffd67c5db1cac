package mapper

import (
	"souartista-be/internal/entity"
	"souartista-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                  s.Id,
		UserId:              s.UserId,
		AsaasSubscriptionId: s.AsaasSubscriptionId,
		PlanType:            entity.PlanType(s.PlanType),
		Status:              entity.SubscriptionStatus(s.Status),
		NextDueDate:         s.NextDueDate,
		PaymentMethod:       s.PaymentMethod,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                  s.Id,
		UserId:              s.UserId,
		AsaasSubscriptionId: s.AsaasSubscriptionId,
		PlanType:            string(s.PlanType),
		Status:              string(s.Status),
		NextDueDate:         s.NextDueDate,
		PaymentMethod:       s.PaymentMethod,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PaymentToEntity(p *model.PaymentHistory) *entity.PaymentEvent {
	if p == nil {
		return nil
	}
	return &entity.PaymentEvent{
		Id:             p.Id,
		AsaasPaymentId: p.AsaasPaymentId,
		SubscriptionId: p.SubscriptionId,
		Amount:         p.Amount,
		Status:         p.Status,
		BillingType:    p.BillingType,
		PaymentDate:    p.PaymentDate,
		DueDate:        p.DueDate,
		CreatedAt:      p.CreatedAt,
	}
}

func (m *SubscriptionMapper) PaymentToModel(p *entity.PaymentEvent) *model.PaymentHistory {
	if p == nil {
		return nil
	}
	return &model.PaymentHistory{
		Id:             p.Id,
		AsaasPaymentId: p.AsaasPaymentId,
		SubscriptionId: p.SubscriptionId,
		Amount:         p.Amount,
		Status:         p.Status,
		BillingType:    p.BillingType,
		PaymentDate:    p.PaymentDate,
		DueDate:        p.DueDate,
		CreatedAt:      p.CreatedAt,
	}
}
