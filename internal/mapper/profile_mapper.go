package mapper

import (
	"souartista-be/internal/entity"
	"souartista-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		UserId:                p.UserId,
		Email:                 p.Email,
		FullName:              p.FullName,
		PasswordHash:          p.PasswordHash,
		Role:                  p.Role,
		StatusPlano:           entity.PlanStatus(p.StatusPlano),
		PlanType:              entity.PlanType(p.PlanType),
		PlanPurchasedAt:       p.PlanPurchasedAt,
		CurrentSubscriptionId: p.CurrentSubscriptionId,
		TotpSecret:            p.TotpSecret,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}
	return &model.Profile{
		UserId:                p.UserId,
		Email:                 p.Email,
		FullName:              p.FullName,
		PasswordHash:          p.PasswordHash,
		Role:                  p.Role,
		StatusPlano:           string(p.StatusPlano),
		PlanType:              string(p.PlanType),
		PlanPurchasedAt:       p.PlanPurchasedAt,
		CurrentSubscriptionId: p.CurrentSubscriptionId,
		TotpSecret:            p.TotpSecret,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
