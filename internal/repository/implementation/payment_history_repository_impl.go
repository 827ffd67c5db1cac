package implementation

import (
	"context"

	"souartista-be/internal/entity"
	"souartista-be/internal/mapper"
	"souartista-be/internal/model"
	"souartista-be/internal/repository/contract"
	"souartista-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewPaymentHistoryRepository(db *gorm.DB) contract.PaymentHistoryRepository {
	return &PaymentHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *PaymentHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentHistoryRepositoryImpl) Upsert(ctx context.Context, payment *entity.PaymentEvent) (bool, error) {
	m := r.mapper.PaymentToModel(payment)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asaas_payment_id"}},
		DoNothing: true,
	}).Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	*payment = *r.mapper.PaymentToEntity(m)
	return true, nil
}

func (r *PaymentHistoryRepositoryImpl) Exists(ctx context.Context, asaasPaymentId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentHistory{}).
		Where("asaas_payment_id = ?", asaasPaymentId).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentHistoryRepositoryImpl) DeleteAllBySubscriptionIds(ctx context.Context, subscriptionIds []uuid.UUID) error {
	if len(subscriptionIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().
		Where("subscription_id IN ?", subscriptionIds).
		Delete(&model.PaymentHistory{}).Error
}

func (r *PaymentHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error) {
	var models []*model.PaymentHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PaymentEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PaymentToEntity(m)
	}
	return entities, nil
}
