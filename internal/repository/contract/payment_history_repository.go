package contract

import (
	"context"

	"souartista-be/internal/entity"
	"souartista-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentHistoryRepository interface {
	// Upsert inserts the payment event, silently skipping rows whose
	// asaas_payment_id already exists. Returns true when a row was written.
	Upsert(ctx context.Context, payment *entity.PaymentEvent) (bool, error)
	Exists(ctx context.Context, asaasPaymentId string) (bool, error)
	DeleteAllBySubscriptionIds(ctx context.Context, subscriptionIds []uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error)
}
