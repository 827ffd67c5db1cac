package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEvent is one gateway payment observed for a subscription.
// AsaasPaymentId is unique at the database level; re-recording the same
// payment is a no-op.
type PaymentEvent struct {
	Id             uuid.UUID
	AsaasPaymentId string
	SubscriptionId uuid.UUID
	Amount         float64
	Status         string
	BillingType    string
	PaymentDate    *time.Time
	DueDate        *time.Time
	CreatedAt      time.Time
}
