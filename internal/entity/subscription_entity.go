package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PlanStatus string
type PlanType string

const (
	// Waiting for the first confirmed payment from the gateway.
	SubscriptionStatusPending SubscriptionStatus = "pending"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	// canceled: the artist asked to cancel. Access is kept until
	// next_due_date elapses (grace period).
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	// cancelled: the gateway reported the subscription as terminated.
	// The profile is deactivated immediately.
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	PlanStatusActive   PlanStatus = "ativo"
	PlanStatusInactive PlanStatus = "inactive"

	PlanTypeMonthly PlanType = "monthly"
	PlanTypeYearly  PlanType = "yearly"
)

// InCancelFamily reports whether the status is one of the two cancel
// spellings. Both are swept into expired once next_due_date passes.
func (s SubscriptionStatus) InCancelFamily() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusCancelled
}

// Reconcilable reports whether the payment sync sweep should still poll
// the gateway for this subscription.
func (s SubscriptionStatus) Reconcilable() bool {
	return s == SubscriptionStatusPending || s == SubscriptionStatusActive
}

type Subscription struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	AsaasSubscriptionId string
	PlanType            PlanType
	Status              SubscriptionStatus
	NextDueDate         time.Time
	PaymentMethod       string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
