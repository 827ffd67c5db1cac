package specification

import (
	"time"

	"souartista-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters by the owning user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByAsaasSubscriptionId filters by the gateway subscription identifier.
type ByAsaasSubscriptionId struct {
	AsaasSubscriptionId string
}

func (s ByAsaasSubscriptionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("asaas_subscription_id = ?", s.AsaasSubscriptionId)
}

// StatusIn filters subscriptions by a status set.
type StatusIn struct {
	Statuses []entity.SubscriptionStatus
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		values[i] = string(st)
	}
	return db.Where("status IN ?", values)
}

// DueBefore filters subscriptions whose next_due_date already passed.
type DueBefore struct {
	Time time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("next_due_date < ?", s.Time)
}

// ByEmail filters profiles by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByUserId filters by the user_id primary key on profiles.
type ByUserId struct {
	UserID uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}
