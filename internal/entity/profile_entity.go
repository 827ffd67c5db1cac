package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// Profile is the billing-relevant projection of an artist account.
// StatusPlano mirrors the owning subscription's status under the
// reconciler's mapping; the two writes are sequential, not atomic.
type Profile struct {
	UserId                uuid.UUID
	Email                 string
	FullName              string
	PasswordHash          string
	Role                  string
	StatusPlano           PlanStatus
	PlanType              PlanType
	PlanPurchasedAt       *time.Time
	CurrentSubscriptionId *uuid.UUID
	TotpSecret            *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (p *Profile) HasActivePlan() bool {
	return p.StatusPlano == PlanStatusActive
}
