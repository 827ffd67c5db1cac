package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserId       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(50);not null;default:'artist'"`
	// Legacy column names preserved from the production dataset.
	StatusPlano           string     `gorm:"column:status_plano;type:varchar(50);not null;default:'inactive'"`
	PlanType              string     `gorm:"type:varchar(50)"`
	PlanPurchasedAt       *time.Time `gorm:"type:timestamptz"`
	CurrentSubscriptionId *uuid.UUID `gorm:"type:uuid"`
	TotpSecret            *string    `gorm:"type:varchar(255)"`
	CreatedAt             time.Time  `gorm:"autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
