package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID `gorm:"type:uuid;not null;index"`
	AsaasSubscriptionId string    `gorm:"type:varchar(255);index"`
	PlanType            string    `gorm:"type:varchar(50);not null"`
	Status              string    `gorm:"type:varchar(50);not null;index"`
	NextDueDate         time.Time `gorm:"type:date;not null"`
	PaymentMethod       string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
