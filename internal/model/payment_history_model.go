package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentHistory rows are keyed by the gateway payment id. The unique
// index makes the upsert atomic regardless of how many sweeps or
// webhook deliveries race on the same payment.
type PaymentHistory struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AsaasPaymentId string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	SubscriptionId uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount         float64    `gorm:"type:decimal(10,2);not null"`
	Status         string     `gorm:"type:varchar(50);not null"`
	BillingType    string     `gorm:"type:varchar(50)"`
	PaymentDate    *time.Time `gorm:"type:date"`
	DueDate        *time.Time `gorm:"type:date"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (PaymentHistory) TableName() string {
	return "payment_history"
}
