package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatusResponse struct {
	SubscriptionId      uuid.UUID  `json:"subscription_id"`
	AsaasSubscriptionId string     `json:"asaas_subscription_id"`
	Status              string     `json:"status"`
	PlanType            string     `json:"plan_type"`
	PaymentMethod       string     `json:"payment_method"`
	NextDueDate         time.Time  `json:"next_due_date"`
	GatewayStatus       string     `json:"gateway_status,omitempty"`
}

type PixQrCodeResponse struct {
	Payload        string `json:"payload"`
	EncodedImage   string `json:"encoded_image"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

type PaymentHistoryResponse struct {
	Id          uuid.UUID  `json:"id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	BillingType string     `json:"billing_type"`
	PaymentDate *time.Time `json:"payment_date"`
	DueDate     *time.Time `json:"due_date"`
}
