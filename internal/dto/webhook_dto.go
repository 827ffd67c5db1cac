package dto

// AsaasWebhookRequest mirrors the gateway's webhook payload. Payment and
// Subscription are both optional, which one arrives depends on the event.
type AsaasWebhookRequest struct {
	Event        string               `json:"event"`
	Payment      *WebhookPayment      `json:"payment,omitempty"`
	Subscription *WebhookSubscription `json:"subscription,omitempty"`
}

type WebhookPayment struct {
	Id           string  `json:"id"`
	Subscription string  `json:"subscription"`
	Status       string  `json:"status"`
	BillingType  string  `json:"billingType"`
	Value        float64 `json:"value"`
	PaymentDate  string  `json:"paymentDate"`
	DueDate      string  `json:"dueDate"`
}

type WebhookSubscription struct {
	Id          string `json:"id"`
	Status      string `json:"status"`
	NextDueDate string `json:"nextDueDate"`
}
