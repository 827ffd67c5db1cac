package dto

type TotpSetupResponse struct {
	Secret          string `json:"secret"`
	ProvisioningUri string `json:"provisioning_uri"`
}

type TotpVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

type TotpVerifyResponse struct {
	Token string `json:"token"`
}

type SubscriptionStatsResponse struct {
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Canceled  int `json:"canceled"`
	Cancelled int `json:"cancelled"`
	Expired   int `json:"expired"`
}

type BroadcastNotificationRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	Link    string `json:"link"`
}
