package dto

// SweepSummary is the result envelope for the polling jobs. Synced is
// used by the payment sync sweep, Expired by the expiration sweep.
type SweepSummary struct {
	Synced  int `json:"synced,omitempty"`
	Expired int `json:"expired,omitempty"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// SubscriptionStatusChangedMessage travels over the in-process bus from
// the reconciler to notification dispatch.
type SubscriptionStatusChangedMessage struct {
	UserId         string `json:"user_id"`
	SubscriptionId string `json:"subscription_id"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
}
