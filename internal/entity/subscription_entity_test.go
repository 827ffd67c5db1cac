package entity

import "testing"

func TestSubscriptionStatusInCancelFamily(t *testing.T) {
	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionStatusPending, false},
		{SubscriptionStatusActive, false},
		{SubscriptionStatusCanceled, true},
		{SubscriptionStatusCancelled, true},
		{SubscriptionStatusExpired, false},
	}

	for _, tt := range tests {
		if got := tt.status.InCancelFamily(); got != tt.want {
			t.Errorf("InCancelFamily(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSubscriptionStatusReconcilable(t *testing.T) {
	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionStatusPending, true},
		{SubscriptionStatusActive, true},
		{SubscriptionStatusCanceled, false},
		{SubscriptionStatusCancelled, false},
		{SubscriptionStatusExpired, false},
	}

	for _, tt := range tests {
		if got := tt.status.Reconcilable(); got != tt.want {
			t.Errorf("Reconcilable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
