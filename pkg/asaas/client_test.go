package asaas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPayments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/subscriptions/sub_1/payments", r.URL.Path)
		assert.Equal(t, "key_test", r.Header.Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{
					"id": "pay_1",
					"subscription": "sub_1",
					"status": "CONFIRMED",
					"billingType": "PIX",
					"value": 29.90,
					"paymentDate": "2026-09-01",
					"dueDate": "2026-10-01",
					"invoiceUrl": "https://asaas.test/i/pay_1"
				},
				{
					"id": "pay_2",
					"subscription": "sub_1",
					"status": "PENDING",
					"billingType": "PIX",
					"value": 29.90,
					"paymentDate": "",
					"dueDate": "2026-11-01"
				}
			],
			"hasMore": false,
			"totalCount": 2
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	payments, err := client.FetchPayments(context.Background(), "sub_1")

	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "pay_1", payments[0].Id)
	assert.Equal(t, "CONFIRMED", payments[0].Status)
	assert.Equal(t, 29.90, payments[0].Value)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), payments[0].PaymentDate.Time)

	assert.True(t, payments[1].PaymentDate.IsZero(), "empty date strings parse to the zero time")
	assert.Nil(t, payments[1].PaymentDate.Ptr())
}

func TestFetchPixQrCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/payments/pay_1/pixQrCode", r.URL.Path)
		w.Write([]byte(`{"encodedImage": "aWth", "payload": "00020126...", "expirationDate": "2026-09-02 23:59:59"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	qr, err := client.FetchPixQrCode(context.Background(), "pay_1")

	require.NoError(t, err)
	assert.Equal(t, "aWth", qr.EncodedImage)
	assert.Equal(t, "00020126...", qr.Payload)
}

func TestGetSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/subscriptions/sub_1", r.URL.Path)
		w.Write([]byte(`{"id": "sub_1", "status": "ACTIVE", "nextDueDate": "2026-10-01", "cycle": "MONTHLY", "deleted": false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	sub, err := client.GetSubscription(context.Background(), "sub_1")

	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", sub.Status)
	assert.Equal(t, "MONTHLY", sub.Cycle)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), sub.NextDueDate.Time)
}

func TestCancelSubscription(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"deleted": true, "id": "sub_1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_test")
	require.NoError(t, client.CancelSubscription(context.Background(), "sub_1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"code":"invalid_apiKey"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad_key")
	_, err := client.FetchPayments(context.Background(), "sub_1")

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "non-2xx responses surface as *APIError")
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid_apiKey")
}

func TestIsSettled(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{PaymentStatusConfirmed, true},
		{PaymentStatusReceived, true},
		{PaymentStatusPending, false},
		{PaymentStatusOverdue, false},
		{PaymentStatusRefunded, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSettled(tt.status); got != tt.want {
			t.Errorf("IsSettled(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	err := d.UnmarshalJSON([]byte(`"01/09/2026"`))
	require.Error(t, err)
}
