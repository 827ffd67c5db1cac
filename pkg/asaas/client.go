package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway is the surface the reconciliation services depend on. The
// concrete Client talks to the Asaas REST API; tests substitute fakes.
type Gateway interface {
	FetchPayments(ctx context.Context, subscriptionID string) ([]Payment, error)
	FetchPixQrCode(ctx context.Context, paymentID string) (*PixQrCode, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// Client is a client for the Asaas API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Asaas API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned when Asaas responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asaas API error: status %d, body: %s", e.StatusCode, e.Body)
}

// Payment statuses as reported by Asaas.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusOverdue   = "OVERDUE"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusReceived  = "RECEIVED"
	PaymentStatusRefunded  = "REFUNDED"
)

// IsSettled reports whether a payment status means money changed hands.
func IsSettled(status string) bool {
	return status == PaymentStatusConfirmed || status == PaymentStatusReceived
}

// Date handles the bare "2006-01-02" format Asaas uses for date fields.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid asaas date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Ptr returns the date as *time.Time, nil when unset.
func (d Date) Ptr() *time.Time {
	if d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type Payment struct {
	Id           string  `json:"id"`
	Subscription string  `json:"subscription"`
	Status       string  `json:"status"`
	BillingType  string  `json:"billingType"`
	Value        float64 `json:"value"`
	PaymentDate  Date    `json:"paymentDate"`
	DueDate      Date    `json:"dueDate"`
	InvoiceUrl   string  `json:"invoiceUrl"`
}

type Subscription struct {
	Id          string  `json:"id"`
	Customer    string  `json:"customer"`
	Status      string  `json:"status"`
	Value       float64 `json:"value"`
	NextDueDate Date    `json:"nextDueDate"`
	Cycle       string  `json:"cycle"`
	BillingType string  `json:"billingType"`
	Deleted     bool    `json:"deleted"`
}

type PixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type paymentsEnvelope struct {
	Data       []Payment `json:"data"`
	HasMore    bool      `json:"hasMore"`
	TotalCount int       `json:"totalCount"`
}

// FetchPayments lists the payments attached to a subscription, newest
// first as Asaas returns them.
func (c *Client) FetchPayments(ctx context.Context, subscriptionID string) ([]Payment, error) {
	url := fmt.Sprintf("%s/v3/subscriptions/%s/payments", c.baseURL, subscriptionID)
	var envelope paymentsEnvelope

	if err := c.do(ctx, http.MethodGet, url, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// FetchPixQrCode fetches the PIX QR code payload for a pending payment.
func (c *Client) FetchPixQrCode(ctx context.Context, paymentID string) (*PixQrCode, error) {
	url := fmt.Sprintf("%s/v3/payments/%s/pixQrCode", c.baseURL, paymentID)
	var resp PixQrCode

	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSubscription fetches the current gateway state of a subscription.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	url := fmt.Sprintf("%s/v3/subscriptions/%s", c.baseURL, subscriptionID)
	var resp Subscription

	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelSubscription deletes the subscription on the gateway so no
// further charges are generated.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	url := fmt.Sprintf("%s/v3/subscriptions/%s", c.baseURL, subscriptionID)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body, target interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}
