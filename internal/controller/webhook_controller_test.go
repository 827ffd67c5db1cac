package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"souartista-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeWebhookService struct {
	asaasEvents []string
	asaasErr    error
	appleBodies [][]byte
}

func (f *fakeWebhookService) HandleAsaasEvent(ctx context.Context, req *dto.AsaasWebhookRequest) error {
	f.asaasEvents = append(f.asaasEvents, req.Event)
	return f.asaasErr
}

func (f *fakeWebhookService) HandleAppleEvent(ctx context.Context, body []byte) error {
	f.appleBodies = append(f.appleBodies, body)
	return nil
}

func newWebhookTestApp(svc *fakeWebhookService) *fiber.App {
	app := fiber.New()
	NewWebhookController(svc, noopLogger{}).RegisterRoutes(app.Group("/api"))
	return app
}

func TestAsaasWebhook_ReturnsSuccess(t *testing.T) {
	svc := &fakeWebhookService{}
	app := newWebhookTestApp(svc)

	body := `{"event": "PAYMENT_CONFIRMED", "payment": {"id": "pay_1", "subscription": "sub_1", "status": "CONFIRMED"}}`
	req := httptest.NewRequest("POST", "/api/webhooks/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, true, parsed["success"])

	assert.Equal(t, []string{"PAYMENT_CONFIRMED"}, svc.asaasEvents)
}

func TestAsaasWebhook_ServiceErrorStillReturns200(t *testing.T) {
	svc := &fakeWebhookService{asaasErr: errors.New("db is down")}
	app := newWebhookTestApp(svc)

	body := `{"event": "PAYMENT_OVERDUE", "payment": {"id": "pay_1", "subscription": "sub_1"}}`
	req := httptest.NewRequest("POST", "/api/webhooks/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "gateway retries on non-200, failures must not leak")
}

func TestAsaasWebhook_MalformedBodyReturns400(t *testing.T) {
	svc := &fakeWebhookService{}
	app := newWebhookTestApp(svc)

	req := httptest.NewRequest("POST", "/api/webhooks/asaas", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.asaasEvents)
}

func TestAppleWebhook_ReturnsSuccess(t *testing.T) {
	svc := &fakeWebhookService{}
	app := newWebhookTestApp(svc)

	req := httptest.NewRequest("POST", "/api/webhooks/apple", strings.NewReader(`{"signedPayload": "x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, svc.appleBodies, 1)
}
