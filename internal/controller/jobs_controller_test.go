package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"souartista-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweepService struct {
	syncSummary    dto.SweepSummary
	syncErr        error
	expiredSummary dto.SweepSummary
	expiredErr     error
}

func (f *fakeSweepService) SyncPayments(ctx context.Context) (dto.SweepSummary, error) {
	return f.syncSummary, f.syncErr
}

func (f *fakeSweepService) CheckExpired(ctx context.Context) (dto.SweepSummary, error) {
	return f.expiredSummary, f.expiredErr
}

func newJobsTestApp(svc *fakeSweepService) *fiber.App {
	app := fiber.New()
	NewJobsController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func TestSyncPaymentsJob(t *testing.T) {
	t.Setenv("SERVICE_ROLE_TOKEN", "job-token")

	svc := &fakeSweepService{syncSummary: dto.SweepSummary{Synced: 3, Errors: 1, Total: 10}}
	app := newJobsTestApp(svc)

	req := httptest.NewRequest("POST", "/api/jobs/sync-asaas-payments", nil)
	req.Header.Set("X-Service-Token", "job-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "partial failure still answers 200")

	raw, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Success bool            `json:"success"`
		Data    dto.SweepSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, parsed.Success)
	assert.Equal(t, svc.syncSummary, parsed.Data)
}

func TestSyncPaymentsJob_WholeSweepFailure(t *testing.T) {
	t.Setenv("SERVICE_ROLE_TOKEN", "job-token")

	svc := &fakeSweepService{syncErr: errors.New("db unreachable")}
	app := newJobsTestApp(svc)

	req := httptest.NewRequest("POST", "/api/jobs/sync-asaas-payments", nil)
	req.Header.Set("X-Service-Token", "job-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCheckExpiredJob(t *testing.T) {
	t.Setenv("SERVICE_ROLE_TOKEN", "job-token")

	svc := &fakeSweepService{expiredSummary: dto.SweepSummary{Expired: 2, Total: 2}}
	app := newJobsTestApp(svc)

	req := httptest.NewRequest("POST", "/api/jobs/check-expired-subscriptions", nil)
	req.Header.Set("X-Service-Token", "job-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJobsRequireServiceToken(t *testing.T) {
	t.Setenv("SERVICE_ROLE_TOKEN", "job-token")

	app := newJobsTestApp(&fakeSweepService{})

	req := httptest.NewRequest("POST", "/api/jobs/sync-asaas-payments", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
