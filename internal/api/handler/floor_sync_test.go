package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/scheduler"
	"github.com/meticalabs/smart-floors-external/pkg/apiErrors"
)

func TestTriggerFloorSyncServiceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/floors/sync", nil)

	TriggerFloorSync(nil)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apiErrors.APIError
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apiErrors.ErrInternalServer, body.Code)
	assert.Equal(t, "floor sync service not available", body.Message)
}

func TestFloorSyncStatusServiceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/floors/sync/status", nil)

	FloorSyncStatus(nil)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body apiErrors.APIError
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apiErrors.ErrInternalServer, body.Code)
}

func TestFloorSyncStatusReportsScheduler(t *testing.T) {
	cfg := &config.Config{
		FloorSync: config.FloorSync{
			CronSchedule: "0 7 * * *",
			Enabled:      false,
		},
	}
	service := scheduler.NewFloorSyncService(nil, cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/floors/sync/status", nil)

	FloorSyncStatus(service)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, "0 7 * * *", status["sync_cron"])
}
