package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/scheduler"
	"github.com/meticalabs/smart-floors-external/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TriggerFloorSync starts one floor synchronisation run outside the schedule.
// The run executes in the background; poll the status endpoint for the
// outcome.
func TriggerFloorSync(service *scheduler.FloorSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TriggerFloorSync")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "floor sync service not available", nil)
			return
		}

		service.TriggerManualSync()

		response := map[string]any{
			"message": "floor synchronisation started",
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(response)
	}
}

// FloorSyncStatus reports the scheduler state and the outcome of the last run.
func FloorSyncStatus(service *scheduler.FloorSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - FloorSyncStatus")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "floor sync service not available", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.GetStatus())
	}
}
