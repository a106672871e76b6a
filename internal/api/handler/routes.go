package handler

import (
	"net/http"

	"github.com/meticalabs/smart-floors-external/internal/api/handler/router"
	"github.com/meticalabs/smart-floors-external/internal/scheduler"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func FloorSync(service *scheduler.FloorSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/floors/sync",
			Method:  http.MethodPost,
			Handler: TriggerFloorSync(service),
		},
		{
			Path:    "/v1/floors/sync/status",
			Method:  http.MethodGet,
			Handler: FloorSyncStatus(service),
		},
	}
}
