package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

const apiPrefix = "/api/v1.0"

// statusClientClosedRequest is nginx's non-standard 499.
const statusClientClosedRequest = 499

var homeRoutes = []views.RouteDoc{
	{Path: apiPrefix + "/precipitation", Description: "Dates and precipitation amounts for every measurement."},
	{Path: apiPrefix + "/stations", Description: "Every station id."},
	{Path: apiPrefix + "/tobs", Description: "Temperature observations for the most active station over its last twelve months."},
	{Path: apiPrefix + "/<startDate>", Description: "Min, max and average temperature from startDate on. startDate formatted as yyyymmdd."},
	{Path: apiPrefix + "/<startDate>/<endDate>", Description: "Min, max and average temperature between startDate and endDate, inclusive. Both formatted as yyyymmdd."},
}

// withTimeout bounds store access for one request.
func (c *climateControllerImpl) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	if c.queryTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), c.queryTimeout)
}

// writeResolverError maps resolver errors onto HTTP responses. Bad input is
// the caller's fault and echoed back; store failures are logged and hidden.
func writeResolverError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("store query timed out", "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusGatewayTimeout, "store query timed out")
	case errors.Is(err, context.Canceled):
		// The client is gone; the status only reaches the request log.
		slog.Info("request canceled", "path", r.URL.Path)
		w.WriteHeader(statusClientClosedRequest)
	default:
		slog.Error("store query failed", "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "store unavailable")
	}
}
