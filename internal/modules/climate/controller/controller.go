package controller

import (
	"context"
	"net/http"
	"time"

	"climate-server/internal/modules/climate/types"
)

// Resolver is the query layer the controller serves.
type Resolver interface {
	ListPrecipitation(ctx context.Context) ([]types.PrecipitationRecord, error)
	ListStations(ctx context.Context) ([]string, error)
	ListTemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error)
	SummarizeFrom(ctx context.Context, startDate string) ([]types.TemperatureSummary, error)
	SummarizeRange(ctx context.Context, startDate string, endDate string) ([]types.TemperatureSummary, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	resolver     Resolver
	queryTimeout time.Duration
}

func NewClimateController(resolver Resolver, queryTimeout time.Duration) ClimateController {
	return &climateControllerImpl{resolver: resolver, queryTimeout: queryTimeout}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleHome)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTemperatureObservations)
	mux.HandleFunc("GET "+apiPrefix+"/{startDate}", c.handleSummaryFrom)
	mux.HandleFunc("GET "+apiPrefix+"/{startDate}/{endDate}", c.handleSummaryRange)
}
