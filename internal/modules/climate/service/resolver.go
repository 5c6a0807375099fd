package service

import (
	"context"
	"fmt"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

// Resolver maps each API route onto one bounded read of the climate store
// and shapes the result for JSON encoding.
type Resolver struct {
	repository repository.ClimateRepository
}

func NewResolver(repository repository.ClimateRepository) *Resolver {
	return &Resolver{repository: repository}
}

// ListPrecipitation returns one record per measurement row, duplicates by
// date included.
func (s *Resolver) ListPrecipitation(ctx context.Context) ([]types.PrecipitationRecord, error) {
	records, err := s.repository.ListPrecipitation(ctx)
	if err != nil {
		return nil, wrapStore(err)
	}
	return records, nil
}

func (s *Resolver) ListStations(ctx context.Context) ([]string, error) {
	ids, err := s.repository.ListStationIDs(ctx)
	if err != nil {
		return nil, wrapStore(err)
	}
	return ids, nil
}

// SummarizeFrom aggregates tobs over every row dated on or after startDate.
// The result always holds exactly one summary.
func (s *Resolver) SummarizeFrom(ctx context.Context, startDate string) ([]types.TemperatureSummary, error) {
	from, err := ParsePathDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	summary, err := s.repository.SummarizeFrom(ctx, from)
	if err != nil {
		return nil, wrapStore(err)
	}
	return []types.TemperatureSummary{summary}, nil
}

// SummarizeRange aggregates tobs over rows dated within [startDate, endDate].
// An inverted range is not an error; it matches nothing.
func (s *Resolver) SummarizeRange(ctx context.Context, startDate string, endDate string) ([]types.TemperatureSummary, error) {
	from, err := ParsePathDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	to, err := ParsePathDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	summary, err := s.repository.SummarizeRange(ctx, from, to)
	if err != nil {
		return nil, wrapStore(err)
	}
	return []types.TemperatureSummary{summary}, nil
}

// ListTemperatureObservations returns the last twelve months of tobs for the
// station with the most measurements, counted back from that station's
// latest measurement.
func (s *Resolver) ListTemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error) {
	active, err := s.repository.MostActiveStation(ctx)
	if err != nil {
		return nil, wrapStore(err)
	}
	if active == nil {
		return []types.TemperatureObservation{}, nil
	}
	from, err := yearBefore(active.LatestDate)
	if err != nil {
		return nil, wrapStore(fmt.Errorf("station %s latest date %q: %w", active.StationID, active.LatestDate, err))
	}
	obs, err := s.repository.ListTemperatureObservations(ctx, active.StationID, from)
	if err != nil {
		return nil, wrapStore(err)
	}
	return obs, nil
}
