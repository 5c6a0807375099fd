package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/list-precipitation.sql
var listPrecipitationSQL string

//go:embed sql/list-station-ids.sql
var listStationIDsSQL string

//go:embed sql/summarize-from.sql
var summarizeFromSQL string

//go:embed sql/summarize-range.sql
var summarizeRangeSQL string

//go:embed sql/most-active-station.sql
var mostActiveStationSQL string

//go:embed sql/list-temperature-observations.sql
var listTemperatureObservationsSQL string

// ClimateRepository reads the measurement and station relations. Dates are
// passed and returned in the store's YYYY-MM-DD form.
type ClimateRepository interface {
	ListPrecipitation(ctx context.Context) ([]types.PrecipitationRecord, error)
	ListStationIDs(ctx context.Context) ([]string, error)
	SummarizeFrom(ctx context.Context, from string) (types.TemperatureSummary, error)
	SummarizeRange(ctx context.Context, from string, to string) (types.TemperatureSummary, error)
	// MostActiveStation returns nil when the measurement relation is empty.
	MostActiveStation(ctx context.Context) (*types.StationActivity, error)
	ListTemperatureObservations(ctx context.Context, stationID string, from string) ([]types.TemperatureObservation, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

// withConn checks a connection out of the pool for the duration of fn and
// returns it afterwards, so no connection outlives a single operation.
func (r *repositoryImpl) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}()
	return fn(conn)
}

func (r *repositoryImpl) ListPrecipitation(ctx context.Context) ([]types.PrecipitationRecord, error) {
	out := make([]types.PrecipitationRecord, 0)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listPrecipitationSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "precipitation")
		for rows.Next() {
			var rec types.PrecipitationRecord
			if err := rows.Scan(&rec.Date, &rec.Precipitation); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list precipitation: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) ListStationIDs(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listStationIDsSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "stations")
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			out = append(out, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) SummarizeFrom(ctx context.Context, from string) (types.TemperatureSummary, error) {
	summary, err := r.summarize(ctx, summarizeFromSQL, from)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("summarize from %s: %w", from, err)
	}
	return summary, nil
}

func (r *repositoryImpl) SummarizeRange(ctx context.Context, from string, to string) (types.TemperatureSummary, error) {
	summary, err := r.summarize(ctx, summarizeRangeSQL, from, to)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("summarize %s..%s: %w", from, to, err)
	}
	return summary, nil
}

// summarize runs an aggregate query. Aggregates over an empty set come back
// as a single row of NULLs, which scan to nil pointers.
func (r *repositoryImpl) summarize(ctx context.Context, query string, args ...any) (types.TemperatureSummary, error) {
	var s types.TemperatureSummary
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, args...).Scan(&s.Minimum, &s.Maximum, &s.Average)
	})
	return s, err
}

func (r *repositoryImpl) MostActiveStation(ctx context.Context) (*types.StationActivity, error) {
	var a types.StationActivity
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, mostActiveStationSQL).Scan(&a.StationID, &a.LatestDate)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("most active station: %w", err)
	}
	return &a, nil
}

func (r *repositoryImpl) ListTemperatureObservations(ctx context.Context, stationID string, from string) ([]types.TemperatureObservation, error) {
	out := make([]types.TemperatureObservation, 0)
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, listTemperatureObservationsSQL, stationID, from)
		if err != nil {
			return err
		}
		defer closeRows(rows, "temperature observations")
		for rows.Next() {
			var obs types.TemperatureObservation
			if err := rows.Scan(&obs.Date, &obs.Temperature); err != nil {
				return err
			}
			out = append(out, obs)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list temperature observations for %s: %w", stationID, err)
	}
	return out, nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "rows", what, "error", err)
	}
}
