// Package dbtest builds throwaway climate stores for tests: a temp-file
// SQLite database with the production schema and caller-supplied rows.
package dbtest

import (
	"context"
	"database/sql"
	_ "embed"
	"path/filepath"
	"testing"

	"climate-server/internal/config"
	"climate-server/internal/db"
	"climate-server/internal/modules/climate/types"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

type Fixture struct {
	Stations     []types.Station
	Measurements []types.Measurement
}

// F is shorthand for a nullable reading in fixtures.
func F(v float64) *float64 { return &v }

// Write creates the store file under t.TempDir and returns its path.
// Rows are inserted in slice order, so slice order is the natural row order.
func Write(t *testing.T, fx Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			t.Fatalf("close fixture db: %v", err)
		}
	}()

	if _, err := conn.Exec(schemaSQL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	for _, s := range fx.Stations {
		if _, err := conn.Exec(
			`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
			s.StationID, s.Name, s.Latitude, s.Longitude, s.Elevation,
		); err != nil {
			t.Fatalf("insert station %s: %v", s.StationID, err)
		}
	}
	for _, m := range fx.Measurements {
		if _, err := conn.Exec(
			`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			m.StationID, m.Date, m.Precipitation, m.TemperatureObservation,
		); err != nil {
			t.Fatalf("insert measurement %s/%s: %v", m.StationID, m.Date, err)
		}
	}
	return path
}

// Config returns a store config pointing at path.
func Config(path string) config.Config {
	return config.Config{
		Driver:       config.DriverSQLite,
		Path:         path,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}
}

// Open writes fx and opens it read-only through db.Open. The handle is
// closed when the test ends.
func Open(t *testing.T, fx Fixture) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), Config(Write(t, fx)), nil)
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(conn); err != nil {
			t.Errorf("db.Close: %v", err)
		}
	})
	return conn
}

// Hawaii is a small slice of the real dataset: three stations, one of them
// clearly the most active, duplicate dates across stations and NULL readings.
func Hawaii() Fixture {
	return Fixture{
		Stations: []types.Station{
			{StationID: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3},
			{StationID: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
			{StationID: "USC00519281", Name: "WAIHEE 837.5, HI US", Latitude: 21.45167, Longitude: -157.84889, Elevation: 32.9},
		},
		Measurements: []types.Measurement{
			{StationID: "USC00519397", Date: "2016-08-23", Precipitation: F(0.0), TemperatureObservation: F(81)},
			{StationID: "USC00513117", Date: "2016-08-23", Precipitation: F(0.15), TemperatureObservation: F(76)},
			{StationID: "USC00519281", Date: "2016-08-23", Precipitation: F(1.79), TemperatureObservation: F(77)},
			{StationID: "USC00519281", Date: "2016-12-31", Precipitation: nil, TemperatureObservation: F(70)},
			{StationID: "USC00519397", Date: "2017-01-01", Precipitation: F(0.0), TemperatureObservation: F(62)},
			{StationID: "USC00519281", Date: "2017-01-01", Precipitation: F(0.03), TemperatureObservation: F(72)},
			{StationID: "USC00513117", Date: "2017-08-22", Precipitation: F(0.0), TemperatureObservation: nil},
			{StationID: "USC00519281", Date: "2017-08-18", Precipitation: F(0.06), TemperatureObservation: F(79)},
			{StationID: "USC00519397", Date: "2017-08-23", Precipitation: F(0.0), TemperatureObservation: F(81)},
			{StationID: "USC00519281", Date: "2016-08-01", Precipitation: F(0.5), TemperatureObservation: F(75)},
		},
	}
}
