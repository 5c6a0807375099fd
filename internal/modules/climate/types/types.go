package types

// Measurement is one row of the measurement relation: a station's daily
// precipitation and temperature observation. Date is stored as YYYY-MM-DD.
type Measurement struct {
	ID                     int64
	StationID              string
	Date                   string
	Precipitation          *float64
	TemperatureObservation *float64
}

// Station is one row of the station relation.
type Station struct {
	ID        int64
	StationID string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

type PrecipitationRecord struct {
	Date          string   `json:"Date"`
	Precipitation *float64 `json:"Precipitation"`
}

// TemperatureSummary holds MIN/MAX/AVG of tobs over a date filter. All three
// are nil when the filter matched no rows.
type TemperatureSummary struct {
	Minimum *float64 `json:"Minimum Temperature"`
	Maximum *float64 `json:"Maximum Temperature"`
	Average *float64 `json:"Average Temperature"`
}

type TemperatureObservation struct {
	Date        string   `json:"Date"`
	Temperature *float64 `json:"Temperature Observation"`
}

// StationActivity identifies the station with the most measurement rows and
// the date of its latest measurement.
type StationActivity struct {
	StationID  string
	LatestDate string
}
