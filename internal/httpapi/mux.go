package httpapi

import (
	"database/sql"
	"net/http"
	"time"
)

// NewMux returns the root mux carrying the operational routes. Feature
// modules register their own routes on it.
func NewMux(db *sql.DB, probeTimeout time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, probeTimeout)
	return mux
}
