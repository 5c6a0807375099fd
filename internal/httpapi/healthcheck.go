package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"climate-server/internal/utils"
)

const defaultProbeTimeout = 2 * time.Second

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db      *sql.DB
	timeout time.Duration
}

// NewHealthchecker probes the store with SELECT 1 bounded by timeout; a
// non-positive timeout falls back to two seconds.
func NewHealthchecker(db *sql.DB, timeout time.Duration) healthchecker {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &healthcheckerImpl{db: db, timeout: timeout}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var ok int
	if err := h.db.QueryRowContext(ctx, `SELECT 1`).Scan(&ok); err != nil || ok != 1 {
		slog.Error("failed to check store connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, timeout time.Duration) {
	healthchecker := NewHealthchecker(db, timeout)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
