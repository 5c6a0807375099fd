package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	data := &views.HomeData{Title: "Climate API", Routes: homeRoutes}
	if err := views.RenderHome(&buf, data); err != nil {
		slog.Error("home template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("home: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.withTimeout(r)
	defer cancel()

	records, err := c.resolver.ListPrecipitation(ctx)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, records)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.withTimeout(r)
	defer cancel()

	stations, err := c.resolver.ListStations(ctx)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTemperatureObservations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.withTimeout(r)
	defer cancel()

	obs, err := c.resolver.ListTemperatureObservations(ctx)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleSummaryFrom(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.withTimeout(r)
	defer cancel()

	summary, err := c.resolver.SummarizeFrom(ctx, r.PathValue("startDate"))
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (c *climateControllerImpl) handleSummaryRange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := c.withTimeout(r)
	defer cancel()

	summary, err := c.resolver.SummarizeRange(ctx, r.PathValue("startDate"), r.PathValue("endDate"))
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}
