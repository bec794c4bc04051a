package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/observations/service"
	"climate-server/internal/utils"
)

func (c *observationControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.service.Routes())
}

func (c *observationControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	precipitation, err := c.service.Precipitation(r.Context())
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, precipitation)
}

func (c *observationControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations(r.Context())
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *observationControllerImpl) handleTemperatureObservations(w http.ResponseWriter, r *http.Request) {
	observations, err := c.service.TemperatureObservations(r.Context())
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, observations)
}

func (c *observationControllerImpl) handleTemperatureRangeFrom(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.TemperatureRangeFrom(r.Context(), r.PathValue("start"))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (c *observationControllerImpl) handleTemperatureRangeBetween(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.TemperatureRangeBetween(r.Context(), r.PathValue("start"), r.PathValue("end"))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

// writeQueryError maps malformed dates to 400. Anything else is a store
// failure and its details stay in the log.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidDate) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "query failed", "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to query observations")
}
