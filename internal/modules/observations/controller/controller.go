package controller

import (
	"net/http"

	"climate-server/internal/modules/observations/service"
)

type ObservationController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type observationControllerImpl struct {
	service *service.Service
}

func NewObservationController(service *service.Service) ObservationController {
	return &observationControllerImpl{service: service}
}

func (c *observationControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTemperatureObservations)
	mux.HandleFunc("GET /api/v1.0/temp/{start}", c.handleTemperatureRangeFrom)
	mux.HandleFunc("GET /api/v1.0/temp/{start}/{end}", c.handleTemperatureRangeBetween)
}
