package observations

import (
	"database/sql"
	"net/http"

	"climate-server/internal/modules/observations/controller"
	"climate-server/internal/modules/observations/repository"
	"climate-server/internal/modules/observations/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB) {
	observationRepository := repository.NewRepository(db)
	observationService := service.NewService(observationRepository)
	observationController := controller.NewObservationController(observationService)
	observationController.RegisterRoutes(mux)
}
