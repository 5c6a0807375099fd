package climate

import (
	"database/sql"
	"net/http"
	"time"

	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, queryTimeout time.Duration) {
	climateRepository := repository.NewRepository(db)
	climateResolver := service.NewResolver(climateRepository)
	climateController := controller.NewClimateController(climateResolver, queryTimeout)
	climateController.RegisterRoutes(mux)
}
