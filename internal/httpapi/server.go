package httpapi

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"climate-server/internal/config"
	"climate-server/internal/observability"
)

const serviceName = "climate-server"

func NewServer(cfg config.Config, mux *http.ServeMux, metrics *observability.Metrics, clock clockwork.Clock) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      otelhttp.NewHandler(instrument(mux, metrics, clock), serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
