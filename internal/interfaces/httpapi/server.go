package httpapi

import (
	"net/http"

	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/window", handler.GetWindow)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}
