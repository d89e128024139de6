package v1

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Router assembles the full v1 API router. numCandidates and numFinal are
// the retrieval sizes used when a recommendation request omits them.
func Router(engine Engine, catalogPath string, numCandidates, numFinal int, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()

	router.Mount("/recommendations", NewRecommendationsRouter(engine, numCandidates, numFinal, logger).Routes())
	router.Mount("/index", NewIndexRouter(engine, catalogPath, logger).Routes())

	return router
}
