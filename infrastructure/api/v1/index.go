package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/infrastructure/api"
	"github.com/reelrec/reelrec/infrastructure/api/middleware"
	"github.com/reelrec/reelrec/infrastructure/api/v1/dto"
)

// IndexRouter handles index management endpoints.
type IndexRouter struct {
	engine      Engine
	catalogPath string
	logger      *slog.Logger
}

// NewIndexRouter creates a new IndexRouter. catalogPath is the catalog used
// by build requests that do not name one.
func NewIndexRouter(engine Engine, catalogPath string, logger *slog.Logger) *IndexRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexRouter{engine: engine, catalogPath: catalogPath, logger: logger}
}

// Routes returns the chi router for index endpoints.
func (r *IndexRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/status", r.Status)
	router.Post("/build", r.Build)
	router.Delete("/", r.Clear)

	return router
}

// Status handles GET /api/v1/index/status.
func (r *IndexRouter) Status(w http.ResponseWriter, req *http.Request) {
	status, err := r.engine.IndexStatus(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.IndexStatusResponse{
		IndexedGames:   status.Stats().Count(),
		StorageMode:    status.Stats().Mode(),
		Health:         status.Stats().Health(),
		EmbeddingModel: status.EmbeddingModel(),
		Ready:          status.ReadyForRecommendations(),
	})
}

// Build handles POST /api/v1/index/build.
func (r *IndexRouter) Build(w http.ResponseWriter, req *http.Request) {
	var body dto.BuildIndexRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, req,
			fmt.Errorf("%w: malformed build request: %v", game.ErrValidation, err), r.logger)
		return
	}

	path := body.CatalogPath
	if path == "" {
		path = r.catalogPath
	}

	games, err := game.LoadCatalog(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: catalog %s", api.ErrNotFound, path)
		}
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	indexed, err := r.engine.BuildIndex(req.Context(), games)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.BuildIndexResponse{
		Status:       "built",
		IndexedGames: indexed,
	})
}

// Clear handles DELETE /api/v1/index.
func (r *IndexRouter) Clear(w http.ResponseWriter, req *http.Request) {
	if err := r.engine.ClearIndex(req.Context()); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "index cleared"})
}
