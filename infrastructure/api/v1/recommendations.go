// Package v1 implements the v1 REST endpoints.
package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reelrec/reelrec/domain/game"
	"github.com/reelrec/reelrec/domain/recommend"
	"github.com/reelrec/reelrec/infrastructure/api/middleware"
	"github.com/reelrec/reelrec/infrastructure/api/v1/dto"
)

// Engine is the orchestration surface the v1 routers depend on.
type Engine interface {
	BuildIndex(ctx context.Context, games []game.SlotGame) (int, error)
	Recommendations(ctx context.Context, gameID string, numCandidates, numFinal int) ([]recommend.Recommendation, error)
	IndexStatus(ctx context.Context) (recommend.IndexStatus, error)
	ClearIndex(ctx context.Context) error
}

const (
	defaultNumCandidates = 10
	defaultNumFinal      = 3
)

// RecommendationsRouter handles recommendation endpoints.
type RecommendationsRouter struct {
	engine        Engine
	numCandidates int
	numFinal      int
	logger        *slog.Logger
}

// NewRecommendationsRouter creates a new RecommendationsRouter.
// numCandidates and numFinal are the sizes used when a request omits the
// query parameters; non-positive values fall back to the package defaults.
func NewRecommendationsRouter(engine Engine, numCandidates, numFinal int, logger *slog.Logger) *RecommendationsRouter {
	if numCandidates <= 0 {
		numCandidates = defaultNumCandidates
	}
	if numFinal <= 0 {
		numFinal = defaultNumFinal
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationsRouter{
		engine:        engine,
		numCandidates: numCandidates,
		numFinal:      numFinal,
		logger:        logger,
	}
}

// Routes returns the chi router for recommendation endpoints.
func (r *RecommendationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", r.Recommendations)

	return router
}

// Recommendations handles GET /api/v1/recommendations/{id}.
func (r *RecommendationsRouter) Recommendations(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	gameID := chi.URLParam(req, "id")

	candidates := queryInt(req, "candidates", r.numCandidates)
	top := queryInt(req, "top", r.numFinal)

	recs, err := r.engine.Recommendations(ctx, gameID, candidates, top)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RecommendationsResponse{
		SourceGameID:    gameID,
		Recommendations: buildRecommendationData(recs),
	})
}

func buildRecommendationData(recs []recommend.Recommendation) []dto.RecommendationData {
	data := make([]dto.RecommendationData, len(recs))
	for i, rec := range recs {
		data[i] = dto.RecommendationData{
			Rank:            rec.Rank(),
			GameID:          rec.ID(),
			Score:           rec.Score(),
			VectorScore:     rec.VectorScore(),
			Explanation:     rec.Explanation(),
			KeySimilarities: rec.KeySimilarities(),
			AppealFactors:   rec.AppealFactors(),
			Metadata:        rec.Metadata(),
		}
	}
	return data
}

func queryInt(req *http.Request, name string, fallback int) int {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
