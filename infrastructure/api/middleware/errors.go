package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/reelrec/reelrec/domain/game"
)

// ErrNotFound indicates a requested resource does not exist. It is
// re-exported as api.ErrNotFound.
var ErrNotFound = errors.New("not found")

// APIError is one entry of an error response.
type APIError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// WriteError writes a JSON error response, mapping domain errors to HTTP
// status codes.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"

	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, game.ErrValidation), errors.Is(err, game.ErrInvalidVolatility):
		status = http.StatusBadRequest
		title = "Validation Error"
	}

	requestID := middleware.GetReqID(r.Context())

	if logger != nil {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	resp := ErrorResponse{
		Errors: []APIError{
			{
				Status: http.StatusText(status),
				Title:  title,
				Detail: err.Error(),
				ID:     requestID,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
