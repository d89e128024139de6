package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	server.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownBeforeStart(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	assert.NoError(t, server.Shutdown(context.Background()))
}
