package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func healthy(ctx context.Context) error { return nil }

func setupRouter(checks map[string]Pinger) *gin.Engine {
	h := NewHealthHandler(checks)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter(map[string]Pinger{"database": PingerFunc(healthy), "redis": nil})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"database": "ok"}, body.Checks)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_DependencyDown(t *testing.T) {
	t.Parallel()

	router := setupRouter(map[string]Pinger{
		"database": PingerFunc(healthy),
		"redis":    PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "unavailable", body.Checks["redis"])
	assert.Equal(t, "ok", body.Checks["database"])
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	down := map[string]Pinger{"database": PingerFunc(func(ctx context.Context) error { return errors.New("down") })}
	tests := []struct {
		name           string
		method         string
		checks         map[string]Pinger
		expectedStatus int
	}{
		{"HEAD healthy", http.MethodHead, nil, http.StatusOK},
		{"HEAD down", http.MethodHead, down, http.StatusServiceUnavailable},
		{"OPTIONS", http.MethodOptions, down, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.method == http.MethodHead {
				assert.Zero(t, w.Body.Len())
			}
		})
	}
}
