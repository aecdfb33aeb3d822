package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/core/domain"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimiter_PerClientAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0.001, 1, zap.NewNop())
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
	assert.Len(t, rl.clients, 2)

	now = now.Add(limiterIdleTTL + time.Second)
	assert.True(t, rl.allow("10.0.0.3"))
	assert.Len(t, rl.clients, 1)
}

func TestToProblem(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"problem", domain.InvalidTemplateError("bad json"), http.StatusUnprocessableEntity, domain.ProblemBaseURI + domain.TypeInvalidTemplate},
		{"app error", domain.UnavailableError("OCR is not configured", nil), http.StatusServiceUnavailable, domain.ProblemBaseURI + domain.TypeUnavailable},
		{"not found", fmt.Errorf("get template: %w", store.ErrNotFound), http.StatusNotFound, domain.ProblemBaseURI + domain.TypeNotFound},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "about:blank"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := toProblem(tc.err)
			assert.Equal(t, tc.status, p.Status)
			assert.Equal(t, tc.typ, p.Type)
		})
	}
}

func TestErrorHandler_WritesProblemJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()))
	r.GET("/v1/templates/:id", func(c *gin.Context) {
		_ = c.Error(store.ErrNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/templates/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/v1/templates/missing", body["instance"])
	assert.EqualValues(t, 404, body["status"])
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()), Auth([]string{"k1"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for header, want := range map[string]int{
		"":          http.StatusUnauthorized,
		"Basic k1":  http.StatusUnauthorized,
		"Bearer k2": http.StatusUnauthorized,
		"Bearer k1": http.StatusNoContent,
		"bearer k1": http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, header)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Body.String(), 36)
}
