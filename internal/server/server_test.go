package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/formatapi/internal/config"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/server"
	"github.com/nulzo/formatapi/internal/store/sqlite"
	"github.com/nulzo/formatapi/pkg/api"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = "sk-" + strings.Repeat("A", 24)

type stubOCR struct {
	models []string
	err    error
}

func (s *stubOCR) ExtractModels(ctx context.Context, imagePath string) ([]string, error) {
	return s.models, s.err
}

func newTestServer(t *testing.T, mutate func(*config.Config, *server.Services)) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := sqlite.NewSQLiteStorage("file:"+filepath.Join(t.TempDir(), "api.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Output.Format = "env"

	svcs := server.Services{
		Parser:    services.NewParserService(),
		History:   services.NewHistoryService(repo, 100, nil),
		Templates: services.NewTemplateService(repo, nil),
	}
	if mutate != nil {
		mutate(cfg, &svcs)
	}
	return server.New(cfg, zap.NewNop(), svcs, "test").Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestParse(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/parse", api.ParseRequest{Text: "https://api.openai.com/v1\n" + secret})
	require.Equal(t, http.StatusOK, w.Code)

	var r schema.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, "openai", r.Vendor)
	assert.Equal(t, "https://api.openai.com/v1", r.URL())
	assert.Equal(t, secret, r.Key())
}

func TestParse_NoMatchesSerializeEmptyLists(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/parse", api.ParseRequest{Text: "nothing here"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"base_url":null,"api_key":null,"vendor":"custom","url_candidates":[],"key_candidates":[]}`, w.Body.String())
}

func TestParse_ValidationProblem(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/parse", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation Error", body["title"])
	assert.Equal(t, "/v1/parse", body["instance"])
	assert.Contains(t, body["errors"], "text")
}

func TestParseSelect(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/parse/select", api.SelectRequest{
		Text:    "https://api.openai.com/v1 https://api.deepseek.com",
		BaseURL: "https://api.deepseek.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var r schema.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, "https://api.deepseek.com", r.URL())
	assert.Equal(t, "deepseek", r.Vendor)
	assert.Len(t, r.URLCandidates, 2)
}

func TestVendors(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodGet, "/v1/vendors", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list api.ListResponse[schema.VendorProfile]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 7)
	assert.Equal(t, "openai", list.Data[0].Identity)
	assert.Equal(t, "custom", list.Data[6].Identity)
}

func TestFormat(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/format", api.FormatRequest{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  secret,
		Format:  "json",
		Models:  []string{"gpt-4o"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.FormatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "json", resp.Format)
	assert.Equal(t, ".json", resp.Extension)
	assert.Contains(t, resp.Content, `"api_key": "`+secret+`"`)

	w = do(t, h, http.MethodPost, "/v1/format", api.FormatRequest{APIKey: secret})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "env", resp.Format)
	assert.Contains(t, resp.Content, "CUSTOM_API_KEY="+secret)

	w = do(t, h, http.MethodPost, "/v1/format", api.FormatRequest{Format: "xml"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplatesAndFormatWithTemplate(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/templates", api.TemplateRequest{
		Name: "My Tool",
		Body: `{"apiKey": "", "endpoint": ""}`,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tpl schema.Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tpl))
	assert.Equal(t, "my_tool", tpl.ID)

	w = do(t, h, http.MethodPost, "/v1/format", api.FormatRequest{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     secret,
		TemplateID: "my_tool",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.FormatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "custom", resp.Format)
	assert.Equal(t, "{\n  \"apiKey\": \""+secret+"\",\n  \"endpoint\": \"https://api.openai.com/v1\"\n}", resp.Content)

	w = do(t, h, http.MethodGet, "/v1/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "my_tool")

	w = do(t, h, http.MethodDelete, "/v1/templates/my_tool", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/v1/templates/my_tool", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/v1/format", api.FormatRequest{TemplateID: "my_tool"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplates_InvalidJSONBody(t *testing.T) {
	h := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/v1/templates", api.TemplateRequest{Name: "broken", Body: `{"a": `})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHistory(t *testing.T) {
	h := newTestServer(t, nil)

	for _, u := range []string{"https://api.openai.com/v1", "https://api.deepseek.com"} {
		w := do(t, h, http.MethodPost, "/v1/history", api.HistoryRequest{BaseURL: u, APIKey: secret})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, h, http.MethodGet, "/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list api.ListResponse[schema.HistoryRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "deepseek", list.Data[0].Vendor)

	w = do(t, h, http.MethodGet, "/v1/history?q=OPENAI", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	id := list.Data[0].ID

	w = do(t, h, http.MethodGet, "/v1/history?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/v1/history/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodDelete, "/v1/history/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/v1/history", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/v1/history", nil)
	assert.JSONEq(t, `{"object":"list","data":[]}`, w.Body.String())
}

func uploadImage(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "shot.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/ocr", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOCR(t *testing.T) {
	h := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, uploadImage(t, h).Code)

	h = newTestServer(t, func(_ *config.Config, s *server.Services) {
		s.OCR = &stubOCR{models: []string{"gpt-4o"}}
	})
	w := uploadImage(t, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":["gpt-4o"]}`, w.Body.String())

	h = newTestServer(t, func(_ *config.Config, s *server.Services) {
		s.OCR = &stubOCR{err: errors.New("tesseract missing")}
	})
	w = uploadImage(t, h)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "tesseract missing")
}

func TestAuth(t *testing.T) {
	h := newTestServer(t, func(c *config.Config, _ *server.Services) {
		c.Server.APIKeys = []string{"letmein"}
	})

	w := do(t, h, http.MethodGet, "/v1/vendors", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/v1/vendors", nil, "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/v1/vendors", nil, "Authorization", "Bearer letmein")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, func(c *config.Config, _ *server.Services) {
		c.RateLimit.RequestsPerSecond = 0.001
		c.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/vendors", nil).Code)
	w := do(t, h, http.MethodGet, "/v1/vendors", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil)
	w := do(t, h, http.MethodOptions, "/v1/parse", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
