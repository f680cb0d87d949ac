package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tessera/internal/config"
	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/pkg/ui"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Preview.Stories = ""
	cfg.Development.HotReload = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *PreviewServer {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, errors.HasErrorType(err, errors.ErrorTypeConfig))
}

func TestNewUsesGivenRegistry(t *testing.T) {
	reg := registry.NewComponentRegistry()
	s, err := New(testConfig(), WithRegistry(reg))
	require.NoError(t, err)

	rec := do(t, s.Handler(), http.MethodGet, "/components", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)
	assert.Equal(t, 5, health.Components)
	assert.Zero(t, health.Clients)
}

func TestComponentsList(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/components", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []registry.ComponentInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"Alert", "AlertDescription", "AlertTitle", "Button", "Tooltip"}, names)
}

func TestIndexLinksEveryComponent(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	for _, name := range []string{"Alert", "AlertDescription", "AlertTitle", "Button", "Tooltip"} {
		assert.Contains(t, body, `href="/component/`+name+`"`)
		assert.Contains(t, body, `href="/playground/`+name+`"`)
	}

	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/nothing/here", "").Code)
}

func TestRenderStatusCodes(t *testing.T) {
	s := newTestServer(t, testConfig())
	h := s.Handler()

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"props", "/render/Button?variant=destructive&children=Go", http.StatusOK, ""},
		{"example", "/render/Button?example=Default", http.StatusOK, ""},
		{"unknown component", "/render/Card", http.StatusNotFound, errors.ErrCodeComponentNotFound},
		{"unknown example", "/render/Button?example=Missing", http.StatusNotFound, errors.ErrCodeComponentNotFound},
		{"unknown prop", "/render/Button?colour=red&children=Go", http.StatusBadRequest, errors.ErrCodeInvalidProp},
		{"unknown variant", "/render/Button?variant=huge&children=Go", http.StatusUnprocessableEntity, errors.ErrCodeUnknownVariant},
		{"missing children", "/render/Alert", http.StatusUnprocessableEntity, errors.ErrCodeMissingChildren},
		{"bad as", "/render/Button?as=div&children=Go", http.StatusUnprocessableEntity, errors.ErrCodeInvalidProp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code == "" {
				return
			}
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRenderFragment(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s.Handler(), http.MethodGet, "/render/Button?variant=outline&size=sm&children=Cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	class, err := ui.ButtonClass.ResolveStrings(map[string]string{"variant": "outline", "size": "sm"}, "")
	require.NoError(t, err)
	assert.Equal(t, `<button class="`+class+`">Cancel</button>`, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestComponentPage(t *testing.T) {
	s := newTestServer(t, testConfig())
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/component/Button", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Button - tessera preview</title>")
	for _, example := range []string{"Default", "Destructive", "Outline small", "Icon", "Disabled", "Link as anchor"} {
		assert.Contains(t, body, ">"+example+"</h2>")
	}

	rec = do(t, h, http.MethodGet, "/component/Button?example=Icon", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Icon</h2>")
	assert.NotContains(t, rec.Body.String(), ">Default</h2>")

	rec = do(t, h, http.MethodGet, "/component/Button?children=Custom", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Custom</button>")

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/component/Card", "").Code)
}

func TestComponentPageShowsErrorOverlay(t *testing.T) {
	cfg := testConfig()
	cfg.Development.ContractChecks = true
	s := newTestServer(t, cfg)
	h := s.Handler()

	// Alert rendered without children fails and is collected.
	rec := do(t, h, http.MethodGet, "/render/Alert?variant=destructive", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, 1, s.collector.Count())

	rec = do(t, h, http.MethodGet, "/component/Alert", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="tessera-error-overlay"`)
	assert.Contains(t, rec.Body.String(), errors.ErrCodeMissingChildren)
}

func TestReportsAPI(t *testing.T) {
	s := newTestServer(t, testConfig())
	h := s.Handler()

	do(t, h, http.MethodGet, "/render/Alert", "")
	do(t, h, http.MethodGet, "/render/Button?variant=huge&children=x", "")

	rec := do(t, h, http.MethodGet, "/api/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reports []errors.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	assert.Len(t, reports, 2)

	rec = do(t, h, http.MethodGet, "/api/reports?component=Alert", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, errors.ErrCodeMissingChildren, reports[0].Code)

	rec = do(t, h, http.MethodDelete, "/api/reports", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, s.collector.Count())
}

func TestMiddlewareHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"https://docs.example.com"}
	s := newTestServer(t, cfg)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://docs.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://docs.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/playground/Button", nil)
	req.Header.Set("Origin", "https://docs.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRecoverMiddleware(t *testing.T) {
	s := newTestServer(t, testConfig())
	h := s.recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, s.collector.Count())
	assert.Equal(t, errors.ErrorTypeInternal, s.collector.Reports()[0].Type)
}

func TestLoadStories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stories.yml")

	cfg := testConfig()
	cfg.Preview.Stories = path
	s := newTestServer(t, cfg)
	ctx := context.Background()

	// A missing file is an empty set of stories.
	require.NoError(t, s.loadStories(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`components:
  Button:
    - name: Save
      props:
        variant: secondary
        children: Save
`), 0o644))
	require.NoError(t, s.loadStories(ctx))

	info, ok := s.registry.Get("Button")
	require.True(t, ok)
	require.Len(t, info.Stories, 1)
	assert.Equal(t, "Save", info.Stories[0].Name)

	rec := do(t, s.Handler(), http.MethodGet, "/render/Button?example=Save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Save</button>")

	// An invalid file keeps the stories already loaded.
	require.NoError(t, os.WriteFile(path, []byte(`components:
  Button:
    - name: Broken
      props:
        variant: huge
`), 0o644))
	require.Error(t, s.loadStories(ctx))
	info, _ = s.registry.Get("Button")
	require.Len(t, info.Stories, 1)
	assert.Equal(t, "Save", info.Stories[0].Name)
	assert.Equal(t, 1, s.collector.Count())

	require.NoError(t, os.Remove(path))
	require.NoError(t, s.loadStories(ctx))
	info, _ = s.registry.Get("Button")
	assert.Empty(t, info.Stories)
}

func TestStartAndShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after its context was cancelled")
	}

	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestStoriesFilters(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"stories.yml", true},
		{"ui/stories.yaml", true},
		{"stories.json", false},
		{".stories.yml.swp", false},
		{"stories.yml~", false},
		{".git/stories.yml", false},
		{"project/.git/refs/stories.yml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			accepted := true
			for _, filter := range storiesFilters {
				accepted = accepted && filter(tt.path)
			}
			assert.Equal(t, tt.expected, accepted)
		})
	}
}
