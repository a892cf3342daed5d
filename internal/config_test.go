package internal

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vision2ui/internal/metrics"
	"github.com/starford/vision2ui/internal/sse"
	pkgconfig "github.com/starford/vision2ui/pkg/config"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9400", cfg.App.HTTP.Address())
	assert.Equal(t, "./data/components", cfg.Components.Path)
	assert.Equal(t, []string{"*"}, cfg.App.HTTP.CORSOrigins)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.App.HTTP.Port = 70000 }, "app"},
		{"bad log format", func(c *Config) { c.App.LogFormat = "xml" }, "app"},
		{"empty components path", func(c *Config) { c.Components.Path = "" }, "components"},
		{"empty prompts path", func(c *Config) { c.Prompts.Path = "" }, "prompts"},
		{"negative throttle", func(c *Config) { c.Events.Throttle = -time.Second }, "events"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.want+":"), err.Error())
		})
	}
}

func TestConfigEmptyLogFormatDefaultsJSON(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFormat = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, LogFormatJSON, cfg.App.LogFormat)
}

func TestMetricsPathIgnoredWhenDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	t.Setenv("VISION2UI_TEST_DIR", "/srv/components")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  log_level: debug
  log_format: text
  http:
    port: 9000
    cors_origins: ["http://localhost:3000"]
components:
  path: ${VISION2UI_TEST_DIR}
events:
  throttle: 500ms
`), 0o644))

	cfg := NewDefaultConfig()
	require.NoError(t, pkgconfig.Load(path, cfg))

	assert.Equal(t, 9000, cfg.App.HTTP.Port)
	assert.Equal(t, LogFormatText, cfg.App.LogFormat)
	assert.Equal(t, "DEBUG", cfg.App.LogLevel.String())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.HTTP.CORSOrigins)
	assert.Equal(t, "/srv/components", cfg.Components.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Events.Throttle)
	assert.Equal(t, "./prompts", cfg.Prompts.Path, "unset keys keep defaults")
	assert.True(t, cfg.Metrics.Enabled)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, 0, LogFormatJSON).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, 0, LogFormatText).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	NewLogger(&buf, 4, LogFormatJSON).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestNewApplicationRequiresConfig(t *testing.T) {
	_, err := newApplication(nil)
	assert.Error(t, err)

	bad := NewDefaultConfig()
	bad.Components.Path = ""
	_, err = newApplication([]Option{WithConfig(bad)})
	assert.Error(t, err)
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Components.Path = t.TempDir()
	cfg.Prompts.Path = t.TempDir()
	return cfg
}

func TestHandlerHealthProbes(t *testing.T) {
	cfg := testConfig(t)
	store, err := newStore(cfg, slogDiscard())
	require.NoError(t, err)
	h := newHandler(cfg, store, nil, nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}

	require.NoError(t, os.RemoveAll(cfg.Components.Path))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandlerServesCatalog(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Components.Path, "Button-1.0.md"), []byte("# Button"), 0o644))

	m := metrics.New()
	store, err := newStore(cfg, slogDiscard())
	require.NoError(t, err)
	broker := sse.NewBroker(store.List, time.Second, slogDiscard())
	t.Cleanup(broker.Close)
	h := newHandler(cfg, store, broker, m)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/components", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"components":["Button"],"count":1}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
