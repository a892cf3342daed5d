package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/starford/vision2ui/internal/component"
	"github.com/starford/vision2ui/internal/metrics"
	"github.com/starford/vision2ui/internal/prompts"
)

// RouterConfig carries the optional parts of the API router.
type RouterConfig struct {
	// CORSOrigins lists allowed origins; empty means "*".
	CORSOrigins []string
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
	// Metrics, if non-nil, instruments every route and is exposed at MetricsPath.
	Metrics     *metrics.Metrics
	MetricsPath string
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(store *component.Store, docs *prompts.Docs, cfg RouterConfig) chi.Router {
	h := NewHandler(store, docs)

	r := chi.NewRouter()
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins)))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/", h.Info)
	r.Get("/health", h.Health)

	// Components.
	r.Get("/components", h.ListComponents)
	r.Post("/components/upload", h.UploadComponent)
	r.Get("/components/{name}", h.GetComponent)
	r.Get("/components/{name}/exists", h.ComponentExists)
	r.Get("/components/{name}/info", h.ComponentInfo)

	// Static reference documents.
	r.Get("/prompts/metadata-generation", h.MetadataPrompt)
	r.Get("/prompts/usage-guide", h.UsageGuide)

	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, cfg.Metrics.Handler())
	}

	return r
}

// corsOptions allows credentials for the configured origins. A "*" entry (or
// no entry) allows any origin, echoed back verbatim because browsers reject a
// literal "*" on credentialed requests.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		opts.AllowOriginFunc = func(_ *http.Request, origin string) bool { return origin != "" }
		return opts
	}
	opts.AllowedOrigins = origins
	return opts
}
