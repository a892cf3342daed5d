// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vision2ui/internal/api"
	"github.com/starford/vision2ui/internal/component"
	"github.com/starford/vision2ui/internal/index"
	"github.com/starford/vision2ui/internal/mcpserver"
	"github.com/starford/vision2ui/internal/metrics"
	"github.com/starford/vision2ui/internal/prompts"
	"github.com/starford/vision2ui/internal/sse"
	"github.com/starford/vision2ui/internal/storage"
)

// NewLogger builds the application logger: slog JSON by default, or a
// charmbracelet/log handler for the "text" format.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == LogFormatText {
		h := charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		return slog.New(h)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := NewLogger(a.logOutput, a.config.App.LogLevel, a.config.App.LogFormat)
	slog.SetDefault(logger)
	return logger
}

func newStore(cfg *Config, logger *slog.Logger, opts ...component.Option) (*component.Store, error) {
	docs, err := storage.NewFS(cfg.Components.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	opts = append([]component.Option{component.WithLogger(logger)}, opts...)
	return component.NewStore(docs, opts...), nil
}

// mountHealth registers liveness and readiness endpoints. Readiness requires the
// component directory to be present.
func mountHealth(r chi.Router, componentsDir string) {
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if fi, err := os.Stat(componentsDir); err != nil || !fi.IsDir() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}

// newHandler assembles the HTTP handler tree for the REST server.
func newHandler(cfg *Config, store *component.Store, broker *sse.Broker, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	mountHealth(r, cfg.Components.Path)

	rc := api.RouterConfig{CORSOrigins: cfg.App.HTTP.CORSOrigins}
	if broker != nil {
		rc.Events = broker
	}
	if m != nil {
		rc.Metrics = m
		rc.MetricsPath = cfg.Metrics.Path
	}
	r.Mount("/", api.NewRouter(store, prompts.New(cfg.Prompts.Path), rc))
	return r
}

// Run starts the REST server, and the file watcher when events are enabled.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("components_path", cfg.Components.Path),
		slog.String("prompts_path", cfg.Prompts.Path),
		slog.Bool("events", cfg.Events.Enabled),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure components directory exists.
	if err := os.MkdirAll(cfg.Components.Path, 0o755); err != nil {
		return fmt.Errorf("create components dir: %w", err)
	}

	var (
		m         *metrics.Metrics
		storeOpts []component.Option
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		storeOpts = append(storeOpts, component.WithObserver(m))
	}

	store, err := newStore(cfg, logger, storeOpts...)
	if err != nil {
		return err
	}

	var broker *sse.Broker
	if cfg.Events.Enabled {
		broker = sse.NewBroker(store.List, cfg.Events.Throttle, logger)
		defer broker.Close()
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHandler(cfg, store, broker, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if broker != nil {
		// End SSE streams so Shutdown does not wait on them.
		httpServer.RegisterOnShutdown(broker.Close)
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if broker != nil {
		// Watch the components directory and fan changes out to SSE clients.
		g.Go(func() error {
			err := index.Watch(gCtx, store.Root(), logger, func(kind, filename, name string) {
				broker.NotifyChange(kind, filename, name)
				if m != nil {
					m.ObserveEvent(kind)
				}
			})
			if err != nil {
				logger.Warn("file watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the catalog over MCP on stdin/stdout until ctx is cancelled
// or stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting",
		slog.String("components_path", cfg.Components.Path),
		slog.String("prompts_path", cfg.Prompts.Path))

	srv := mcpserver.New(store, prompts.New(cfg.Prompts.Path), logger)
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// ListComponents returns the names of all indexed components.
func ListComponents(ctx context.Context, opts ...Option) ([]string, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	store, err := newStore(app.config, app.logger())
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// ComponentContent returns the markdown document of one component.
func ComponentContent(ctx context.Context, name string, opts ...Option) (string, error) {
	app, err := newApplication(opts)
	if err != nil {
		return "", err
	}
	store, err := newStore(app.config, app.logger())
	if err != nil {
		return "", err
	}
	return store.Get(ctx, name)
}
