// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veleda/muninn/internal/api"
	"github.com/veleda/muninn/internal/build"
	"github.com/veleda/muninn/internal/convert"
	"github.com/veleda/muninn/internal/index"
	"github.com/veleda/muninn/internal/mcpserver"
	"github.com/veleda/muninn/internal/sse"
	"github.com/veleda/muninn/internal/storage"
	"github.com/veleda/muninn/internal/watch"
)

// setup applies options and prepares the pieces every mode needs.
func setup(opts []Option) (*application, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// Structured JSON logger on stderr; stdout stays clean for the MCP
	// stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if app.converter == nil {
		app.converter = convert.NewPandoc(app.config.Build.PandocPath)
	}
	return app, logger, nil
}

func (app *application) siteStore() (storage.Provider, error) {
	store, err := storage.NewFS(app.config.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func (app *application) newBuilder(store storage.Provider, logger *slog.Logger) *build.Builder {
	cfg := app.config
	return build.New(store, app.converter, logger, build.Options{
		StagingDir:  cfg.Site.StagingPath(),
		OutputDir:   cfg.Site.OutputDir,
		Title:       cfg.Site.Title,
		Theme:       cfg.Site.Theme,
		CSS:         cfg.Site.CSS,
		Jobs:        cfg.Build.Jobs,
		OnCollision: cfg.Build.OnCollision,
	})
}

// refreshIndex brings the search index in line with the generated pages.
// Index trouble never fails a build; search just goes stale.
func (app *application) refreshIndex(db *index.DB, store storage.Provider, logger *slog.Logger) {
	if err := index.Sync(db, store, app.config.Site.OutputDir, logger); err != nil {
		logger.Warn("index sync failed", slog.String("error", err.Error()))
	}
}

// rebuild runs one build plus index refresh, reporting through the broker
// when one is attached.
func (app *application) rebuild(ctx context.Context, b *build.Builder, db *index.DB, store storage.Provider, logger *slog.Logger, broker *sse.Broker) {
	if broker != nil {
		broker.PublishBuildEvent("started", map[string]string{})
	}
	stats, err := b.Run(ctx)
	if err != nil {
		logger.Error("rebuild failed", slog.String("error", err.Error()))
		if broker != nil {
			broker.PublishBuildEvent("failed", map[string]string{"error": err.Error()})
		}
		return
	}
	app.refreshIndex(db, store, logger)
	logger.Info("rebuild complete",
		slog.Int("notes", stats.Notes),
		slog.Int("topics", stats.Topics),
		slog.Int("collisions", stats.Collisions))
	if broker != nil {
		broker.PublishBuildEvent("finished", stats)
	}
}

// RunBuild executes one full build of the site and refreshes the search
// index.
func RunBuild(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	store, err := app.siteStore()
	if err != nil {
		return err
	}

	b := app.newBuilder(store, logger)
	stats, err := b.Run(ctx)
	if err != nil {
		return err
	}

	db, err := index.Open(app.config.Index.Path)
	if err != nil {
		logger.Warn("index open failed", slog.String("error", err.Error()))
	} else {
		defer db.Close()
		app.refreshIndex(db, store, logger)
	}

	logger.Info("build complete",
		slog.Int("notes", stats.Notes),
		slog.Int("topics", stats.Topics),
		slog.Int("collisions", stats.Collisions))
	return nil
}

// RunWatch builds once, then rebuilds whenever the staging tree changes,
// until interrupted. The initial build must succeed; later failures are
// logged and the watcher keeps going.
func RunWatch(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	store, err := app.siteStore()
	if err != nil {
		return err
	}
	db, err := index.Open(app.config.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	b := app.newBuilder(store, logger)
	stats, err := b.Run(ctx)
	if err != nil {
		return err
	}
	app.refreshIndex(db, store, logger)
	logger.Info("build complete", slog.Int("notes", stats.Notes), slog.Int("topics", stats.Topics))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watch.Run(ctx, app.config.Site.StagingPath(), 0, logger, func() {
		app.rebuild(ctx, b, db, store, logger, nil)
	})
}

// RunServe builds once, then serves the generated site with the preview
// API, SSE build events, and watcher-driven rebuilds.
func RunServe(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	store, err := app.siteStore()
	if err != nil {
		return err
	}
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	b := app.newBuilder(store, logger)
	stats, err := b.Run(ctx)
	if err != nil {
		return err
	}
	app.refreshIndex(db, store, logger)
	logger.Info("build complete", slog.Int("notes", stats.Notes), slog.Int("topics", stats.Topics))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// API service and router.
	svc := api.NewService(store, db)
	apiRouter := api.NewRouter(svc, cfg.Serve.Auth.AuthEnabled(), cfg.Serve.Auth.Token, broker)

	// Root router: health, API, and the generated site itself.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Static preview of the site root: index.qmd, _quarto.yml, the pages
	// and their copied assets.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Site.Root)))

	httpServer := &http.Server{
		Addr:    cfg.Serve.Address(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Rebuild on staging changes, announcing over SSE.
	g.Go(func() error {
		return watch.Run(gCtx, cfg.Site.StagingPath(), 0, logger, func() {
			app.rebuild(gCtx, b, db, store, logger, broker)
		})
	})

	// Serve HTTP.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.Serve.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Shut the server down when the group context ends, whether from a
	// signal or a failed sibling.
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP refreshes the index and serves the MCP stdio transport until the
// client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app, logger, err := setup(opts)
	if err != nil {
		return err
	}
	store, err := app.siteStore()
	if err != nil {
		return err
	}
	db, err := index.Open(app.config.Index.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	app.refreshIndex(db, store, logger)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(store, db).ServeStdio()
}
