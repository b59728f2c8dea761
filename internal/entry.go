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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/api"
	"github.com/starford/neuronpad/internal/apperr"
	"github.com/starford/neuronpad/internal/mcpserver"
	"github.com/starford/neuronpad/internal/noteservice"
	"github.com/starford/neuronpad/internal/notestore"
	"github.com/starford/neuronpad/internal/sse"
	"github.com/starford/neuronpad/internal/storage"
	"github.com/starford/neuronpad/internal/watch"
)

// components is the wired domain graph shared by the HTTP and MCP front ends.
type components struct {
	records storage.Provider
	store   *notestore.Store
	service *noteservice.Service
	gateway ai.Gateway
}

func (a *application) build(logger *slog.Logger, events noteservice.EventFunc) (*components, error) {
	cfg := a.config

	records, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	opts := []noteservice.Option{}
	if events != nil {
		opts = append(opts, noteservice.WithEvents(events))
	}
	store := notestore.New(records, logger)
	svc := noteservice.NewService(store, opts...)

	gemini := ai.NewGemini(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, nil)
	if cfg.AI.APIKey == "" {
		logger.Warn("ai: api_key is not set, transform routes will fail")
	}

	return &components{
		records: records,
		store:   store,
		service: svc,
		gateway: ai.NewTransformer(gemini, cfg.AI.Strict, logger),
	}, nil
}

func (a *application) logger(def io.Writer) *slog.Logger {
	w := a.logOutput
	if w == nil {
		w = def
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger(os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("ai_model", cfg.AI.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Counts are only requested after a note event, by which time svc is set.
	var svc *noteservice.Service
	broker := sse.NewBroker(2*time.Second, func() any {
		return svc.Counts(context.Background())
	})
	defer broker.Close()

	c, err := app.build(logger, broker.PublishNoteEvent)
	if err != nil {
		return err
	}
	defer c.records.Close()
	svc = c.service

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
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := c.records.Get(req.Context(), storage.KeyAuth); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(c.service, c.gateway, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}
	// Open event streams would otherwise hold Shutdown until its timeout.
	httpServer.RegisterOnShutdown(broker.Close)

	g, gCtx := errgroup.WithContext(ctx)

	// External edits to the collection file.
	if fs, ok := c.records.(*storage.FS); ok && cfg.Storage.Watch {
		file, err := fs.PathFor(storage.KeyNotes)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watch.Watch(gCtx, file, logger, externalChanges(c.store, broker))
		})
	}

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// externalChanges broadcasts collection.changed for writes to the collection
// file that this process did not make itself.
func externalChanges(store *notestore.Store, broker *sse.Broker) watch.ChangeFunc {
	return func(sum string) {
		if store.OwnWrite(sum) {
			return
		}
		broker.Publish(sse.Event{
			Type: sse.TypeCollectionChanged,
			Data: map[string]string{"checksum": sum},
		})
	}
}

// RunMCP serves the MCP tool server over stdin/stdout until the client disconnects.
// Logs go to stderr so they do not corrupt the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger(os.Stderr)

	c, err := app.build(logger, nil)
	if err != nil {
		return err
	}
	defer c.records.Close()

	logger.Info("MCP server starting on stdio",
		slog.String("storage_driver", app.config.Storage.Driver),
		slog.String("storage_path", app.config.Storage.Path))

	return mcpserver.New(c.service, c.gateway).ServeStdio()
}
