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
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/readlog/internal/covers"
	"github.com/starford/readlog/internal/pipeline"
	"github.com/starford/readlog/internal/preview"
	"github.com/starford/readlog/internal/sse"
	"github.com/starford/readlog/internal/storage"
)

// Run renders the timeline for the configured year, either to a PNG file or
// to a local preview server.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(os.Stdout, cfg.App)
	slog.SetDefault(logger)

	year := app.year
	if year == 0 {
		year = time.Now().Year()
	}

	logger.Info("Configuration loaded",
		slog.Int("year", year),
		slog.Bool("display", app.display),
		slog.String("log_path", cfg.Log.Path),
		slog.String("covers_dir", cfg.Covers.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	style, err := cfg.Chart.Style()
	if err != nil {
		return fmt.Errorf("chart style: %w", err)
	}

	coverFiles, err := storage.NewFS(cfg.Covers.Dir)
	if err != nil {
		return fmt.Errorf("init covers: %w", err)
	}
	pipe := pipeline.New(cfg.Log.Path, covers.NewStore(coverFiles, cfg.Covers.Extension), style, logger)

	if app.display {
		return serve(ctx, cfg, pipe, year, logger)
	}
	return writeChart(ctx, cfg, pipe, year, logger)
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func writeChart(ctx context.Context, cfg *Config, pipe *pipeline.Pipeline, year int, logger *slog.Logger) error {
	res, err := pipe.Build(ctx, year)
	if err != nil {
		return err
	}

	out, err := storage.NewFS(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("init output: %w", err)
	}
	name := cfg.Output.FileName(year)
	if err := out.Write(name, res.PNG); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	logger.Info("Chart written",
		slog.String("path", filepath.Join(out.Root(), name)),
		slog.Int("books", len(res.Bars)),
		slog.String("checksum", res.Checksum))
	return nil
}

func serve(ctx context.Context, cfg *Config, pipe *pipeline.Pipeline, year int, logger *slog.Logger) error {
	broker := sse.NewBroker()
	defer broker.Close()

	srv := preview.NewServer(pipe, year, broker, logger)
	if err := srv.Refresh(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Refresh reports its own failures; the last good chart stays up.
		return preview.Watch(gCtx, pipe.LogPath(), cfg.Covers.Dir, preview.DefaultDebounce, logger, func() {
			_ = srv.Refresh(gCtx)
		})
	})

	g.Go(func() error {
		logger.Info("Preview available", slog.String("url", "http://"+cfg.App.HTTP.Address()+"/"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down preview...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Preview error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Preview stopped")
	return nil
}
