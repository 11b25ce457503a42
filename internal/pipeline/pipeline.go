// Package pipeline runs one Load → Filter → Layout → Render pass for a year.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/chart"
	"github.com/starford/readlog/internal/checksum"
	"github.com/starford/readlog/internal/readinglog"
	"github.com/starford/readlog/internal/timeline"
)

// Result is the outcome of one pass.
type Result struct {
	Window   timeline.Window
	Bars     []timeline.Bar
	PNG      []byte
	Checksum string
}

// Pipeline holds the inputs shared by every pass.
type Pipeline struct {
	logPath string
	covers  chart.CoverSource
	style   chart.Style
	logger  *slog.Logger
}

// New creates a pipeline reading logPath and resolving covers through cs.
func New(logPath string, cs chart.CoverSource, style chart.Style, logger *slog.Logger) *Pipeline {
	return &Pipeline{logPath: logPath, covers: cs, style: style, logger: logger}
}

// LogPath returns the reading log location.
func (p *Pipeline) LogPath() string {
	return p.logPath
}

// Build runs a full pass. The context is checked between stages; a
// cancelled context yields apperr.ErrInterrupted and no result.
func (p *Pipeline) Build(ctx context.Context, year int) (*Result, error) {
	p.logger.Info("Parsing reading log", slog.String("path", p.logPath), slog.Int("year", year))
	records, err := readinglog.Load(p.logPath, year, p.logger)
	if err != nil {
		return nil, err
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	window := timeline.NewWindow(year)
	bars := timeline.Layout(records, window)
	p.logger.Info("Timeline laid out", slog.Int("year", year), slog.Int("books", len(bars)))

	plt, err := chart.Render(bars, window, p.covers, p.style)
	if err != nil {
		return nil, err
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	data, err := chart.EncodePNG(plt, p.style)
	if err != nil {
		return nil, err
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	return &Result{
		Window:   window,
		Bars:     bars,
		PNG:      data,
		Checksum: checksum.Sum(data),
	}, nil
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInterrupted, err)
	}
	return nil
}
