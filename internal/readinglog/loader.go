// Package readinglog loads reading records from a YAML log and selects the
// ones that belong to a given year.
package readinglog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/models"
)

const readingsKey = "readings"

// dateLayouts are tried in order. Full timestamps keep only their date part.
// The zoneless forms cover YAML's space-separated timestamps.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// entry mirrors one element of the "readings" sequence before dates are parsed.
type entry struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Genre    string `yaml:"genre"`
	Pages    int    `yaml:"pages"`
	ISBN     string `yaml:"isbn"`
	Started  string `yaml:"started"`
	Finished string `yaml:"finished"`
}

// Load reads the log at path and returns the records relevant to year,
// oldest first. The file is read fully and closed before parsing.
func Load(path string, year int, logger *slog.Logger) ([]models.Reading, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("readinglog: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", apperr.ErrLogNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("readinglog: read %s: %w", path, err)
	}

	records, err := Parse(data, logger)
	if err != nil {
		return nil, err
	}
	return Select(records, year), nil
}

// Parse decodes every entry of the log. Entries that fail to decode or carry
// unusable dates are dropped; only a broken top-level structure is an error.
func Parse(data []byte, logger *slog.Logger) ([]models.Reading, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedLog, err)
	}

	node, ok := doc[readingsKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q list", apperr.ErrMalformedLog, readingsKey)
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: %q must be a list", apperr.ErrMalformedLog, readingsKey)
	}

	out := make([]models.Reading, 0, len(node.Content))
	for i, item := range node.Content {
		r, err := decodeEntry(item)
		if err != nil {
			logger.Debug("readinglog: skipped entry",
				slog.Int("index", i),
				slog.Int("line", item.Line),
				slog.String("reason", err.Error()))
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Select keeps records whose start or finish falls in year and orders them
// chronologically. Records with equal dates keep their log order.
func Select(records []models.Reading, year int) []models.Reading {
	var out []models.Reading
	for _, r := range records {
		if r.InYear(year) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Reading) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		return a.Finished.Compare(b.Finished)
	})
	return out
}

func decodeEntry(n *yaml.Node) (models.Reading, error) {
	var e entry
	if err := n.Decode(&e); err != nil {
		return models.Reading{}, err
	}
	started, err := parseDate(e.Started)
	if err != nil {
		return models.Reading{}, fmt.Errorf("started: %w", err)
	}
	finished, err := parseDate(e.Finished)
	if err != nil {
		return models.Reading{}, fmt.Errorf("finished: %w", err)
	}
	if finished.Before(started) {
		return models.Reading{}, fmt.Errorf("finished %s before started %s",
			finished.Format(time.DateOnly), started.Format(time.DateOnly))
	}
	return models.Reading{
		Title:    e.Title,
		Author:   e.Author,
		Genre:    e.Genre,
		Pages:    e.Pages,
		ISBN:     e.ISBN,
		Started:  started,
		Finished: finished,
	}, nil
}

// parseDate returns the calendar date of s at midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
