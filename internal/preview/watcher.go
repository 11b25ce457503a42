package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch observes the reading log and the cover directory and calls onChange
// once per burst of changes, until ctx is cancelled.
//
// The log's parent directory is watched rather than the file itself, since
// many editors save by writing a new file and renaming it over the old one.
// A cover directory that does not exist yet is ignored.
func Watch(ctx context.Context, logPath, coverDir string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	logAbs, err := filepath.Abs(logPath)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(logAbs)); err != nil {
		return err
	}

	var coverAbs string
	if coverDir != "" {
		abs, err := filepath.Abs(coverDir)
		if err != nil {
			return err
		}
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			if err := w.Add(abs); err != nil {
				return err
			}
			coverAbs = abs
		}
	}

	logger.Info("watcher: started",
		slog.String("log", logAbs),
		slog.String("covers", coverAbs))

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		return name == logAbs || (coverAbs != "" && filepath.Dir(name) == coverAbs)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&^fsnotify.Chmod == 0 || !relevant(ev.Name) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
