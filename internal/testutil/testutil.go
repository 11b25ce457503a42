// Package testutil provides shared test helpers for writing reading logs and
// cover images into temporary directories.
package testutil

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteLog writes content as a reading log into a fresh temp dir and returns
// its path.
func WriteLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book_reading_log.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// CoverDir creates a temp covers directory holding a small JPEG for every
// isbn.
func CoverDir(t *testing.T, isbns ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, isbn := range isbns {
		WriteCover(t, dir, isbn)
	}
	return dir
}

// WriteCover writes a solid 20x30 JPEG named <isbn>.jpg into dir.
func WriteCover(t *testing.T, dir, isbn string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, isbn+".jpg"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}
