package covers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/storage"
	"github.com/starford/readlog/internal/testutil"
)

func newStore(t *testing.T, dir string) *Store {
	t.Helper()
	fsys, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(fsys, "")
}

func TestCover_Decodes(t *testing.T) {
	s := newStore(t, testutil.CoverDir(t, "111"))
	img, err := s.Cover("111")
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 30 {
		t.Errorf("bounds = %v, want 20x30", b)
	}
}

func TestCover_Missing(t *testing.T) {
	s := newStore(t, testutil.CoverDir(t))
	if _, err := s.Cover("999"); !errors.Is(err, apperr.ErrCoverNotFound) {
		t.Errorf("err = %v, want ErrCoverNotFound", err)
	}
}

func TestCover_EmptyISBN(t *testing.T) {
	s := newStore(t, testutil.CoverDir(t))
	if _, err := s.Cover("  "); !errors.Is(err, apperr.ErrCoverNotFound) {
		t.Errorf("err = %v, want ErrCoverNotFound", err)
	}
}

func TestCover_NotAnImage(t *testing.T) {
	dir := testutil.CoverDir(t)
	if err := os.WriteFile(filepath.Join(dir, "222.jpg"), []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newStore(t, dir)
	_, err := s.Cover("222")
	if err == nil || errors.Is(err, apperr.ErrCoverNotFound) {
		t.Errorf("err = %v, want decode error", err)
	}
}

func TestName_ExtensionNormalised(t *testing.T) {
	fsys, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := NewStore(fsys, "png").Name("42"); got != "42.png" {
		t.Errorf("Name = %q, want 42.png", got)
	}
	if got := NewStore(fsys, "").Name(" 42 "); got != "42.jpg" {
		t.Errorf("Name = %q, want 42.jpg", got)
	}
}
