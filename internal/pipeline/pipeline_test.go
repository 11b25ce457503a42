package pipeline

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/chart"
	"github.com/starford/readlog/internal/covers"
	"github.com/starford/readlog/internal/storage"
	"github.com/starford/readlog/internal/testutil"
)

const oneBook = `readings:
  - title: A
    author: Someone
    genre: Fiction
    pages: 200
    isbn: "111"
    started: "2023-01-05"
    finished: "2023-01-15"
`

func newPipeline(t *testing.T, log string, isbns ...string) *Pipeline {
	t.Helper()
	fsys, err := storage.NewFS(testutil.CoverDir(t, isbns...))
	if err != nil {
		t.Fatal(err)
	}
	st := chart.DefaultStyle()
	st.Width = 4 * vg.Inch
	st.Height = 3 * vg.Inch
	return New(testutil.WriteLog(t, log), covers.NewStore(fsys, ""), st, testutil.Logger())
}

func TestBuild_SingleRecordScenario(t *testing.T) {
	p := newPipeline(t, oneBook, "111")
	res, err := p.Build(context.Background(), 2023)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Bars) != 1 {
		t.Fatalf("bars = %d, want 1", len(res.Bars))
	}
	b := res.Bars[0]
	if b.StartDay != 5 || b.EndDay != 15 || b.Duration != 10 || b.Lane != 1 {
		t.Errorf("bar = %+v", b)
	}
	if res.Window.Days != 365 {
		t.Errorf("window days = %d", res.Window.Days)
	}
	if !bytes.HasPrefix(res.PNG, []byte("\x89PNG")) {
		t.Error("result is not a PNG")
	}
	if res.Checksum == "" {
		t.Error("missing checksum")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	p := newPipeline(t, oneBook, "111")
	a, err := p.Build(context.Background(), 2023)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Build(context.Background(), 2023)
	if err != nil {
		t.Fatal(err)
	}
	if a.Checksum != b.Checksum {
		t.Error("identical inputs produced different charts")
	}
	if len(a.Bars) != len(b.Bars) || a.Bars[0] != b.Bars[0] {
		t.Error("identical inputs produced different geometry")
	}
}

func TestBuild_EmptyYearRendersEmptyChart(t *testing.T) {
	p := newPipeline(t, oneBook)
	res, err := p.Build(context.Background(), 2030)
	if err != nil {
		t.Fatalf("empty year should not fail: %v", err)
	}
	if len(res.Bars) != 0 || len(res.PNG) == 0 {
		t.Errorf("bars = %d, png = %d bytes", len(res.Bars), len(res.PNG))
	}
}

func TestBuild_MissingCoverIsFatal(t *testing.T) {
	p := newPipeline(t, oneBook)
	if _, err := p.Build(context.Background(), 2023); !errors.Is(err, apperr.ErrCoverNotFound) {
		t.Fatalf("err = %v, want ErrCoverNotFound", err)
	}
}

func TestBuild_UnknownGenreIsFatal(t *testing.T) {
	log := `readings:
  - title: Verse
    genre: Poetry
    isbn: "9"
    started: "2023-05-01"
    finished: "2023-05-03"
`
	p := newPipeline(t, log, "9")
	if _, err := p.Build(context.Background(), 2023); !errors.Is(err, apperr.ErrUnknownGenre) {
		t.Fatalf("err = %v, want ErrUnknownGenre", err)
	}
}

func TestBuild_MissingLog(t *testing.T) {
	fsys, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := New(filepath.Join(t.TempDir(), "missing.yaml"), covers.NewStore(fsys, ""), chart.DefaultStyle(), testutil.Logger())
	if _, err := p.Build(context.Background(), 2023); !errors.Is(err, apperr.ErrLogNotFound) {
		t.Fatalf("err = %v, want ErrLogNotFound", err)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	p := newPipeline(t, oneBook, "111")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := p.Build(ctx, 2023)
	if !errors.Is(err, apperr.ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if res != nil {
		t.Error("interrupted build returned a result")
	}
}
