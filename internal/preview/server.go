// Package preview serves the rendered timeline to a local browser and
// re-renders it when the reading log or a cover changes.
package preview

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/readlog/internal/checksum"
	"github.com/starford/readlog/internal/pipeline"
	"github.com/starford/readlog/internal/sse"
	"github.com/starford/readlog/internal/timeline"
)

// Builder produces a chart for a year. *pipeline.Pipeline satisfies it.
type Builder interface {
	Build(ctx context.Context, year int) (*pipeline.Result, error)
}

// Server keeps the latest successful render and the error of the latest
// attempt, if any.
type Server struct {
	builder Builder
	year    int
	broker  *sse.Broker
	logger  *slog.Logger

	mu      sync.RWMutex
	current *pipeline.Result
	lastErr error
}

// NewServer creates a preview server for year.
func NewServer(b Builder, year int, broker *sse.Broker, logger *slog.Logger) *Server {
	return &Server{builder: b, year: year, broker: broker, logger: logger}
}

// Refresh re-renders the chart. On failure the previous chart stays
// available and the error is reported to connected pages.
func (s *Server) Refresh(ctx context.Context) error {
	res, err := s.builder.Build(ctx, s.year)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.current = res
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("preview: render failed", slog.String("error", err.Error()))
		s.broker.PublishFailure(err)
		return err
	}

	s.logger.Info("preview: rendered",
		slog.Int("year", s.year),
		slog.Int("books", len(res.Bars)),
		slog.String("checksum", res.Checksum))
	s.broker.PublishTimeline(sse.TimelineUpdate{
		Year:     s.year,
		Books:    len(res.Bars),
		Checksum: res.Checksum,
	})
	return nil
}

func (s *Server) snapshot() (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.lastErr
}

// Router returns the preview routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.page)
	r.Get("/timeline.png", s.image)
	r.Get("/api/selection", s.selection)
	r.Get("/api/events", s.broker.ServeHTTP)
	return r
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Books Read in {{.Year}}</title>
<style>
body { margin: 0; background: #fafafa; font-family: sans-serif; }
img { display: block; max-width: 100%; height: auto; margin: 0 auto; }
#status { padding: 4px 8px; color: #a00; }
</style>
</head>
<body>
<div id="status">{{.Error}}</div>
<img id="chart" src="/timeline.png?v={{.Checksum}}" alt="Reading timeline {{.Year}}">
<script>
const src = new EventSource("/api/events");
src.addEventListener("timeline.updated", (e) => {
  const d = JSON.parse(e.data);
  document.getElementById("chart").src = "/timeline.png?v=" + d.checksum;
  document.getElementById("status").textContent = "";
});
src.addEventListener("timeline.failed", (e) => {
  document.getElementById("status").textContent = JSON.parse(e.data).error;
});
</script>
</body>
</html>
`))

func (s *Server) page(w http.ResponseWriter, _ *http.Request) {
	res, lastErr := s.snapshot()
	data := struct {
		Year     int
		Checksum string
		Error    string
	}{Year: s.year}
	if res != nil {
		data.Checksum = res.Checksum
	}
	if lastErr != nil {
		data.Error = lastErr.Error()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Error("preview: page render failed", slog.String("error", err.Error()))
	}
}

func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	res, _ := s.snapshot()
	if res == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no chart rendered yet"))
		return
	}
	etag := checksum.ETag(res.Checksum)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

type selectionResponse struct {
	Year     int            `json:"year"`
	Days     int            `json:"days"`
	Checksum string         `json:"checksum"`
	Bars     []timeline.Bar `json:"bars"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) selection(w http.ResponseWriter, _ *http.Request) {
	res, lastErr := s.snapshot()
	if res == nil {
		msg := "no chart rendered yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, errorBody(msg))
		return
	}
	out := selectionResponse{
		Year:     res.Window.Year,
		Days:     res.Window.Days,
		Checksum: res.Checksum,
		Bars:     res.Bars,
	}
	if lastErr != nil {
		out.Error = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, out)
}
