// Package chart draws a laid-out reading timeline with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/starford/readlog/internal/apperr"
	"github.com/starford/readlog/internal/models"
	"github.com/starford/readlog/internal/timeline"
)

// CoverSource resolves a cover image by ISBN.
type CoverSource interface {
	Cover(isbn string) (image.Image, error)
}

// Label returns the multi-line y-axis label of a reading.
func Label(r models.Reading) string {
	return fmt.Sprintf("%s\n%s - %s\n(%d pages)", r.Title, r.Author, r.Genre, r.Pages)
}

// Render builds the timeline plot. An unknown genre or a missing cover aborts
// the whole chart.
func Render(bars []timeline.Bar, w timeline.Window, covers CoverSource, st Style) (*plot.Plot, error) {
	g, cm, lanes, err := layers(bars, covers, st)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf(st.TitleFormat, w.Year)
	p.Title.TextStyle.Font = st.TitleFont
	p.Title.Padding = st.TitlePadding

	grid := plotter.NewGrid()
	grid.Vertical.Color = st.GridColor
	grid.Horizontal.Color = st.GridColor
	grid.Vertical.Width = vg.Points(1)
	grid.Horizontal.Width = vg.Points(1)

	p.Add(panel{color: st.Background}, grid, g, cm)

	names := timeline.MonthNames()
	months := make([]plot.Tick, 0, len(names))
	for i, name := range names {
		months = append(months, plot.Tick{Value: float64(w.MonthStarts[i]), Label: name})
	}
	p.X.Min = 1
	p.X.Max = float64(w.Days)
	p.X.Tick.Marker = plot.ConstantTicks(months)
	p.X.Tick.Label.Font = st.MonthFont
	p.X.Tick.Label.Rotation = st.MonthRotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Y.Min = 0
	p.Y.Max = float64(len(bars) + 1)
	p.Y.Tick.Marker = plot.ConstantTicks(lanes)
	p.Y.Tick.Label.Font = st.LabelFont

	return p, nil
}

// layers resolves colors and covers for every bar.
func layers(bars []timeline.Bar, covers CoverSource, st Style) (*gantt, *coverMarks, []plot.Tick, error) {
	g := &gantt{thickness: st.BarThickness}
	cm := &coverMarks{height: st.CoverHeight}
	lanes := make([]plot.Tick, 0, len(bars))

	for _, b := range bars {
		r := b.Reading
		clr, ok := st.GenreColors[r.Genre]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: %q (%s)", apperr.ErrUnknownGenre, r.Genre, r.Title)
		}
		img, err := covers.Cover(r.ISBN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("chart: %s: %w", r.Title, err)
		}

		lane := float64(b.Lane)
		g.spans = append(g.spans, span{
			start: float64(b.StartDay),
			end:   float64(b.StartDay + b.Duration),
			lane:  lane,
			color: clr,
		})
		cm.marks = append(cm.marks, mark{
			x:   float64(b.StartDay) - st.CoverOffsetDays,
			y:   lane,
			img: img,
		})
		lanes = append(lanes, plot.Tick{Value: lane, Label: Label(r)})
	}
	return g, cm, lanes, nil
}

// EncodePNG renders p at the style's figure size.
func EncodePNG(p *plot.Plot, st Style) ([]byte, error) {
	wt, err := p.WriterTo(st.Width, st.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
