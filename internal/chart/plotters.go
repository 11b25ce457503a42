package chart

import (
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// panel fills the data area, giving the darkgrid background behind the grid.
type panel struct {
	color color.Color
}

func (p panel) Plot(c draw.Canvas, _ *plot.Plot) {
	r := c.Rectangle
	c.FillPolygon(p.color, []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	})
}

type span struct {
	start, end float64
	lane       float64
	color      color.Color
}

// gantt draws horizontal bars centered on their lanes.
type gantt struct {
	spans     []span
	thickness float64
}

func (g *gantt) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := g.thickness / 2
	for _, s := range g.spans {
		pts := c.ClipPolygonXY([]vg.Point{
			{X: trX(s.start), Y: trY(s.lane - half)},
			{X: trX(s.end), Y: trY(s.lane - half)},
			{X: trX(s.end), Y: trY(s.lane + half)},
			{X: trX(s.start), Y: trY(s.lane + half)},
		})
		if len(pts) == 0 {
			continue
		}
		c.FillPolygon(s.color, pts)
	}
}

type mark struct {
	x, y float64
	img  image.Image
}

// coverMarks draws images of a fixed physical height centered on data
// points. Marks whose anchor lies outside the data area are not drawn.
type coverMarks struct {
	marks  []mark
	height vg.Length
}

func (m *coverMarks) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, mk := range m.marks {
		center := vg.Point{X: trX(mk.x), Y: trY(mk.y)}
		if !c.Contains(center) {
			continue
		}
		b := mk.img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			continue
		}
		h := m.height
		w := h * vg.Length(b.Dx()) / vg.Length(b.Dy())
		c.DrawImage(vg.Rectangle{
			Min: vg.Point{X: center.X - w/2, Y: center.Y - h/2},
			Max: vg.Point{X: center.X + w/2, Y: center.Y + h/2},
		}, mk.img)
	}
}
