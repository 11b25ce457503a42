package chart

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	xfont "golang.org/x/image/font"
)

// Typeface is the only font family bundled with the plot font cache.
const Typeface font.Typeface = "Liberation"

// Default genre colors (matplotlib tab:cyan, tab:orange, tab:purple).
const (
	ColorNonfiction = "#17becf"
	ColorFiction    = "#ff7f0e"
	ColorTechnical  = "#9467bd"
)

// Style carries everything the renderer needs to know about fonts, colors
// and geometry. Nothing is read from package-level plotting defaults.
type Style struct {
	Width  vg.Length
	Height vg.Length

	// TitleFormat receives the year as its only argument.
	TitleFormat  string
	TitleFont    font.Font
	TitlePadding vg.Length

	MonthFont     font.Font
	MonthRotation float64 // radians
	LabelFont     font.Font

	// BarThickness is measured in lane units.
	BarThickness float64
	// CoverOffsetDays is how far left of the bar start a cover is centered.
	CoverOffsetDays float64
	CoverHeight     vg.Length

	Background color.Color
	GridColor  color.Color

	GenreColors map[string]color.Color
}

// DefaultStyle returns the 25.6x19.2 inch darkgrid look.
func DefaultStyle() Style {
	return Style{
		Width:        25.6 * vg.Inch,
		Height:       19.2 * vg.Inch,
		TitleFormat:  "Books Read in the Year %d",
		TitleFont:    Font("Sans", false, true, 36),
		TitlePadding: vg.Points(30),

		MonthFont:     Font("Sans", false, true, 18),
		MonthRotation: Degrees(45),
		LabelFont:     Font("Sans", true, true, 18),

		BarThickness:    0.4,
		CoverOffsetDays: 9,
		CoverHeight:     vg.Points(54),

		Background: mustColor("#eaeaf2"),
		GridColor:  color.White,

		GenreColors: map[string]color.Color{
			"Nonfiction": mustColor(ColorNonfiction),
			"Fiction":    mustColor(ColorFiction),
			"Technical":  mustColor(ColorTechnical),
		},
	}
}

// Font builds a Liberation font descriptor.
func Font(variant string, italic, bold bool, points float64) font.Font {
	f := font.Font{
		Typeface: Typeface,
		Variant:  font.Variant(variant),
		Size:     vg.Points(points),
	}
	if italic {
		f.Style = xfont.StyleItalic
	}
	if bold {
		f.Weight = xfont.WeightBold
	}
	return f
}

// Degrees converts an angle to radians.
func Degrees(d float64) float64 {
	return d * math.Pi / 180
}

// ParseColor parses a "#rrggbb" string.
func ParseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("chart: color %q: %w", hex, err)
	}
	return c, nil
}

func mustColor(hex string) color.Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
