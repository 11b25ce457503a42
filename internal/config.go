package internal

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/starford/readlog/internal/chart"
	"github.com/starford/readlog/internal/covers"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Log    LogConfig         `yaml:"log"`
	Covers CoversConfig      `yaml:"covers"`
	Output OutputConfig      `yaml:"output"`
	Chart  ChartConfig       `yaml:"chart"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Covers.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Chart.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds the preview server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LogConfig points at the reading log.
type LogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CoversConfig locates cover images: <dir>/<isbn><extension>.
type CoversConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// Validate validates the covers configuration.
func (c *CoversConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Length(2, 8)),
	)
}

// OutputConfig names the rendered chart. Pattern receives the year.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Pattern, validation.Required, validation.By(yearVerb), validation.By(plainName)),
	)
}

// FileName returns the artifact name for year.
func (c *OutputConfig) FileName(year int) string {
	return fmt.Sprintf(c.Pattern, year)
}

// ChartConfig holds the figure geometry, fonts and colors. Sizes are in
// inches (width, height) and points (fonts, padding, cover height).
type ChartConfig struct {
	Width           float64           `yaml:"width"`
	Height          float64           `yaml:"height"`
	TitleFormat     string            `yaml:"title_format"`
	TitleSize       float64           `yaml:"title_size"`
	TitlePadding    float64           `yaml:"title_padding"`
	FontVariant     string            `yaml:"font_variant"`
	MonthSize       float64           `yaml:"month_size"`
	MonthRotation   float64           `yaml:"month_rotation"`
	LabelSize       float64           `yaml:"label_size"`
	BarThickness    float64           `yaml:"bar_thickness"`
	CoverOffsetDays float64           `yaml:"cover_offset_days"`
	CoverHeight     float64           `yaml:"cover_height"`
	Background      string            `yaml:"background"`
	Grid            string            `yaml:"grid"`
	Genres          map[string]string `yaml:"genres"`
}

// UnmarshalYAML decodes over the current values, except that a "genres"
// mapping replaces the default genres instead of extending them.
func (c *ChartConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain ChartConfig
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i].Value == "genres" {
				c.Genres = nil
			}
		}
	}
	return value.Decode((*plain)(c))
}

// Validate validates the chart configuration.
func (c *ChartConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(1.0), validation.Max(100.0)),
		validation.Field(&c.Height, validation.Required, validation.Min(1.0), validation.Max(100.0)),
		validation.Field(&c.TitleFormat, validation.Required, validation.By(yearVerb)),
		validation.Field(&c.TitleSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.FontVariant, validation.Required, validation.In("Sans", "Serif", "Mono")),
		validation.Field(&c.MonthSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.MonthRotation, validation.Min(0.0), validation.Max(90.0)),
		validation.Field(&c.LabelSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.BarThickness, validation.Required, validation.Min(0.05), validation.Max(1.0)),
		validation.Field(&c.CoverOffsetDays, validation.Min(0.0)),
		validation.Field(&c.CoverHeight, validation.Required, validation.Min(1.0)),
		validation.Field(&c.Background, validation.Required, validation.Match(hexColorRe)),
		validation.Field(&c.Grid, validation.Required, validation.Match(hexColorRe)),
		validation.Field(&c.Genres, validation.Required, validation.Each(validation.Required, validation.Match(hexColorRe))),
	)
}

// Style converts the configuration into the renderer's style.
func (c *ChartConfig) Style() (chart.Style, error) {
	bg, err := chart.ParseColor(c.Background)
	if err != nil {
		return chart.Style{}, err
	}
	grid, err := chart.ParseColor(c.Grid)
	if err != nil {
		return chart.Style{}, err
	}
	genres := make(map[string]color.Color, len(c.Genres))
	for name, hex := range c.Genres {
		clr, err := chart.ParseColor(hex)
		if err != nil {
			return chart.Style{}, fmt.Errorf("genre %s: %w", name, err)
		}
		genres[name] = clr
	}

	return chart.Style{
		Width:           vg.Length(c.Width) * vg.Inch,
		Height:          vg.Length(c.Height) * vg.Inch,
		TitleFormat:     c.TitleFormat,
		TitleFont:       chart.Font(c.FontVariant, false, true, c.TitleSize),
		TitlePadding:    vg.Points(c.TitlePadding),
		MonthFont:       chart.Font(c.FontVariant, false, true, c.MonthSize),
		MonthRotation:   chart.Degrees(c.MonthRotation),
		LabelFont:       chart.Font(c.FontVariant, true, true, c.LabelSize),
		BarThickness:    c.BarThickness,
		CoverOffsetDays: c.CoverOffsetDays,
		CoverHeight:     vg.Points(c.CoverHeight),
		Background:      bg,
		GridColor:       grid,
		GenreColors:     genres,
	}, nil
}

func yearVerb(value any) error {
	s, _ := value.(string)
	if strings.Count(s, "%d") != 1 || strings.Count(s, "%") != 1 {
		return errors.New("must contain exactly one %d for the year")
	}
	return nil
}

func plainName(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must be a file name, not a path")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8080,
			},
		},
		Log: LogConfig{
			Path: "book_reading_log.yaml",
		},
		Covers: CoversConfig{
			Dir:       "covers",
			Extension: covers.DefaultExtension,
		},
		Output: OutputConfig{
			Dir:     ".",
			Pattern: "reading_log_%d.png",
		},
		Chart: ChartConfig{
			Width:           25.6,
			Height:          19.2,
			TitleFormat:     "Books Read in the Year %d",
			TitleSize:       36,
			TitlePadding:    30,
			FontVariant:     "Sans",
			MonthSize:       18,
			MonthRotation:   45,
			LabelSize:       18,
			BarThickness:    0.4,
			CoverOffsetDays: 9,
			CoverHeight:     54,
			Background:      "#eaeaf2",
			Grid:            "#ffffff",
			Genres: map[string]string{
				"Nonfiction": chart.ColorNonfiction,
				"Fiction":    chart.ColorFiction,
				"Technical":  chart.ColorTechnical,
			},
		},
	}
}
