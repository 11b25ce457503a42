package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	year    int
	display bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithYear selects the year to chart. Zero means the current year.
func WithYear(year int) Option {
	return func(a *application) {
		a.year = year
	}
}

// WithDisplay serves the chart to a local browser instead of writing a file.
func WithDisplay(display bool) Option {
	return func(a *application) {
		a.display = display
	}
}
