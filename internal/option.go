package internal

import "github.com/veleda/muninn/internal/convert"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	converter convert.Converter
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConverter replaces the pandoc converter, e.g. with a fake in tests.
func WithConverter(c convert.Converter) Option {
	return func(a *application) {
		a.converter = c
	}
}
