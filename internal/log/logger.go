package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func New(environment string) zerolog.Logger {
	return NewWithWriter(os.Stdout, environment)
}

// NewWithWriter logs at debug outside production and at info inside it.
func NewWithWriter(out io.Writer, environment string) zerolog.Logger {
	if environment == "" {
		environment = "development"
	}
	production := environment == "production"

	level := zerolog.DebugLevel
	if production {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    production,
	}).
		Level(level).
		With().
		Timestamp().
		Str("env", environment).
		Logger()
}
