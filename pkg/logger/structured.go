package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitStructured initializes the structured zerolog logger
func InitStructured(env string) {
	var w io.Writer

	if env == "development" || env == "dev" || env == "local" {
		// Pretty console output for development
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "caption-queue").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// SetOutput redirects the global logger, mainly for tests
func SetOutput(w io.Writer) {
	zlog = zerolog.New(w).With().Timestamp().Logger()
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

