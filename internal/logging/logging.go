// Package logging builds the zerolog loggers used across the service.
package logging

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// New creates a logger writing to w at the given level. When pretty is set, a human readable
// console writer is used instead of JSON.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewDefault creates an info level JSON logger writing to stdout.
func NewDefault() zerolog.Logger {
	return New(os.Stdout, "info", false)
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// PrintlnInfo logs the given values as an info message.
func PrintlnInfo(logger zerolog.Logger, v ...interface{}) {
	logger.Info().Msg(fmt.Sprint(v...))
}

// PrintlnWarn logs the given values as a warning message.
func PrintlnWarn(logger zerolog.Logger, v ...interface{}) {
	logger.Warn().Msg(fmt.Sprint(v...))
}

// PrintlnError logs the given values as an error message.
func PrintlnError(logger zerolog.Logger, v ...interface{}) {
	logger.Error().Msg(fmt.Sprint(v...))
}

// RequestError logs err tagged with the request id and route of r.
func RequestError(logger zerolog.Logger, r *http.Request, err error) {
	logger.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Send()
}
