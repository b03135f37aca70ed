// Package logger builds the zerolog logger for each runtime environment.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/config"
)

// New returns a logger writing JSON to stdout, or console output in local.
func New(env string) zerolog.Logger {
	return build(env, os.Stdout)
}

func build(env string, out io.Writer) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level := zerolog.InfoLevel
	w := out
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = out
		w = cw
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Str("env", env).
		Logger()
}
