// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logx holds the shared zerolog logger for hwpx-convert.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the shared logger used throughout the project.
var Log = log.Logger

// Configure sets the global log level and writes human-readable logs to stderr.
func Configure(level string) {
	ConfigureWriter(level, os.Stderr)
}

// ConfigureWriter is Configure with an explicit destination.
func ConfigureWriter(level string, w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	Log = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}).With().Timestamp().Logger()
}

// ParseLevel converts a string to a zerolog level.
// Accepts: all, trace, debug, info, warn, warning, error, fatal, none.
// Unknown values default to warn so that normal runs only print status lines.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "all", "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

func init() {
	Configure(os.Getenv("HWPX_CONVERT_LOG_LEVEL"))
}
