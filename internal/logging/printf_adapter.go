// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// PrintfLogger adapts zerolog to the printf-style logger interface used by
// BadgerDB (Errorf, Warningf, Infof, Debugf).
//
// Badger reports routine compaction and replay progress at info level, so
// Infof is demoted to debug to keep the interactive console quiet.
//
// Usage:
//
//	opts := badger.DefaultOptions(path)
//	opts.Logger = logging.NewPrintfLogger(logging.WithComponent("badger"))
type PrintfLogger struct {
	logger zerolog.Logger
}

// NewPrintfLogger wraps logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPrintfLogger(logger zerolog.Logger) *PrintfLogger {
	return &PrintfLogger{logger: logger}
}

// Errorf logs at error level.
func (l *PrintfLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(trimNewline(format), args...)
}

// Warningf logs at warn level.
func (l *PrintfLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(trimNewline(format), args...)
}

// Infof logs at debug level.
func (l *PrintfLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(trimNewline(format), args...)
}

// Debugf logs at trace level.
func (l *PrintfLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(trimNewline(format), args...)
}

// trimNewline drops the trailing newline printf-style loggers often append.
func trimNewline(format string) string {
	return strings.TrimRight(format, "\n")
}
