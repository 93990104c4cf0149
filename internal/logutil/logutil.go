// Package logutil builds the session logger. The terminal belongs to the
// dashboard, so diagnostics go to a file, or nowhere at all.
package logutil

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger appending to path, or a disabled logger when path is
// empty. The file handle lives for the rest of the process.
func New(path string) (zerolog.Logger, error) {
	if path == "" {
		return zerolog.Nop(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(f).With().Timestamp().Caller().Logger(), nil
}
