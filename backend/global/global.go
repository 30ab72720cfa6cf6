package global

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process logger. It writes console output to stderr until
// initialize.SetupLogger points it at the configured sink.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
