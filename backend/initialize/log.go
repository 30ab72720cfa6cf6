package initialize

import (
	"io"
	"os"
	"strings"

	"taskmanager/backend/config"
	"taskmanager/backend/global"

	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogger points global.Logger at the configured sink. The returned
// closer releases the log file, if any.
func SetupLogger(cfg config.Log) (io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w, closer = file, file
	}
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, NoColor: cfg.Path != ""}
	}
	global.Logger = zerolog.New(w).With().Timestamp().Logger()
	ApplyLogLevel(cfg.Level)
	return closer, nil
}

// ApplyLogLevel sets the process-wide level; unknown names fall back to info.
func ApplyLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
