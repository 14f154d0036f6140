package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options control the zerolog output.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// Console switches to the human readable writer. It defaults to true
	// when VRPPD_ENV is "dev".
	Console bool
	Out     io.Writer
}

var (
	optsMu sync.RWMutex
	opts   = Options{Console: strings.EqualFold(os.Getenv("VRPPD_ENV"), "dev")}
)

// Configure sets the options used by New. An unknown level is rejected.
func Configure(o Options) error {
	if _, err := parseLevel(o.Level); err != nil {
		return err
	}
	optsMu.Lock()
	opts = o
	optsMu.Unlock()
	return nil
}

func defaultOptions() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger. All logs include the provided
// component field.
func NewZerologLogger(component string, o Options) Logger {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	if o.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	lvl, err := parseLevel(o.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
