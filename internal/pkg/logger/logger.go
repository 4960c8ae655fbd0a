package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr or a file path
}

// DefaultConfig returns the configuration used when nothing is set in the environment.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// Setup builds a logger from cfg and installs it as the global zerolog logger.
// The returned closer releases the output file, if any.
func Setup(cfg Config) (zerolog.Logger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out, closer = file, file
	}

	l, err := New(cfg, out)
	if err != nil {
		_ = closer.Close()
		return zerolog.Nop(), nil, err
	}
	log.Logger = l
	return l, closer, nil
}

// New builds a logger writing to out without touching the global one.
func New(cfg Config, out io.Writer) (zerolog.Logger, error) {
	levelName := strings.ToLower(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), err
	}

	if strings.ToLower(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// WithComponent returns a child logger tagged with a component field.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
