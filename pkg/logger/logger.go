package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

func init() {
	Init(os.Getenv("ENVIRONMENT"), os.Stdout)
}

// Init rebuilds the package logger. Development gets a console writer and
// debug level; everything else gets JSON at info level.
func Init(environment string, out io.Writer) {
	level := zerolog.InfoLevel
	var w io.Writer = out
	if strings.EqualFold(environment, "development") {
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// L returns the structured logger for call sites that want fields.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := base
	return &l
}

func Info(format string, v ...interface{}) {
	L().Info().Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	L().Error().Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	L().Debug().Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	L().Warn().Msgf(format, v...)
}

// WithComponent tags every line with the emitting component, e.g. "paystack".
func WithComponent(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}
