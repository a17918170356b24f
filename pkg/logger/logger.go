package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

var Logger zerolog.Logger

// Init configures the global logger for a service. Development mode switches
// to the human-readable console writer.
func Init(serviceName string, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	Logger = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	log.Logger = Logger
}

// WithContext returns a logger annotated with the trace and span IDs of the
// active span, if any.
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Logger
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		l = l.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}
	return &l
}

func Info(ctx context.Context) *zerolog.Event  { return WithContext(ctx).Info() }
func Warn(ctx context.Context) *zerolog.Event  { return WithContext(ctx).Warn() }
func Error(ctx context.Context) *zerolog.Event { return WithContext(ctx).Error() }
func Debug(ctx context.Context) *zerolog.Event { return WithContext(ctx).Debug() }

// SetLevel sets the global log level from its string name.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
