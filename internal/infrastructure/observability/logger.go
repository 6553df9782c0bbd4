package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger initializes the global zerolog logger
func InitLogger(serviceName, env, level string) {
	initLogger(os.Stdout, serviceName, env, level)
}

func initLogger(out io.Writer, serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if env == "development" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	} else {
		log.Logger = zerolog.New(out).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}
}

// LoggerFromContext returns a logger with trace context
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}

// SessionLogger returns the context logger tagged with a session id
func SessionLogger(ctx context.Context, sessionID string) *zerolog.Logger {
	logger := LoggerFromContext(ctx).With().Str("session_id", sessionID).Logger()
	return &logger
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
