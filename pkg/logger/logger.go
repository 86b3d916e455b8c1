package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// log is the process-wide logger; request loggers derive from it.
var log zerolog.Logger

type ctxKey struct{}

// Init configures the global logger. Development environments get the
// console writer, everything else emits JSON lines.
func Init(env string, logLevel string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(logLevel))

	log = zerolog.New(writerFor(env)).
		With().
		Timestamp().
		Caller().
		Logger()
}

func writerFor(env string) io.Writer {
	switch env {
	case "", "dev", "development":
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	default:
		return os.Stdout
	}
}

// parseLevel accepts zerolog level names plus "warning"; anything else is info.
func parseLevel(name string) zerolog.Level {
	if name == "warning" {
		return zerolog.WarnLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request logger stored in ctx, or the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// WithUserID tags l with the signed-in user.
func WithUserID(l zerolog.Logger, userID string) zerolog.Logger {
	return l.With().Str("user_id", userID).Logger()
}

// WithVisitorID tags l with the storefront visitor id.
func WithVisitorID(l zerolog.Logger, visitorID string) zerolog.Logger {
	return l.With().Str("visitor_id", visitorID).Logger()
}

// DBQuery logs a repository call at debug level, or its failure.
func DBQuery(query string, duration time.Duration, err error) {
	event := log.Debug().
		Str("query", query).
		Dur("duration_ms", duration)

	if err != nil {
		event.Err(err).Msg("DB Query Failed")
	} else {
		event.Msg("DB Query")
	}
}

func ServiceStart(name, version, port string) {
	log.Info().
		Str("service", name).
		Str("version", version).
		Str("port", port).
		Msg("Service Started")
}

func ServiceStop(name string) {
	log.Info().
		Str("service", name).
		Msg("Service Stopped")
}
