package main

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/alnah/go-audit2pdf/internal/config"
)

// newLogger builds the root logger. Invalid levels were rejected by
// config validation; info is used if one slips through.
func newLogger(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// spanLogger exports finished spans as debug log lines.
type spanLogger struct {
	logger zerolog.Logger
}

var _ sdktrace.SpanExporter = spanLogger{}

func (e spanLogger) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		ev := e.logger.Debug().
			Str("span", s.Name()).
			Str("trace_id", s.SpanContext().TraceID().String()).
			Dur("duration", s.EndTime().Sub(s.StartTime()))
		for _, kv := range s.Attributes() {
			ev = ev.Str(string(kv.Key), kv.Value.Emit())
		}
		if st := s.Status(); st.Code == codes.Error {
			ev = ev.Str("error", st.Description)
		}
		ev.Msg("span finished")
	}
	return nil
}

func (spanLogger) Shutdown(context.Context) error { return nil }

// newTracerProvider returns nil unless the logger emits debug lines.
func newTracerProvider(logger zerolog.Logger) *sdktrace.TracerProvider {
	if logger.GetLevel() > zerolog.DebugLevel {
		return nil
	}
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanLogger{logger: logger}))
}
