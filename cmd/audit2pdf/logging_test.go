package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/alnah/go-audit2pdf/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantJSON  bool
		wantLevel zerolog.Level
	}{
		{name: "json info", cfg: config.LogConfig{Level: "info", Format: "json"}, wantJSON: true, wantLevel: zerolog.InfoLevel},
		{name: "console debug", cfg: config.LogConfig{Level: "debug", Format: "console"}, wantLevel: zerolog.DebugLevel},
		{name: "upper case level", cfg: config.LogConfig{Level: "WARN", Format: "json"}, wantJSON: true, wantLevel: zerolog.WarnLevel},
		{name: "invalid level falls back", cfg: config.LogConfig{Level: "verbose", Format: "json"}, wantJSON: true, wantLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)

			if got := logger.GetLevel(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}

			logger.Error().Msg("hello")
			isJSON := json.Valid(bytes.TrimSpace(buf.Bytes()))
			if isJSON != tt.wantJSON {
				t.Errorf("JSON output = %v, want %v: %q", isJSON, tt.wantJSON, buf.String())
			}
			if !strings.Contains(buf.String(), "hello") {
				t.Errorf("output missing message: %q", buf.String())
			}
		})
	}
}

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	t.Run("disabled above debug", func(t *testing.T) {
		t.Parallel()

		logger := zerolog.New(nil).Level(zerolog.InfoLevel)
		if tp := newTracerProvider(logger); tp != nil {
			t.Error("tracer provider created for info level")
		}
	})

	t.Run("logs finished spans", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

		tp := newTracerProvider(logger)
		if tp == nil {
			t.Fatal("tracer provider not created for debug level")
		}

		_, span := tp.Tracer("test").Start(context.Background(), "audit2pdf.render")
		span.SetAttributes(attribute.Int("html.bytes", 42))
		span.SetStatus(codes.Error, "boom")
		span.End()

		if err := tp.Shutdown(context.Background()); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}

		var line map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
			t.Fatalf("invalid log line %q: %v", buf.String(), err)
		}
		if line["span"] != "audit2pdf.render" {
			t.Errorf("span = %v, want audit2pdf.render", line["span"])
		}
		if line["html.bytes"] != "42" {
			t.Errorf("html.bytes = %v, want \"42\"", line["html.bytes"])
		}
		if line["error"] != "boom" {
			t.Errorf("error = %v, want boom", line["error"])
		}
	})
}
