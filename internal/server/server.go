// Package server exposes the report pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/alnah/go-audit2pdf"
)

// DefaultShutdownTimeout bounds graceful shutdown when Config leaves it unset.
const DefaultShutdownTimeout = 10 * time.Second

// WebAPI serves the PDF generation endpoints.
type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// Config wires the server to its pipeline.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	Generator       *audit2pdf.Generator
	MeterProvider   metric.MeterProvider // nil records nothing
}

// NewWebAPI builds the router. It fails only if metric instruments cannot
// be created.
func NewWebAPI(logger zerolog.Logger, config Config) (*WebAPI, error) {
	if config.Generator == nil {
		return nil, errors.New("server: generator is required")
	}
	if config.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("server: max body bytes must be positive, got %d", config.MaxBodyBytes)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	mp := config.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	metrics, err := newRequestMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}

	h := &pdfHandler{generator: config.Generator, maxBodyBytes: config.MaxBodyBytes}

	router := chi.NewRouter()

	router.Use(RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.middleware)

	router.Get("/healthz", healthz)
	router.Post("/generate-pdf", h.GeneratePDF)
	router.Post("/api/generate-pdf", h.GeneratePDF)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: config.ShutdownTimeout,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start listens until SIGINT or SIGTERM, then drains in-flight requests.
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		w.logger.Info().Str("signal", sig.String()).Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
