package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/server"
)

func newServeCmd(env *Environment, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the PDF generation HTTP API",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cfg, env)
		},
	}

	f := cmd.Flags()
	f.String("addr", config.DefaultAddr, "listen address")
	f.Int64("max-body-bytes", config.DefaultMaxBodyBytes, "reject request bodies larger than this")
	f.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "grace period for in-flight requests")
	addBrowserFlags(f)

	return cmd
}

func runServe(cfg *config.Config, env *Environment) error {
	logger := newLogger(cfg.Log, env.Stdout)

	gen, shutdown, err := buildGenerator(cfg, env, logger)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	api, err := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Generator:       gen,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("browser", cfg.Browser.Mode).
		Int("max_sessions", audit2pdf.ResolveSessionLimit(cfg.Browser.MaxSessions)).
		Int64("max_body_bytes", cfg.Server.MaxBodyBytes).
		Str("version", Version).
		Msg("configured")

	return api.Start()
}

// buildGenerator wires the report pipeline for cfg. The returned function
// flushes pipeline spans and is always non-nil.
func buildGenerator(cfg *config.Config, env *Environment, logger zerolog.Logger) (*audit2pdf.Generator, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	css, err := assets.ReportStyle()
	if err != nil {
		return nil, noop, fmt.Errorf("loading report style: %w", err)
	}

	conv, err := env.NewConverter(cfg)
	if err != nil {
		return nil, noop, err
	}

	var genOpts []audit2pdf.GeneratorOption
	shutdown := noop
	if tp := newTracerProvider(logger); tp != nil {
		genOpts = append(genOpts, audit2pdf.WithTracerProvider(tp))
		shutdown = tp.Shutdown
	}

	return audit2pdf.NewGenerator(audit2pdf.NewRenderer(css), conv, genOpts...), shutdown, nil
}
