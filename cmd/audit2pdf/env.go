package main

import (
	"io"
	"os"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewConverter builds the rasterizer for a loaded config.
	NewConverter func(*config.Config) (audit2pdf.Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		NewConverter: newEngine,
	}
}

// newEngine resolves the browser strategy once and bounds concurrent
// sessions.
func newEngine(cfg *config.Config) (audit2pdf.Converter, error) {
	strategy, err := audit2pdf.NewStrategy(cfg.Browser.Mode, cfg.Browser.Bin)
	if err != nil {
		return nil, err
	}
	return audit2pdf.NewEngine(strategy, audit2pdf.WithSessionLimit(cfg.Browser.MaxSessions)), nil
}
