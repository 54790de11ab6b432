package main

import (
	"errors"
	"os"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/assets"
	"github.com/alnah/go-audit2pdf/internal/config"
)

// Exit codes for the audit2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or report data
	ExitIO      = 3 // Input not found, output not writable
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, audit2pdf.ErrBrowserConnect) ||
		errors.Is(err, audit2pdf.ErrPageCreate) ||
		errors.Is(err, audit2pdf.ErrPageLoad) ||
		errors.Is(err, audit2pdf.ErrLoadTimeout) ||
		errors.Is(err, audit2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, audit2pdf.ErrInvalidJSON) ||
		errors.Is(err, audit2pdf.ErrValidation) ||
		errors.Is(err, audit2pdf.ErrUnknownStrategy) ||
		errors.Is(err, audit2pdf.ErrMissingBrowser) ||
		errors.Is(err, assets.ErrStyleNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
