package audit2pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for pipeline operations.
var (
	ErrInvalidJSON = errors.New("invalid JSON body")
	ErrValidation  = errors.New("invalid audit data")

	// Rendering engine errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrLoadTimeout    = errors.New("page did not settle before timeout")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Configuration errors.
	ErrUnknownStrategy = errors.New("unknown browser strategy")
	ErrMissingBrowser  = errors.New("browser binary required")
)

// FieldError is one violated constraint. Path is dot-joined keys and
// indices ("blocks.0.issues.2.severity"), or "root" for the document itself.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every violated constraint found in one pass.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Path + ": " + d.Message
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RenderError reports a rendering engine failure. Op names the failed
// step ("acquire", "launch", "render").
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return "render " + e.Op + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
