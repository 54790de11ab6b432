// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-audit2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// IsInCI reports whether a common CI provider variable is set.
func IsInCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserConnect returns hints for a browser that failed to start.
// mode is the configured strategy name.
func ForBrowserConnect(mode string) string {
	var hints []string

	switch mode {
	case "managed", "serverless":
		hints = append(hints, "managed mode needs --browser-bin (or AUDIT2PDF_BROWSER_BIN) pointing at a Chromium built for short-lived hosts")
	default:
		if (IsInCI() || IsInContainer()) && os.Getenv("ROD_BROWSER_BIN") == "" {
			hints = append(hints, "install chromium in the image and set ROD_BROWSER_BIN")
		}
		if os.Getenv("ROD_BROWSER_BIN") == "" {
			hints = append(hints, "rod downloads Chromium on first run; offline hosts need ROD_BROWSER_BIN")
		}
	}

	return formatHints(hints)
}

// ForLoadTimeout returns a hint for documents that never settled.
func ForLoadTimeout() string {
	return format("the report must finish loading within 30s; an overloaded host slows the browser, try a lower --max-sessions")
}

// ForBodyTooLarge returns a hint for rejected request bodies.
func ForBodyTooLarge(maxBytes int64) string {
	return format(fmt.Sprintf("limit is %d bytes; raise --max-body-bytes or PDF_MAX_BODY_SIZE", maxBytes))
}

// ForConfigNotFound returns a hint for a missing config file.
func ForConfigNotFound(path string) string {
	return format("check the --config path or drop the flag to use defaults: " + path)
}

// ForValidation returns a hint for rejected report documents.
func ForValidation() string {
	return format("each line above is <path>: <problem>; paths index arrays from 0")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
