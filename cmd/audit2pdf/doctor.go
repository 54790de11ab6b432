package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo holds strategy and Chromium detection results.
type browserInfo struct {
	Strategy     string `json:"strategy"`
	Found        bool   `json:"found"`
	Path         string `json:"path,omitempty"`
	Version      string `json:"version,omitempty"`
	SessionLimit int    `json:"session_limit"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	BrowserBin string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	GOMAXPROCS   int  `json:"gomaxprocs"`
	TempWritable bool `json:"temp_writable"`
}

// browserLocator is implemented by strategies that can resolve their
// Chromium binary without launching it.
type browserLocator interface {
	BrowserPath() (string, bool)
}

// errDoctorFailed carries the exit status of a doctor run with errors.
// Details were already printed.
var errDoctorFailed = errors.New("doctor found problems")

func newDoctorCmd(env *Environment, opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that this host can render PDFs",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, cmd.Flags())
			if err != nil {
				return err
			}

			result := runDoctor(cfg)
			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(result)
			} else {
				printDoctorResult(env.Stdout, result)
			}

			if result.Status == "errors" {
				return errDoctorFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")
	addBrowserFlags(cmd.Flags())

	return cmd
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Container:  hints.IsInContainer(),
			CI:         hints.IsInCI(),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
		System: systemInfo{GOMAXPROCS: runtime.GOMAXPROCS(0)},
	}

	checkBrowser(result, cfg)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkBrowser resolves the configured strategy and its Chromium binary.
func checkBrowser(result *doctorResult, cfg *config.Config) {
	result.Browser.SessionLimit = audit2pdf.ResolveSessionLimit(cfg.Browser.MaxSessions)

	strategy, err := audit2pdf.NewStrategy(cfg.Browser.Mode, cfg.Browser.Bin)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.Browser.Strategy = strategy.Name()

	locator, ok := strategy.(browserLocator)
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("strategy %s cannot be checked without launching it", strategy.Name()))
		return
	}

	path, found := locator.BrowserPath()
	if !found {
		if strategy.Name() == audit2pdf.StrategyLocal && cfg.Browser.Bin == "" {
			// rod can still download a browser on first launch.
			result.Warnings = append(result.Warnings,
				"Chromium not found locally; rod will download one on first render"+hints.ForBrowserConnect(cfg.Browser.Mode))
			return
		}
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chromium not found at %s", cfg.Browser.Bin))
		return
	}

	result.Browser.Found = true
	result.Browser.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- operator-configured binary
	if err == nil {
		result.Browser.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chromium version: %v", err))
	}
}

// checkSystem verifies the temp directory is writable; rod keeps browser
// profiles there.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	if err := fileutil.ProbeWritable(tmpDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "audit2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	fmt.Fprintf(w, "  strategy:      %s\n", r.Browser.Strategy)
	if r.Browser.Found {
		fmt.Fprintf(w, "  path:          %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  version:       %s\n", r.Browser.Version)
		}
	} else {
		fmt.Fprintln(w, "  path:          not found")
	}
	fmt.Fprintf(w, "  session limit: %d\n", r.Browser.SessionLimit)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  platform:      %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  container:     %t\n", r.Env.Container)
	fmt.Fprintf(w, "  ci:            %t\n", r.Env.CI)
	if r.Env.BrowserBin != "" {
		fmt.Fprintf(w, "  ROD_BROWSER_BIN: %s\n", r.Env.BrowserBin)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  GOMAXPROCS:    %d\n", r.System.GOMAXPROCS)
	fmt.Fprintf(w, "  temp writable: %t\n", r.System.TempWritable)

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "\n[WARN] %s\n", warn)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "\n[ERROR] %s\n", e)
	}

	fmt.Fprintf(w, "\nStatus: %s\n", strings.ToUpper(r.Status))
}
