package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/fileutil"
	"github.com/alnah/go-audit2pdf/internal/hints"
)

// File permission constants.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// Sentinel errors for the render command.
var (
	ErrReadInput     = errors.New("failed to read input")
	ErrInputTooLarge = errors.New("input too large")
	ErrWriteOutput   = errors.New("failed to write output")
)

// stdio names standard input or output in place of a path.
const stdio = "-"

type renderOptions struct {
	output   string
	htmlOnly bool
}

func newRenderCmd(env *Environment, opts *rootOptions) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [report.json]",
		Short: "Render one report file to PDF",
		Long: "Render reads a report from a file, or from stdin when the path is omitted or \"-\",\n" +
			"and writes seo-audit-<domain>.pdf unless --output says otherwise.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.Flags())
			if err != nil {
				return err
			}
			input := stdio
			if len(args) == 1 {
				input = args[0]
			}
			return runRender(cmd, env, cfg, input, ro)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ro.output, "output", "o", "", "output path, \"-\" for stdout")
	f.BoolVar(&ro.htmlOnly, "html", false, "write the HTML document instead of the PDF")
	f.Int64("max-body-bytes", config.DefaultMaxBodyBytes, "reject reports larger than this")
	addBrowserFlags(f)

	return cmd
}

func runRender(cmd *cobra.Command, env *Environment, cfg *config.Config, input string, ro *renderOptions) error {
	logger := newLogger(cfg.Log, env.Stderr)
	ctx, stop := notifyContext(logger.WithContext(cmd.Context()))
	defer stop()

	body, err := readInput(env.Stdin, input, cfg.Server.MaxBodyBytes)
	if err != nil {
		return err
	}

	gen, shutdown, err := buildGenerator(cfg, env, logger)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	report, err := gen.Parse(ctx, body)
	if err != nil {
		return err
	}

	var out []byte
	outPath := ro.output
	if ro.htmlOnly {
		out = []byte(gen.HTML(ctx, report))
		if outPath == "" {
			outPath = strings.TrimSuffix(audit2pdf.ASCIIFilename(report.Domain), ".pdf") + ".html"
		}
	} else {
		out, err = gen.PDF(ctx, report)
		if err != nil {
			return withRenderHint(err, cfg.Browser.Mode)
		}
		if outPath == "" {
			outPath = audit2pdf.ASCIIFilename(report.Domain)
		}
	}

	if err := writeOutput(env.Stdout, outPath, out); err != nil {
		return err
	}

	logger.Info().
		Str("domain", report.Domain).
		Str("output", outPath).
		Int("bytes", len(out)).
		Msg("report written")
	return nil
}

// readInput reads at most maxBytes from path, or from stdin for "-".
func readInput(stdin io.Reader, path string, maxBytes int64) ([]byte, error) {
	r := stdin
	if path != stdio {
		f, err := os.Open(path) // #nosec G304 -- path is user-provided CLI input
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes%s", ErrInputTooLarge, path, maxBytes, hints.ForBodyTooLarge(maxBytes))
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == stdio {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// withRenderHint appends an actionable hint to browser failures.
func withRenderHint(err error, mode string) error {
	switch {
	case errors.Is(err, audit2pdf.ErrLoadTimeout):
		return fmt.Errorf("%w%s", err, hints.ForLoadTimeout())
	case errors.Is(err, audit2pdf.ErrBrowserConnect):
		if h := hints.ForBrowserConnect(mode); h != "" {
			return fmt.Errorf("%w%s", err, h)
		}
	}
	return err
}
