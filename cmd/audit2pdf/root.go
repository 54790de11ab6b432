package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alnah/go-audit2pdf"
	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/hints"
)

// ErrUsage marks invalid flags and arguments.
var ErrUsage = errors.New("invalid usage")

// rootOptions holds persistent flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd(env *Environment) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "audit2pdf",
		Short:         "Render SEO audit reports as PDF",
		Long:          "audit2pdf validates audit report JSON, lays it out as a branded HTML document\nand prints it to A4 PDF through headless Chromium.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", config.DefaultLogFormat, "log format: json or console")

	root.AddCommand(
		newServeCmd(env, opts),
		newRenderCmd(env, opts),
		newDoctorCmd(env, opts),
		newConfigCmd(env, opts),
		newVersionCmd(env),
	)
	return root
}

// runMain executes the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	root := newRootCmd(env)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		printError(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// printError writes err to w. Validation failures get one line per
// violated constraint.
func printError(w io.Writer, err error) {
	var verr *audit2pdf.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, "error: invalid audit data:")
		for _, d := range verr.Details {
			fmt.Fprintf(w, "  %s: %s\n", d.Path, d.Message)
		}
		fmt.Fprintln(w, hints.ForValidation())
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// loadConfig reads the config file named by --config and overlays
// environment variables and the command's flags.
func loadConfig(opts *rootOptions, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, flags)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(opts.configPath))
	}
	return cfg, err
}

// addBrowserFlags registers the flags selecting the rendering strategy.
func addBrowserFlags(f *pflag.FlagSet) {
	f.String("browser", config.DefaultBrowserMode, "browser strategy: local, managed or serverless")
	f.String("browser-bin", "", "Chromium binary (required for managed)")
	f.Int("max-sessions", 0, "concurrent browser sessions (0 = derive from CPU count)")
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// notifyContext returns a context that is canceled when an interrupt
// or termination signal is received. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
