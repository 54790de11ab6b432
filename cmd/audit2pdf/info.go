package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-audit2pdf/internal/config"
	"github.com/alnah/go-audit2pdf/internal/yamlutil"
)

func newConfigCmd(env *Environment, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, cmd.Flags())
			if err != nil {
				return err
			}
			out, err := yamlutil.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = env.Stdout.Write(out)
			return err
		},
	}

	f := cmd.Flags()
	f.String("addr", config.DefaultAddr, "listen address")
	f.Int64("max-body-bytes", config.DefaultMaxBodyBytes, "reject request bodies larger than this")
	f.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "grace period for in-flight requests")
	addBrowserFlags(f)

	return cmd
}

func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(env.Stdout, "audit2pdf %s\n", Version)
		},
	}
}
