// Package cli implements the ocmhub command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"ocmhub/internal/config"
	"ocmhub/internal/printer"
)

// RootOptions holds the global flags and the state they resolve to.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	LogFormat  string

	Config  config.Config
	Logger  *slog.Logger
	Printer *printer.Printer
	// Now stamps seeded dates; tests freeze it.
	Now func() time.Time
}

// ValidLogFormats lists the accepted --log-format values.
var ValidLogFormats = []string{"text", "json"}

// NewRootCommand creates the ocmhub root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Now: func() time.Time { return time.Now().UTC() }}

	cmd := &cobra.Command{
		Use:   "ocmhub",
		Short: "OCM Hub - entity store for the Williams Racing Technology Hub dashboard",
		Long: `ocmhub serves the dashboard entity store over HTTP, archives its snapshots
and validates seed data sets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json), overrides log.format")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))
	return cmd
}

func (o *RootOptions) init(out, errOut io.Writer) error {
	o.Printer = printer.New(out, errOut)
	if o.LogFormat != "" && !slices.Contains(ValidLogFormats, o.LogFormat) {
		return o.Printer.Error(
			fmt.Sprintf("invalid log format %q", o.LogFormat),
			fmt.Sprintf("--log-format must be one of %v", ValidLogFormats),
		)
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return o.Printer.Error("could not load configuration", err.Error(),
			"check the file passed with --config",
			"check OCMHUB_* environment variables")
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	o.Config = cfg
	o.Logger = newLogger(errOut, cfg)
	return nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
