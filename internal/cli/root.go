// Package cli implements the editkit command line.
package cli

import (
	"fmt"

	"github.com/hupe1980/editkit"
	"github.com/hupe1980/editkit/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	LogFormat  string // "text" | "json"

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed log formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the editkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "editkit",
		Short: "editkit - edit a file and hand it to an uploader",
		Long: `editkit edits a single file through a working copy, saves it back on
demand and uploads the saved content without giving up the open file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.LogFormat != "" && !isValidFormat(opts.LogFormat) {
				return fmt.Errorf("invalid log format %q: must be one of %v", opts.LogFormat, ValidFormats)
			}
			return opts.load()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json), overrides the config file")

	// Add subcommands
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))

	return cmd
}

// load reads the config file, if any, and applies flag overrides.
func (o *RootOptions) load() error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	o.Config = cfg
	return nil
}

// logger builds the logger for a command.
func (o *RootOptions) logger() *editkit.Logger {
	if o.Config == nil {
		return editkit.NoopLogger()
	}
	return o.Config.Logger(o.Verbose)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
