package cli

import (
	"errors"
	"fmt"

	"github.com/ralt/metalinker/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootOptions carries the global flags and the loaded config to subcommands
type rootOptions struct {
	verbose    bool
	configPath string
	config     *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{config: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "metalinker",
		Short: "Inspect and verify Metalink download descriptors",
		Long: `Metalinker reads Metalink 3.0 (.metalink) and Metalink 4.0 (.meta4)
documents and reports the files, hashes, pieces, mirrors and signatures
they describe.

Supported operations:
  - parse:   print the parsed document (text, json or yaml)
  - mirrors: list and filter the mirrors of every file
  - verify:  check a downloaded file against its hashes and signatures
  - scan:    parse every Metalink file below a directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}

			return opts.loadConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ./"+config.ConfigFileName+")")

	// Add subcommands
	rootCmd.AddCommand(NewParseCmd(opts))
	rootCmd.AddCommand(NewMirrorsCmd(opts))
	rootCmd.AddCommand(NewVerifyCmd(opts))
	rootCmd.AddCommand(NewScanCmd(opts))

	return rootCmd
}

// loadConfig reads the explicit config file, or the default one when present
func (o *rootOptions) loadConfig() error {
	path := o.configPath
	if path == "" {
		path = config.ConfigFileName
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && o.configPath == "" {
			logrus.Debugf("No %s found, using defaults", config.ConfigFileName)
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	logrus.Debugf("Loaded config from %s: %+v", path, *cfg)
	o.config = cfg
	return nil
}

// stringFlag returns the flag value when set on the command line, fallback otherwise
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}
