// Package cmd provides the CLI commands for argos.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shanks-ir/argos/internal/config"
	"github.com/shanks-ir/argos/internal/logging"
	"github.com/shanks-ir/argos/pkg/version"
)

// NewRootCmd creates the root command for the argos CLI.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
		cfg        *config.Config
	)

	cmd := &cobra.Command{
		Use:   "argos",
		Short: "Ad-hoc argument retrieval for the args.me corpus",
		Long: `Argos indexes the args.me argument corpus and answers TREC-style
topics with one of several query composition strategies, writing
rankings in the standard run file format.

Build the index once with 'argos index', then produce run files
with 'argos search'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if logFormat != "" {
				cfg.Logging.Format = logFormat
			}
			logging.Setup(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			return nil
		},
	}

	cmd.SetVersionTemplate("argos version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")

	cmd.AddCommand(newIndexCmd(&cfg))
	cmd.AddCommand(newSearchCmd(&cfg))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
