// Package root contains the root command for the application.
package root

import (
	"fmt"

	"fjacquet/dispute-assist/internal/config"
	"fjacquet/dispute-assist/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.NopLogger{}

	// Flag overrides for the data locations.
	DataDir   string
	OutputDir string

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "dispute-assist",
		Short: "Classify financial disputes and suggest resolutions.",
		Long: `dispute-assist reads dispute and transaction CSV tables, assigns each
dispute a category via keyword rules corroborated with transaction context,
and suggests a resolution action per dispute. Ad-hoc questions over the
results are answered by the query command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			if DataDir != "" {
				cfg.Data.Directory = DataDir
			}
			if OutputDir != "" {
				cfg.Data.OutputDirectory = OutputDir
			}

			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&DataDir, "data-dir", "d", "", "Directory containing disputes.csv and transactions.csv")
	Cmd.PersistentFlags().StringVarP(&OutputDir, "output-dir", "o", "", "Directory for generated CSV outputs")
}
