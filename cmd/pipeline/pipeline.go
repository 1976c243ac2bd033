// Package pipeline implements the pipeline command, running classification
// and resolution back to back.
package pipeline

import (
	"fjacquet/dispute-assist/cmd/common"
	"fjacquet/dispute-assist/cmd/root"
	"fjacquet/dispute-assist/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the pipeline command.
var Cmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run classification and resolution in one pass",
	Long: `Run the full workflow: classify disputes.csv against transactions.csv,
then derive resolutions from the classified results. Produces
classified_disputes.csv and resolutions.csv.`,
	RunE: pipelineFunc,
}

func pipelineFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Starting dispute pipeline")

	classified, err := common.RunClassify(root.Cfg, root.Log)
	if err != nil {
		return err
	}

	resolutions, err := common.RunResolve(root.Cfg, root.Log)
	if err != nil {
		return err
	}

	root.Log.WithFields(
		logging.Field{Key: "classified", Value: len(classified)},
		logging.Field{Key: "resolutions", Value: len(resolutions)},
		logging.Field{Key: "output", Value: root.Cfg.Data.OutputDirectory},
	).Info("Pipeline completed")
	return nil
}
