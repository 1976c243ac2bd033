// Package resolve implements the resolve command.
package resolve

import (
	"fjacquet/dispute-assist/cmd/common"
	"fjacquet/dispute-assist/cmd/root"
	"fjacquet/dispute-assist/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the resolve command.
var Cmd = &cobra.Command{
	Use:   "resolve",
	Short: "Suggest a resolution action per classified dispute",
	Long: `Apply the resolution decision table to classified_disputes.csv and
write resolutions.csv with one suggested action and justification per
dispute.`,
	RunE: resolveFunc,
}

func resolveFunc(cmd *cobra.Command, args []string) error {
	resolutions, err := common.RunResolve(root.Cfg, root.Log)
	if err != nil {
		return err
	}

	root.Log.WithFields(
		logging.Field{Key: "count", Value: len(resolutions)},
		logging.Field{Key: "output", Value: root.Cfg.Data.OutputDirectory},
	).Info("Resolution suggestions complete")
	return nil
}
