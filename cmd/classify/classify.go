// Package classify implements the classify command.
package classify

import (
	"fjacquet/dispute-assist/cmd/common"
	"fjacquet/dispute-assist/cmd/root"
	"fjacquet/dispute-assist/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command.
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify disputes into categories",
	Long: `Classify every dispute in disputes.csv into one of the five categories
using the ordered keyword rules, corroborated against transactions.csv,
and write classified_disputes.csv.`,
	RunE: classifyFunc,
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	classified, err := common.RunClassify(root.Cfg, root.Log)
	if err != nil {
		return err
	}

	root.Log.WithFields(
		logging.Field{Key: "count", Value: len(classified)},
		logging.Field{Key: "output", Value: root.Cfg.Data.OutputDirectory},
	).Info("Classification complete")
	return nil
}
