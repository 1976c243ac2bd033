// Package query implements the query command: predefined and
// natural-language questions over the pipeline outputs.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cmdcommon "fjacquet/dispute-assist/cmd/common"
	"fjacquet/dispute-assist/cmd/root"
	"fjacquet/dispute-assist/internal/nlquery"
	"fjacquet/dispute-assist/internal/query"

	"github.com/spf13/cobra"
)

var (
	queryType string
	category  string
	limit     int
	threshold float64
	days      int
)

// Cmd represents the query command.
var Cmd = &cobra.Command{
	Use:   "query [natural language question]",
	Short: "Answer questions over classified disputes and resolutions",
	Long: `Answer ad-hoc questions over the pipeline outputs. Either pass a
predefined query with --query, or phrase the question in natural language;
free-text questions are translated via the Gemini API when configured and
fall back to local keyword heuristics otherwise.`,
	RunE: queryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&queryType, "query", "q", "", "Predefined query type to execute")
	Cmd.Flags().StringVarP(&category, "category", "c", "", "Dispute category parameter")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum rows for list queries")
	Cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Amount threshold for high-value queries")
	Cmd.Flags().IntVarP(&days, "days", "n", 0, "Day window for daily summaries")
}

func queryFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	logger := root.Log

	csvio := cmdcommon.NewCSVIO(cfg, logger)
	loader := query.NewLoader(cfg.Data.Directory, cfg.Data.OutputDirectory, csvio, logger)
	engine := query.NewEngine(loader, logger)

	parsed, err := resolveQuery(cmd.Context(), args)
	if err != nil {
		return err
	}

	result, err := query.Dispatch(engine, parsed)
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

// resolveQuery builds the structured query either straight from flags or
// by translating the free-text question.
func resolveQuery(ctx context.Context, args []string) (nlquery.ParsedQuery, error) {
	if queryType != "" {
		if _, ok := nlquery.AvailableQueries[queryType]; !ok {
			return nlquery.ParsedQuery{}, fmt.Errorf("unknown query type %q; available: %s",
				queryType, strings.Join(queryTypeNames(), ", "))
		}
		return nlquery.ParsedQuery{
			QueryType: queryType,
			Parameters: nlquery.Parameters{
				Category:  category,
				Limit:     limit,
				Threshold: threshold,
				Days:      days,
			},
			Confidence:  1.0,
			Explanation: "Predefined query selected via flags",
		}, nil
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return nlquery.ParsedQuery{}, fmt.Errorf("provide a question or select a query with --query")
	}

	client := newAIClient(ctx)
	if client != nil {
		defer func() {
			if err := client.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close AI client")
			}
		}()
	}
	translator := nlquery.NewTranslator(client, root.Log)

	timeout := time.Duration(root.Cfg.AI.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return translator.Translate(ctx, question), nil
}

// newAIClient returns a Gemini client when AI translation is enabled and
// configured, and nil otherwise; a nil client selects the local fallback.
func newAIClient(ctx context.Context) nlquery.AIClient {
	cfg := root.Cfg
	if !cfg.AI.Enabled || cfg.AI.APIKey == "" {
		return nil
	}

	client, err := nlquery.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, root.Log)
	if err != nil {
		root.Log.WithError(err).Warn("Gemini client unavailable, using keyword fallback")
		return nil
	}
	return client
}

func queryTypeNames() []string {
	names := make([]string, 0, len(nlquery.AvailableQueries))
	for name := range nlquery.AvailableQueries {
		names = append(names, name)
	}
	return names
}
