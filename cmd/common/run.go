// Package common holds the shared command plumbing: loading input tables,
// assembling the engine from configuration, and writing the output tables.
package common

import (
	"fmt"
	"path/filepath"

	"fjacquet/dispute-assist/internal/classifier"
	"fjacquet/dispute-assist/internal/common"
	"fjacquet/dispute-assist/internal/config"
	"fjacquet/dispute-assist/internal/engine"
	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/query"
	"fjacquet/dispute-assist/internal/resolver"
	"fjacquet/dispute-assist/internal/store"
	"fjacquet/dispute-assist/internal/txindex"

	"github.com/shopspring/decimal"
)

// NewCSVIO builds the CSV reader/writer from configuration.
func NewCSVIO(cfg *config.Config, logger logging.Logger) *common.CSVIO {
	return common.NewCSVIO([]rune(cfg.CSV.Delimiter)[0], logger)
}

// LoadTransactions reads the transaction table and builds the index.
func LoadTransactions(cfg *config.Config, csvio *common.CSVIO, logger logging.Logger) (*txindex.Index, error) {
	transactions, err := common.ReadCSVFile[models.Transaction](csvio, filepath.Join(cfg.Data.Directory, query.TransactionsFile))
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return txindex.New(transactions, logger), nil
}

// BuildEngine assembles the classification/resolution engine over the
// given index, applying configured thresholds and keyword overrides.
func BuildEngine(cfg *config.Config, index *txindex.Index, logger logging.Logger) (*engine.Engine, error) {
	rules, err := store.NewRuleStore(cfg.Data.RulesFile, logger).LoadRules()
	if err != nil {
		return nil, fmt.Errorf("loading rule overrides: %w", err)
	}

	c := classifier.New(index, classifier.Options{
		ClassifyWindow:      cfg.ClassifyWindow(),
		HighAmountThreshold: decimal.NewFromFloat(cfg.Engine.FraudHighAmountThreshold),
		KeywordOverrides:    rules,
	}, logger)

	r := resolver.New(index, resolver.Options{
		ResolveWindow:     cfg.ResolveWindow(),
		EscalateThreshold: decimal.NewFromFloat(cfg.Engine.FraudEscalateThreshold),
		ReviewThreshold:   decimal.NewFromFloat(cfg.Engine.FraudReviewThreshold),
	}, logger)

	return engine.New(index, c, r, logger), nil
}

// RunClassify reads the dispute table, classifies it, and writes the
// classified-disputes table. Returns the classified records.
func RunClassify(cfg *config.Config, logger logging.Logger) ([]models.ClassifiedDispute, error) {
	csvio := NewCSVIO(cfg, logger)

	index, err := LoadTransactions(cfg, csvio, logger)
	if err != nil {
		return nil, err
	}

	disputes, err := common.ReadCSVFile[models.Dispute](csvio, filepath.Join(cfg.Data.Directory, query.DisputesFile))
	if err != nil {
		return nil, fmt.Errorf("loading disputes: %w", err)
	}

	eng, err := BuildEngine(cfg, index, logger)
	if err != nil {
		return nil, err
	}

	classified := eng.ClassifyAll(disputes)

	outFile := filepath.Join(cfg.Data.OutputDirectory, query.ClassifiedFile)
	if err := common.WriteCSVFile(csvio, classified, outFile); err != nil {
		return nil, fmt.Errorf("writing classified disputes: %w", err)
	}

	return classified, nil
}

// RunResolve reads the classified-disputes table and writes the
// resolutions table.
func RunResolve(cfg *config.Config, logger logging.Logger) ([]models.Resolution, error) {
	csvio := NewCSVIO(cfg, logger)

	index, err := LoadTransactions(cfg, csvio, logger)
	if err != nil {
		return nil, err
	}

	classified, err := common.ReadCSVFile[models.ClassifiedDispute](csvio, filepath.Join(cfg.Data.OutputDirectory, query.ClassifiedFile))
	if err != nil {
		return nil, fmt.Errorf("loading classified disputes (run classify first): %w", err)
	}

	eng, err := BuildEngine(cfg, index, logger)
	if err != nil {
		return nil, err
	}

	resolutions := eng.ResolveAll(classified)

	outFile := filepath.Join(cfg.Data.OutputDirectory, query.ResolutionsFile)
	if err := common.WriteCSVFile(csvio, resolutions, outFile); err != nil {
		return nil, fmt.Errorf("writing resolutions: %w", err)
	}

	return resolutions, nil
}
