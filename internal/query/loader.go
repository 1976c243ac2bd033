// Package query answers ad-hoc count, breakdown, and list requests over
// the pipeline's output tables joined with the raw inputs. It is a
// read-side collaborator of the engine: it imposes no invariants on
// classification or resolution.
package query

import (
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/dispute-assist/internal/common"
	"fjacquet/dispute-assist/internal/dateutils"
	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
)

// File names the loader expects in the data and output directories.
const (
	DisputesFile     = "disputes.csv"
	TransactionsFile = "transactions.csv"
	ClassifiedFile   = "classified_disputes.csv"
	ResolutionsFile  = "resolutions.csv"
)

// CombinedDispute is one dispute joined with its classification and
// resolution by dispute id.
type CombinedDispute struct {
	DisputeID     string
	CustomerID    string
	TxnID         string
	Description   string
	Amount        models.Amount
	CreatedAt     time.Time
	CreatedAtOK   bool
	Merchant      string
	Channel       string
	Category      models.Category
	Confidence    float64
	Explanation   string
	Action        models.Action
	Justification string
}

// Loader reads and caches the four tables. It is explicitly constructed
// and passed to the query engine; there is no process-wide instance.
type Loader struct {
	dataDir   string
	outputDir string
	csvio     *common.CSVIO
	logger    logging.Logger

	disputes     []models.Dispute
	transactions []models.Transaction
	classified   []models.ClassifiedDispute
	resolutions  []models.Resolution
	combined     []CombinedDispute
	loaded       bool
}

// NewLoader creates a Loader over the given directories.
func NewLoader(dataDir, outputDir string, csvio *common.CSVIO, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Loader{
		dataDir:   dataDir,
		outputDir: outputDir,
		csvio:     csvio,
		logger:    logger,
	}
}

// Load reads all four tables and builds the combined view. Any missing
// file fails the load; the query layer requires a completed pipeline run.
func (l *Loader) Load() error {
	if l.loaded {
		return nil
	}

	disputes, err := common.ReadCSVFile[models.Dispute](l.csvio, filepath.Join(l.dataDir, DisputesFile))
	if err != nil {
		return fmt.Errorf("loading disputes: %w", err)
	}

	transactions, err := common.ReadCSVFile[models.Transaction](l.csvio, filepath.Join(l.dataDir, TransactionsFile))
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	classified, err := common.ReadCSVFile[models.ClassifiedDispute](l.csvio, filepath.Join(l.outputDir, ClassifiedFile))
	if err != nil {
		return fmt.Errorf("loading classified disputes (run the pipeline first): %w", err)
	}

	resolutions, err := common.ReadCSVFile[models.Resolution](l.csvio, filepath.Join(l.outputDir, ResolutionsFile))
	if err != nil {
		return fmt.Errorf("loading resolutions (run the pipeline first): %w", err)
	}

	l.disputes = disputes
	l.transactions = transactions
	l.classified = classified
	l.resolutions = resolutions
	l.combined = combine(disputes, classified, resolutions)
	l.loaded = true

	l.logger.WithFields(
		logging.Field{Key: "disputes", Value: len(disputes)},
		logging.Field{Key: "transactions", Value: len(transactions)},
	).Debug("Query data loaded")
	return nil
}

// Combined returns the joined view, loading it on first use.
func (l *Loader) Combined() ([]CombinedDispute, error) {
	if err := l.Load(); err != nil {
		return nil, err
	}
	return l.combined, nil
}

// Transactions returns the raw transaction table.
func (l *Loader) Transactions() ([]models.Transaction, error) {
	if err := l.Load(); err != nil {
		return nil, err
	}
	return l.transactions, nil
}

// ClearCache forces a reload on next access.
func (l *Loader) ClearCache() {
	l.loaded = false
	l.disputes = nil
	l.transactions = nil
	l.classified = nil
	l.resolutions = nil
	l.combined = nil
}

// combine joins disputes with classifications and resolutions by dispute
// id, preserving dispute input order. Rows without a matching
// classification or resolution keep zero values for those fields.
func combine(disputes []models.Dispute, classified []models.ClassifiedDispute, resolutions []models.Resolution) []CombinedDispute {
	classifiedByID := make(map[string]models.ClassifiedDispute, len(classified))
	for _, cd := range classified {
		classifiedByID[cd.DisputeID] = cd
	}
	resolutionByID := make(map[string]models.Resolution, len(resolutions))
	for _, res := range resolutions {
		resolutionByID[res.DisputeID] = res
	}

	combined := make([]CombinedDispute, 0, len(disputes))
	for _, d := range disputes {
		row := CombinedDispute{
			DisputeID:   d.ID,
			CustomerID:  d.CustomerID,
			TxnID:       d.TxnID,
			Description: d.Description,
			Amount:      d.Amount,
		}

		if createdAt, err := dateutils.ParseTimestamp(d.CreatedAt); err == nil {
			row.CreatedAt = createdAt
			row.CreatedAtOK = true
		}

		if cd, ok := classifiedByID[d.ID]; ok {
			row.Merchant = cd.Merchant
			row.Channel = cd.Channel
			row.Category = cd.Category
			row.Confidence = cd.Confidence
			row.Explanation = cd.Explanation
		}

		if res, ok := resolutionByID[d.ID]; ok {
			row.Action = res.Action
			row.Justification = res.Justification
		}

		combined = append(combined, row)
	}
	return combined
}
