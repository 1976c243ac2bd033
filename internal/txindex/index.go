// Package txindex provides an in-memory index over the transaction table.
// The index is built once per batch run and is read-only afterwards, so it
// is safe for concurrent readers without locking.
package txindex

import (
	"time"

	"fjacquet/dispute-assist/internal/dateutils"
	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
)

// Index answers point lookups by transaction id and bounded-window
// proximity searches over a fixed transaction table.
type Index struct {
	transactions []models.Transaction
	byID         map[string]int
	// parsedAt[i] is the parsed timestamp of transactions[i]; timeOK[i] is
	// false when the raw value was missing or malformed. Such records never
	// participate in proximity matches but remain addressable by id.
	parsedAt []time.Time
	timeOK   []bool
	logger   logging.Logger
}

// New builds an index over the given transactions. Input order is
// preserved, which keeps proximity search results deterministic.
func New(transactions []models.Transaction, logger logging.Logger) *Index {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	ix := &Index{
		transactions: transactions,
		byID:         make(map[string]int, len(transactions)),
		parsedAt:     make([]time.Time, len(transactions)),
		timeOK:       make([]bool, len(transactions)),
		logger:       logger,
	}

	for i, txn := range transactions {
		if txn.ID != "" {
			if _, exists := ix.byID[txn.ID]; !exists {
				ix.byID[txn.ID] = i
			}
		}

		ts, err := dateutils.ParseTimestamp(txn.Timestamp)
		if err != nil {
			logger.WithError(err).WithField("txn_id", txn.ID).
				Debug("Transaction timestamp unparseable, excluded from proximity search")
			continue
		}
		ix.parsedAt[i] = ts
		ix.timeOK[i] = true
	}

	logger.WithField("count", len(transactions)).Debug("Transaction index built")
	return ix
}

// Len returns the number of indexed transactions.
func (ix *Index) Len() int {
	return len(ix.transactions)
}

// Lookup returns the transaction with the given id. An empty, missing, or
// unknown id yields ok=false; absence is an expected outcome, not an error.
func (ix *Index) Lookup(txnID string) (models.Transaction, bool) {
	if txnID == "" {
		return models.Transaction{}, false
	}
	i, ok := ix.byID[txnID]
	if !ok {
		return models.Transaction{}, false
	}
	return ix.transactions[i], true
}

// FindNearDuplicates returns all other transactions sharing txn's merchant
// and amount whose timestamps lie within window of txn's timestamp,
// boundary inclusive. Results follow the index input order. If merchant,
// amount, or timestamp on txn is missing, the result is empty.
func (ix *Index) FindNearDuplicates(txn models.Transaction, window time.Duration) []models.Transaction {
	if txn.Merchant == "" || txn.Amount.IsZero() {
		return nil
	}

	at, err := dateutils.ParseTimestamp(txn.Timestamp)
	if err != nil {
		return nil
	}

	var duplicates []models.Transaction
	for i, candidate := range ix.transactions {
		if candidate.ID == txn.ID {
			continue
		}
		if candidate.Merchant != txn.Merchant || !candidate.Amount.Equal(txn.Amount.Decimal) {
			continue
		}
		if !ix.timeOK[i] {
			continue
		}
		if dateutils.WithinWindow(at, ix.parsedAt[i], window) {
			duplicates = append(duplicates, candidate)
		}
	}
	return duplicates
}

// HasPayerDuplicate reports whether the transaction with the given id has
// another transaction from the same customer for the same amount within
// window. This is the duplicate-confirmation check behind auto-refunds; it
// keys on the payer rather than the merchant.
func (ix *Index) HasPayerDuplicate(txnID string, window time.Duration) bool {
	i, ok := ix.byID[txnID]
	if !ok {
		return false
	}

	txn := ix.transactions[i]
	if txn.CustomerID == "" || !ix.timeOK[i] {
		return false
	}

	for j, candidate := range ix.transactions {
		if candidate.ID == txnID {
			continue
		}
		if candidate.CustomerID != txn.CustomerID || !candidate.Amount.Equal(txn.Amount.Decimal) {
			continue
		}
		if !ix.timeOK[j] {
			continue
		}
		if dateutils.WithinWindow(ix.parsedAt[i], ix.parsedAt[j], window) {
			return true
		}
	}
	return false
}
