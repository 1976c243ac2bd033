package engine

import (
	"testing"

	"fjacquet/dispute-assist/internal/classifier"
	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/resolver"
	"fjacquet/dispute-assist/internal/txindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(transactions []models.Transaction) *Engine {
	ix := txindex.New(transactions, nil)
	c := classifier.New(ix, classifier.Options{}, nil)
	r := resolver.New(ix, resolver.Options{}, nil)
	return New(ix, c, r, nil)
}

func amount(s string) models.Amount {
	return models.NewAmount(models.ParseAmount(s))
}

// A duplicate pair 120 seconds apart corroborates classification at full
// confidence, but auto-refund requires confirmation within 30 seconds, so
// the resolution stays at manual review.
func TestRun_DuplicatePairOutsideConfirmationWindow(t *testing.T) {
	e := newEngine([]models.Transaction{
		{ID: "T1", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:00", Status: models.StatusCompleted, Channel: "UPI"},
		{ID: "T2", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:02:00", Status: models.StatusCompleted, Channel: "UPI"},
	})

	classified, resolutions := e.Run([]models.Dispute{
		{ID: "D1", CustomerID: "C1", TxnID: "T1", Description: "I was charged twice by Acme", Amount: amount("1500")},
	})

	require.Len(t, classified, 1)
	require.Len(t, resolutions, 1)

	assert.Equal(t, models.CategoryDuplicateCharge, classified[0].Category)
	assert.InDelta(t, 1.0, classified[0].Confidence, 1e-9)
	assert.Equal(t, "Keyword match: 'charged twice' + Found 1 duplicate transaction(s)", classified[0].Explanation)
	assert.Equal(t, "Acme", classified[0].Merchant)
	assert.Equal(t, "UPI", classified[0].Channel)

	assert.Equal(t, models.ActionManualReview, resolutions[0].Action)
	assert.Equal(t, "Potential duplicate but not confirmed in system.", resolutions[0].Justification)
}

func TestRun_DuplicatePairInsideConfirmationWindow(t *testing.T) {
	e := newEngine([]models.Transaction{
		{ID: "T1", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:00", Status: models.StatusCompleted},
		{ID: "T2", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:20", Status: models.StatusCompleted},
	})

	_, resolutions := e.Run([]models.Dispute{
		{ID: "D1", CustomerID: "C1", TxnID: "T1", Description: "duplicate charge", Amount: amount("1500")},
	})

	require.Len(t, resolutions, 1)
	assert.Equal(t, models.ActionAutoRefund, resolutions[0].Action)
	assert.Equal(t, "Duplicate transaction confirmed in system.", resolutions[0].Justification)
}

func TestRun_OneOutputPerInputInOrder(t *testing.T) {
	e := newEngine([]models.Transaction{
		{ID: "T1", CustomerID: "C1", Amount: amount("500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:00", Status: models.StatusFailed},
	})

	disputes := []models.Dispute{
		{ID: "D1", TxnID: "T1", Description: "payment failed", Amount: amount("500")},
		{ID: "D2", TxnID: "", Description: "this is fraud", Amount: amount("7000")},
		{ID: "D3", TxnID: "T-MISSING", Description: "", Amount: amount("100")},
	}

	classified, resolutions := e.Run(disputes)

	require.Len(t, classified, len(disputes))
	require.Len(t, resolutions, len(disputes))
	for i, d := range disputes {
		assert.Equal(t, d.ID, classified[i].DisputeID)
		assert.Equal(t, d.ID, resolutions[i].DisputeID)
	}

	assert.Equal(t, models.CategoryFailedTransaction, classified[0].Category)
	assert.Equal(t, models.ActionAutoRefund, resolutions[0].Action)

	assert.Equal(t, models.CategoryFraud, classified[1].Category)
	assert.Equal(t, models.ActionEscalateToBank, resolutions[1].Action)

	assert.Equal(t, models.CategoryOthers, classified[2].Category)
	assert.Equal(t, models.ActionAskForMoreInfo, resolutions[2].Action)
}

func TestRun_EmptyInput(t *testing.T) {
	e := newEngine(nil)

	classified, resolutions := e.Run(nil)

	assert.Empty(t, classified)
	assert.Empty(t, resolutions)
}

func TestRun_Deterministic(t *testing.T) {
	e := newEngine([]models.Transaction{
		{ID: "T1", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:00", Status: models.StatusCompleted},
		{ID: "T2", CustomerID: "C1", Amount: amount("1500"), Merchant: "Acme", Timestamp: "2024-03-01T10:00:20", Status: models.StatusCompleted},
	})

	disputes := []models.Dispute{
		{ID: "D1", TxnID: "T1", Description: "duplicate payment", Amount: amount("1500")},
		{ID: "D2", TxnID: "T2", Description: "refund pending for a week", Amount: amount("1500")},
	}

	c1, r1 := e.Run(disputes)
	c2, r2 := e.Run(disputes)

	assert.Equal(t, c1, c2)
	assert.Equal(t, r1, r2)
}

func TestResolveAll_FallbackOnNilResolver(t *testing.T) {
	ix := txindex.New(nil, nil)
	c := classifier.New(ix, classifier.Options{}, nil)
	// A nil resolver makes resolveOne panic; the batch must still emit one
	// fallback resolution per record instead of aborting.
	e := New(ix, c, nil, nil)

	resolutions := e.ResolveAll([]models.ClassifiedDispute{
		{DisputeID: "D1", Category: models.CategoryFraud, Amount: amount("7000")},
	})

	require.Len(t, resolutions, 1)
	assert.Equal(t, "D1", resolutions[0].DisputeID)
	assert.Equal(t, models.ActionAskForMoreInfo, resolutions[0].Action)
	assert.Equal(t, "No strong rule applied.", resolutions[0].Justification)
}
