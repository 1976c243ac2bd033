package txindex

import (
	"testing"
	"time"

	"fjacquet/dispute-assist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id, customer, amount, merchant, ts, status string) models.Transaction {
	return models.Transaction{
		ID:         id,
		CustomerID: customer,
		Amount:     models.NewAmount(models.ParseAmount(amount)),
		Merchant:   merchant,
		Timestamp:  ts,
		Status:     status,
	}
}

func TestIndex_Lookup(t *testing.T) {
	ix := New([]models.Transaction{
		txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
		txn("T2", "C2", "200", "M2", "2024-03-01T11:00:00", models.StatusFailed),
	}, nil)

	tests := []struct {
		name       string
		txnID      string
		expectOK   bool
		expectTxn  string
	}{
		{name: "known id", txnID: "T1", expectOK: true, expectTxn: "T1"},
		{name: "another known id", txnID: "T2", expectOK: true, expectTxn: "T2"},
		{name: "unknown id", txnID: "T999", expectOK: false},
		{name: "empty id", txnID: "", expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, ok := ix.Lookup(tt.txnID)
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, tt.expectTxn, found.ID)
			}
		})
	}
}

func TestIndex_FindNearDuplicates(t *testing.T) {
	base := txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted)

	tests := []struct {
		name      string
		others    []models.Transaction
		window    time.Duration
		expectIDs []string
	}{
		{
			name: "within window",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M1", "2024-03-01T10:02:00", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: []string{"T2"},
		},
		{
			name: "outside window",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M1", "2024-03-01T10:06:40", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: nil,
		},
		{
			name: "boundary is inclusive",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M1", "2024-03-01T10:05:00", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: []string{"T2"},
		},
		{
			name: "different merchant excluded",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M2", "2024-03-01T10:01:00", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: nil,
		},
		{
			name: "different amount excluded",
			others: []models.Transaction{
				txn("T2", "C2", "1600", "M1", "2024-03-01T10:01:00", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: nil,
		},
		{
			name: "malformed candidate timestamp excluded",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M1", "not-a-timestamp", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: nil,
		},
		{
			name: "multiple matches preserve input order",
			others: []models.Transaction{
				txn("T2", "C2", "1500", "M1", "2024-03-01T10:01:00", models.StatusCompleted),
				txn("T3", "C3", "1500", "M1", "2024-03-01T09:58:00", models.StatusCompleted),
			},
			window:    300 * time.Second,
			expectIDs: []string{"T2", "T3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := New(append([]models.Transaction{base}, tt.others...), nil)

			duplicates := ix.FindNearDuplicates(base, tt.window)

			var ids []string
			for _, d := range duplicates {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.expectIDs, ids)
		})
	}
}

func TestIndex_FindNearDuplicates_MissingFields(t *testing.T) {
	other := txn("T2", "C2", "1500", "M1", "2024-03-01T10:01:00", models.StatusCompleted)
	ix := New([]models.Transaction{other}, nil)

	tests := []struct {
		name string
		txn  models.Transaction
	}{
		{name: "missing merchant", txn: txn("T1", "C1", "1500", "", "2024-03-01T10:00:00", "")},
		{name: "zero amount", txn: txn("T1", "C1", "0", "M1", "2024-03-01T10:00:00", "")},
		{name: "malformed timestamp", txn: txn("T1", "C1", "1500", "M1", "garbage", "")},
		{name: "empty timestamp", txn: txn("T1", "C1", "1500", "M1", "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ix.FindNearDuplicates(tt.txn, 300*time.Second))
		})
	}
}

func TestIndex_HasPayerDuplicate(t *testing.T) {
	tests := []struct {
		name         string
		transactions []models.Transaction
		txnID        string
		window       time.Duration
		expect       bool
	}{
		{
			name: "same payer and amount within window",
			transactions: []models.Transaction{
				txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
				txn("T2", "C1", "1500", "M2", "2024-03-01T10:00:20", models.StatusCompleted),
			},
			txnID:  "T1",
			window: 30 * time.Second,
			expect: true,
		},
		{
			name: "same payer outside window",
			transactions: []models.Transaction{
				txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
				txn("T2", "C1", "1500", "M1", "2024-03-01T10:02:00", models.StatusCompleted),
			},
			txnID:  "T1",
			window: 30 * time.Second,
			expect: false,
		},
		{
			name: "different payer",
			transactions: []models.Transaction{
				txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
				txn("T2", "C2", "1500", "M1", "2024-03-01T10:00:10", models.StatusCompleted),
			},
			txnID:  "T1",
			window: 30 * time.Second,
			expect: false,
		},
		{
			name: "different amount",
			transactions: []models.Transaction{
				txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
				txn("T2", "C1", "1600", "M1", "2024-03-01T10:00:10", models.StatusCompleted),
			},
			txnID:  "T1",
			window: 30 * time.Second,
			expect: false,
		},
		{
			name: "unknown id",
			transactions: []models.Transaction{
				txn("T1", "C1", "1500", "M1", "2024-03-01T10:00:00", models.StatusCompleted),
			},
			txnID:  "T999",
			window: 30 * time.Second,
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := New(tt.transactions, nil)
			assert.Equal(t, tt.expect, ix.HasPayerDuplicate(tt.txnID, tt.window))
		})
	}
}

func TestIndex_MalformedTimestampStillAddressable(t *testing.T) {
	ix := New([]models.Transaction{
		txn("T1", "C1", "1500", "M1", "garbage", models.StatusCompleted),
	}, nil)

	found, ok := ix.Lookup("T1")
	require.True(t, ok)
	assert.Equal(t, "T1", found.ID)
	assert.False(t, ix.HasPayerDuplicate("T1", 30*time.Second))
}
