package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is a read-only reference record of a completed or attempted
// payment. Transactions are never created or mutated by the engine.
//
// Timestamp is kept as the raw input string and parsed on demand: a
// malformed timestamp must degrade to "no proximity match" for that one
// record, never abort a batch.
type Transaction struct {
	ID         string `csv:"txn_id"`
	CustomerID string `csv:"customer_id"`
	Amount     Amount `csv:"amount"`
	Merchant   string `csv:"merchant"`
	Timestamp  string `csv:"timestamp"`
	Status     string `csv:"status"`
	Channel    string `csv:"channel"`
}

// Amount is a decimal monetary value that tolerates malformed CSV cells by
// degrading to zero instead of failing the whole file.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat builds an Amount from a float value.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (a *Amount) UnmarshalCSV(value string) error {
	a.Decimal = ParseAmount(value)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (a Amount) MarshalCSV() (string, error) {
	return a.Decimal.StringFixed(2), nil
}

// ParseAmount converts a string to a decimal amount, handling common
// formatting noise. Unparseable input yields zero.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, ",", "")
	amount = strings.ReplaceAll(amount, " ", "")
	amount = strings.TrimPrefix(amount, "INR")
	amount = strings.TrimPrefix(amount, "₹")

	if amount == "" {
		return decimal.Zero
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
