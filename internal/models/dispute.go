package models

// Dispute is a customer-raised claim about a financial transaction.
// Disputes are immutable once ingested; classification and resolution
// attach new records rather than mutate this one.
type Dispute struct {
	ID          string `csv:"dispute_id"`
	CustomerID  string `csv:"customer_id"`
	TxnID       string `csv:"txn_id"`
	Description string `csv:"description"`
	Amount      Amount `csv:"amount"`
	CreatedAt   string `csv:"created_at"`
}

// ClassifiedDispute extends a Dispute with the classification outcome and
// the merchant/channel context copied from the matched transaction, if any.
type ClassifiedDispute struct {
	DisputeID   string   `csv:"dispute_id"`
	TxnID       string   `csv:"txn_id"`
	Amount      Amount   `csv:"amount"`
	Merchant    string   `csv:"merchant"`
	Channel     string   `csv:"channel"`
	Category    Category `csv:"predicted_category"`
	Confidence  float64  `csv:"confidence"`
	Explanation string   `csv:"explanation"`
}

// Resolution is the recommended next step for one classified dispute.
// Exactly one resolution exists per classified dispute.
type Resolution struct {
	DisputeID     string `csv:"dispute_id"`
	Action        Action `csv:"suggested_action"`
	Justification string `csv:"justification"`
}
