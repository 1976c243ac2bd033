package classifier

import (
	"fmt"
	"strings"

	"fjacquet/dispute-assist/internal/models"
)

// Built-in keyword sets, one per rule. Matching is substring containment
// on the lower-cased description, so keywords are kept lower case.
var (
	duplicateKeywords = []string{
		"charged twice",
		"duplicate charge",
		"double charge",
		"two debit messages",
		"duplicate transfer",
		"same merchant within minutes",
		"charged twice at",
		"duplicate upi",
		"same vpa",
		"minutes apart",
		"two upi debit",
		"got two",
		"same payment",
		"duplicate payment",
	}

	failedKeywords = []string{
		"failed",
		"not refunded",
		"not received",
		"payment stuck",
		"pending",
	}

	fraudKeywords = []string{
		"fraud",
		"unauthorized",
		"not made this payment",
		"scam",
		"did not make",
		"didn't authorize",
		"suspicious",
		"don't recognize",
	}

	refundKeywords = []string{
		"waiting for refund",
		"refund pending",
		"still not refunded",
		"refund not received",
		"still waiting",
		"refund for canceled",
	}
)

// rule is one entry of the ordered classification rule list. The first
// rule whose keyword set hits wins outright; refine only adjusts the
// confidence and explanation, never the category.
type rule struct {
	category       models.Category
	baseConfidence float64
	keywords       []string
	refine         refineFunc
}

// refineFunc sharpens a fired rule's confidence and explanation using
// transaction context. txn is nil when the dispute's transaction reference
// did not resolve.
type refineFunc func(c *Classifier, dispute models.Dispute, txn *models.Transaction, confidence float64, explanation string) (float64, string)

// defaultRules returns the rule list in its fixed evaluation order.
func defaultRules() []rule {
	return []rule{
		{
			category:       models.CategoryDuplicateCharge,
			baseConfidence: 1.0,
			keywords:       duplicateKeywords,
			refine:         refineDuplicateCharge,
		},
		{
			category:       models.CategoryFailedTransaction,
			baseConfidence: 0.9,
			keywords:       failedKeywords,
			refine:         refineFailedTransaction,
		},
		{
			category:       models.CategoryFraud,
			baseConfidence: 1.0,
			keywords:       fraudKeywords,
			refine:         refineFraud,
		},
		{
			category:       models.CategoryRefundPending,
			baseConfidence: 0.8,
			keywords:       refundKeywords,
			refine:         refineRefundPending,
		},
	}
}

// refineDuplicateCharge corroborates a duplicate-charge claim against the
// transaction table: same merchant and amount within the classification
// window. Corroboration adds a note; its absence leaves the base result.
func refineDuplicateCharge(c *Classifier, _ models.Dispute, txn *models.Transaction, confidence float64, explanation string) (float64, string) {
	if txn == nil {
		return confidence, explanation
	}
	duplicates := c.index.FindNearDuplicates(*txn, c.classifyWindow)
	if len(duplicates) > 0 {
		confidence = 1.0
		explanation += fmt.Sprintf(" + Found %d duplicate transaction(s)", len(duplicates))
	}
	return confidence, explanation
}

func refineFailedTransaction(_ *Classifier, _ models.Dispute, txn *models.Transaction, confidence float64, explanation string) (float64, string) {
	if txn == nil {
		return confidence, explanation
	}
	status := strings.ToUpper(txn.Status)
	if status == models.StatusFailed || status == models.StatusCancelled {
		confidence = 1.0
		explanation += fmt.Sprintf(" + Transaction status: %s", status)
	}
	return confidence, explanation
}

func refineFraud(c *Classifier, dispute models.Dispute, _ *models.Transaction, confidence float64, explanation string) (float64, string) {
	if dispute.Amount.GreaterThan(c.highAmountThreshold) {
		confidence = 1.0
		explanation += fmt.Sprintf(" + High amount: %s", dispute.Amount.String())
	}
	return confidence, explanation
}

func refineRefundPending(_ *Classifier, _ models.Dispute, txn *models.Transaction, confidence float64, explanation string) (float64, string) {
	if txn == nil {
		return confidence, explanation
	}
	status := strings.ToUpper(txn.Status)
	if status == models.StatusCancelled {
		confidence = 1.0
		explanation += fmt.Sprintf(" + Transaction status: %s", status)
	}
	return confidence, explanation
}
