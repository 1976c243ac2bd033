// Package resolver maps a classified dispute to a suggested action and
// justification. The mapping is a small decision table over the category,
// the linked transaction's status when resolvable, and the amount; no
// state persists across calls.
package resolver

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/txindex"

	"github.com/shopspring/decimal"
)

// DefaultResolveWindow is the payer-duplicate confirmation window backing
// auto-refunds. Deliberately tighter than the classifier's corroboration
// window; the two are independent thresholds.
const DefaultResolveWindow = 30 * time.Second

// Default fraud amount thresholds.
var (
	DefaultEscalateThreshold = decimal.NewFromInt(5000)
	DefaultReviewThreshold   = decimal.NewFromInt(1000)
)

// Options tunes resolver behaviour. Zero values select the defaults.
type Options struct {
	// ResolveWindow bounds the payer-duplicate confirmation check.
	ResolveWindow time.Duration
	// EscalateThreshold is the fraud amount above which the dispute is
	// escalated to the bank.
	EscalateThreshold decimal.Decimal
	// ReviewThreshold is the fraud amount above which the dispute is
	// marked as potential fraud instead of manually reviewed.
	ReviewThreshold decimal.Decimal
}

// Resolver produces one Resolution per classified dispute.
type Resolver struct {
	index             *txindex.Index
	resolveWindow     time.Duration
	escalateThreshold decimal.Decimal
	reviewThreshold   decimal.Decimal
	logger            logging.Logger
}

// New constructs a Resolver over the given transaction index.
func New(index *txindex.Index, opts Options, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	window := opts.ResolveWindow
	if window == 0 {
		window = DefaultResolveWindow
	}

	escalate := opts.EscalateThreshold
	if escalate.IsZero() {
		escalate = DefaultEscalateThreshold
	}

	review := opts.ReviewThreshold
	if review.IsZero() {
		review = DefaultReviewThreshold
	}

	return &Resolver{
		index:             index,
		resolveWindow:     window,
		escalateThreshold: escalate,
		reviewThreshold:   review,
		logger:            logger,
	}
}

// Resolve applies the decision table to one classified dispute. Every
// branch assigns both an action and a non-empty justification.
func (r *Resolver) Resolve(dispute models.ClassifiedDispute) models.Resolution {
	action, justification := r.decide(dispute)

	r.logger.WithFields(
		logging.Field{Key: "dispute_id", Value: dispute.DisputeID},
		logging.Field{Key: "category", Value: dispute.Category},
		logging.Field{Key: "action", Value: action},
	).Debug("Resolution suggested")

	return models.Resolution{
		DisputeID:     dispute.DisputeID,
		Action:        action,
		Justification: justification,
	}
}

func (r *Resolver) decide(dispute models.ClassifiedDispute) (models.Action, string) {
	switch dispute.Category {
	case models.CategoryDuplicateCharge:
		return r.decideDuplicateCharge(dispute)
	case models.CategoryFailedTransaction:
		return r.decideFailedTransaction(dispute)
	case models.CategoryFraud:
		return r.decideFraud(dispute)
	case models.CategoryRefundPending:
		return r.decideRefundPending(dispute)
	case models.CategoryOthers:
		return models.ActionAskForMoreInfo, "Dispute unclear, requires customer clarification."
	}

	// Unreachable for valid categories; kept so every input still yields a
	// complete resolution.
	return models.ActionAskForMoreInfo, "No strong rule applied."
}

func (r *Resolver) decideDuplicateCharge(dispute models.ClassifiedDispute) (models.Action, string) {
	if dispute.TxnID != "" && r.index.HasPayerDuplicate(dispute.TxnID, r.resolveWindow) {
		return models.ActionAutoRefund, "Duplicate transaction confirmed in system."
	}
	return models.ActionManualReview, "Potential duplicate but not confirmed in system."
}

func (r *Resolver) decideFailedTransaction(dispute models.ClassifiedDispute) (models.Action, string) {
	txn, ok := r.index.Lookup(dispute.TxnID)
	if !ok {
		return models.ActionAskForMoreInfo, "Transaction not found in system."
	}

	switch strings.ToUpper(txn.Status) {
	case models.StatusFailed, models.StatusCancelled:
		return models.ActionAutoRefund,
			fmt.Sprintf("Transaction %s in records; refund applicable.", strings.ToLower(txn.Status))
	case models.StatusPending:
		return models.ActionManualReview, "Transaction pending; needs manual verification."
	default:
		return models.ActionAskForMoreInfo, "Transaction successful in records; needs clarification."
	}
}

func (r *Resolver) decideFraud(dispute models.ClassifiedDispute) (models.Action, string) {
	amount := dispute.Amount.Decimal
	switch {
	case amount.GreaterThan(r.escalateThreshold):
		return models.ActionEscalateToBank, "High-value fraud dispute requires bank escalation."
	case amount.GreaterThan(r.reviewThreshold):
		return models.ActionMarkPotentialFraud, "Medium-value suspicious activity detected."
	default:
		return models.ActionManualReview, "Low-value fraud claim needs verification."
	}
}

func (r *Resolver) decideRefundPending(dispute models.ClassifiedDispute) (models.Action, string) {
	txn, ok := r.index.Lookup(dispute.TxnID)
	if !ok {
		return models.ActionManualReview, "Transaction not found; manual investigation needed."
	}

	switch strings.ToUpper(txn.Status) {
	case models.StatusCancelled, models.StatusFailed:
		return models.ActionAutoRefund, "Transaction cancelled/failed; refund overdue."
	default:
		return models.ActionManualReview, "Refund process needs manual verification."
	}
}
