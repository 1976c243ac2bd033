// Package classifier assigns a category, confidence, and explanation to a
// dispute by evaluating an ordered list of keyword rules against the
// dispute description, sharpened with transaction context where available.
package classifier

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/txindex"

	"github.com/shopspring/decimal"
)

// DefaultClassifyWindow is the near-duplicate corroboration window used
// during classification when no override is configured. Distinct from the
// resolution engine's confirmation window.
const DefaultClassifyWindow = 300 * time.Second

// DefaultHighAmountThreshold is the amount above which the fraud rule
// appends a high-amount note.
var DefaultHighAmountThreshold = decimal.NewFromInt(5000)

// Result is the outcome of classifying one dispute.
type Result struct {
	Category    models.Category
	Confidence  float64
	Explanation string
}

// Options tunes classifier behaviour. Zero values select the defaults.
type Options struct {
	// ClassifyWindow bounds the duplicate corroboration proximity search.
	ClassifyWindow time.Duration
	// HighAmountThreshold triggers the fraud high-amount note.
	HighAmountThreshold decimal.Decimal
	// KeywordOverrides replaces the keyword set of matching rules. Rule
	// order, base confidence, and refinements are not overridable.
	KeywordOverrides []models.RuleConfig
}

// Classifier evaluates the rule list against disputes. It is stateless
// across calls and safe for concurrent use once constructed.
type Classifier struct {
	index               *txindex.Index
	rules               []rule
	classifyWindow      time.Duration
	highAmountThreshold decimal.Decimal
	logger              logging.Logger
}

// New constructs a Classifier over the given transaction index.
func New(index *txindex.Index, opts Options, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	window := opts.ClassifyWindow
	if window == 0 {
		window = DefaultClassifyWindow
	}

	threshold := opts.HighAmountThreshold
	if threshold.IsZero() {
		threshold = DefaultHighAmountThreshold
	}

	rules := defaultRules()
	applyOverrides(rules, opts.KeywordOverrides, logger)

	return &Classifier{
		index:               index,
		rules:               rules,
		classifyWindow:      window,
		highAmountThreshold: threshold,
		logger:              logger,
	}
}

// applyOverrides swaps in configured keyword sets for rules whose category
// matches. Unknown categories are logged and skipped.
func applyOverrides(rules []rule, overrides []models.RuleConfig, logger logging.Logger) {
	for _, override := range overrides {
		if len(override.Keywords) == 0 {
			continue
		}
		applied := false
		for i := range rules {
			if string(rules[i].category) == override.Category {
				keywords := make([]string, len(override.Keywords))
				for j, kw := range override.Keywords {
					keywords[j] = strings.ToLower(kw)
				}
				rules[i].keywords = keywords
				applied = true
				break
			}
		}
		if !applied {
			logger.WithField("category", override.Category).
				Warn("Keyword override references unknown rule category, ignored")
		}
	}
}

// Classify evaluates the rule list against one dispute. The first rule
// with a keyword hit wins; later rules are never evaluated. No failure in
// transaction resolution aborts classification: missing context only
// degrades the confidence and explanation detail.
func (c *Classifier) Classify(dispute models.Dispute) Result {
	desc := strings.ToLower(dispute.Description)

	// Transaction context is optional. A dangling or empty reference is an
	// expected outcome, not an error.
	var txn *models.Transaction
	if resolved, ok := c.index.Lookup(dispute.TxnID); ok {
		txn = &resolved
	}

	for _, r := range c.rules {
		keyword, hit := matchKeyword(desc, r.keywords)
		if !hit {
			continue
		}

		confidence := r.baseConfidence
		explanation := fmt.Sprintf("Keyword match: '%s'", keyword)
		if r.refine != nil {
			confidence, explanation = r.refine(c, dispute, txn, confidence, explanation)
		}

		c.logger.WithFields(
			logging.Field{Key: "dispute_id", Value: dispute.ID},
			logging.Field{Key: "category", Value: r.category},
			logging.Field{Key: "keyword", Value: keyword},
			logging.Field{Key: "confidence", Value: confidence},
		).Debug("Dispute classified by keyword rule")

		return Result{
			Category:    r.category,
			Confidence:  confidence,
			Explanation: explanation,
		}
	}

	return c.fallbackResult(dispute, txn)
}

// fallbackResult produces the OTHERS outcome, augmented with merchant and
// channel context when the transaction resolved.
func (c *Classifier) fallbackResult(dispute models.Dispute, txn *models.Transaction) Result {
	explanation := "No strong keyword match"
	if txn != nil {
		explanation += fmt.Sprintf(" (Merchant: %s, Channel: %s)", txn.Merchant, txn.Channel)
	}

	c.logger.WithFields(
		logging.Field{Key: "dispute_id", Value: dispute.ID},
		logging.Field{Key: "category", Value: models.CategoryOthers},
	).Debug("No keyword rule fired, dispute classified as OTHERS")

	return Result{
		Category:    models.CategoryOthers,
		Confidence:  0.5,
		Explanation: explanation,
	}
}

// matchKeyword returns the first keyword contained in desc. The keyword
// list order decides which keyword is reported; the rule fires the same
// way regardless of how many keywords match.
func matchKeyword(desc string, keywords []string) (string, bool) {
	if desc == "" {
		return "", false
	}
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return kw, true
		}
	}
	return "", false
}
