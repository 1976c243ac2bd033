// Package models defines the core data types shared across the application:
// disputes, transactions, classification results, and resolutions.
package models

// Category is the classification outcome assigned to a dispute.
type Category string

const (
	// CategoryDuplicateCharge indicates the same payment appears to have been taken twice.
	CategoryDuplicateCharge Category = "DUPLICATE_CHARGE"
	// CategoryFailedTransaction indicates the payment failed or got stuck but was debited.
	CategoryFailedTransaction Category = "FAILED_TRANSACTION"
	// CategoryFraud indicates the customer disputes having made the payment at all.
	CategoryFraud Category = "FRAUD"
	// CategoryRefundPending indicates a promised refund has not arrived.
	CategoryRefundPending Category = "REFUND_PENDING"
	// CategoryOthers is the fallback when no rule matches.
	CategoryOthers Category = "OTHERS"
)

// Categories lists every valid category, in rule-evaluation order plus the fallback.
var Categories = []Category{
	CategoryDuplicateCharge,
	CategoryFailedTransaction,
	CategoryFraud,
	CategoryRefundPending,
	CategoryOthers,
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Action is the recommended next operational step for a classified dispute.
type Action string

const (
	ActionAutoRefund         Action = "Auto-refund"
	ActionManualReview       Action = "Manual review"
	ActionEscalateToBank     Action = "Escalate to bank"
	ActionMarkPotentialFraud Action = "Mark as potential fraud"
	ActionAskForMoreInfo     Action = "Ask for more info"
)

// Transaction statuses form an open string enumeration; these are the values
// the rule tables key on. Unknown statuses are passed through untouched.
const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
)

// Known transaction channels. The channel is display metadata only; the
// engine never branches on it.
const (
	ChannelMobile = "Mobile"
	ChannelWeb    = "Web"
	ChannelPOS    = "POS"
	ChannelQR     = "QR"
)

// RuleConfig represents a keyword override for one classification rule,
// loaded from the optional rules YAML file.
type RuleConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RulesConfig is the structure of the rules YAML file.
type RulesConfig struct {
	Rules []RuleConfig `yaml:"rules"`
}
