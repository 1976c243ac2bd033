package nlquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/dispute-assist/internal/logging"
)

// Query types the translator can produce. Each maps onto one query-engine
// operation.
const (
	QueryDuplicateChargesToday = "duplicate_charges_today"
	QueryFraudDisputes         = "fraud_disputes"
	QueryBreakdownByType       = "breakdown_by_type"
	QueryBreakdownByChannel    = "breakdown_by_channel"
	QueryUnresolvedDisputes    = "unresolved_disputes"
	QueryPendingRefunds        = "pending_refunds"
	QuerySummaryStats          = "summary_stats"
	QueryHighValueDisputes     = "high_value_disputes"
	QueryDailySummary          = "daily_summary"
	QueryCountByCategory       = "count_by_category"
	QueryCountByStatus         = "count_by_status"
	QueryListByCategory        = "list_by_category"
)

// AvailableQueries maps every query type to a description used both in the
// model prompt and in help output.
var AvailableQueries = map[string]string{
	QueryDuplicateChargesToday: "Count duplicate charges that occurred today",
	QueryFraudDisputes:         "List fraud disputes with details",
	QueryBreakdownByType:       "Breakdown disputes by category (DUPLICATE_CHARGE, FRAUD, etc.)",
	QueryBreakdownByChannel:    "Breakdown disputes by transaction channel (Mobile, Web, POS, etc.)",
	QueryUnresolvedDisputes:    "List disputes that need manual attention (not auto-refund)",
	QueryPendingRefunds:        "List pending refund cases",
	QuerySummaryStats:          "Overall summary statistics of all disputes",
	QueryHighValueDisputes:     "Count disputes above a certain amount threshold",
	QueryDailySummary:          "Daily summary of disputes over specified number of days",
	QueryCountByCategory:       "Count disputes by specific category",
	QueryCountByStatus:         "Count disputes by resolution status",
	QueryListByCategory:        "List disputes of specific category",
}

// Parameters carries the optional arguments extracted from a user query.
type Parameters struct {
	Category   string  `json:"category,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
	Days       int     `json:"days,omitempty"`
	DateFilter string  `json:"date_filter,omitempty"`
}

// ParsedQuery is a structured command translated from natural language.
type ParsedQuery struct {
	QueryType   string     `json:"query_type"`
	Parameters  Parameters `json:"parameters"`
	Confidence  float64    `json:"confidence"`
	Explanation string     `json:"explanation"`
}

// Translator converts natural-language questions to ParsedQuery values.
type Translator struct {
	client AIClient
	logger logging.Logger
}

// NewTranslator creates a Translator. client may be nil, in which case
// every translation uses the keyword fallback.
func NewTranslator(client AIClient, logger logging.Logger) *Translator {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Translator{client: client, logger: logger}
}

// Translate maps a user question to a structured query. Model failures,
// malformed JSON, and invalid responses all degrade to the local keyword
// fallback; Translate itself never fails.
func (t *Translator) Translate(ctx context.Context, userQuery string) ParsedQuery {
	if t.client == nil {
		t.logger.Debug("No AI client configured, using keyword fallback")
		return FallbackParse(userQuery)
	}

	response, err := t.client.Generate(ctx, buildPrompt(userQuery))
	if err != nil {
		t.logger.WithError(err).Warn("Query translation via model failed, using keyword fallback")
		return FallbackParse(userQuery)
	}

	parsed, err := parseResponse(response)
	if err != nil {
		t.logger.WithError(err).Warn("Model response unusable, using keyword fallback")
		return FallbackParse(userQuery)
	}

	t.logger.WithFields(
		logging.Field{Key: "query_type", Value: parsed.QueryType},
		logging.Field{Key: "confidence", Value: parsed.Confidence},
	).Debug("Translated natural-language query")
	return parsed
}

// buildPrompt renders the JSON-only translation prompt.
func buildPrompt(userQuery string) string {
	queries, _ := json.MarshalIndent(AvailableQueries, "", "  ")

	return fmt.Sprintf(`You are a dispute analysis assistant. Convert the user's natural language query into a structured command.

Available Query Types:
%s

Available Categories: DUPLICATE_CHARGE, FRAUD, FAILED_TRANSACTION, REFUND_PENDING, OTHERS
Available Channels: Mobile, Web, POS, QR
Available Actions: Auto-refund, Manual review, Escalate to bank, Mark as potential fraud, Ask for more info

User Query: "%s"

Analyze the query and return ONLY a JSON response with this structure:
{
    "query_type": "most_appropriate_query_from_available_list",
    "parameters": {
        "category": "category_if_specified",
        "limit": 10,
        "threshold": 5000,
        "days": 7,
        "date_filter": "today"
    },
    "confidence": 0.9,
    "explanation": "brief_explanation_of_mapping"
}

Examples:
- "How many duplicate charges today?" -> query_type: "duplicate_charges_today"
- "Show me fraud cases" -> query_type: "fraud_disputes"
- "Break down by type" -> query_type: "breakdown_by_type"
- "List high value disputes above 10000" -> query_type: "high_value_disputes", parameters: {"threshold": 10000}
- "Summary of all disputes" -> query_type: "summary_stats"

Return ONLY the JSON, no additional text.`, queries, userQuery)
}

// parseResponse extracts and validates the JSON command from a model
// response, stripping markdown code fences when present.
func parseResponse(response string) (ParsedQuery, error) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed ParsedQuery
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return ParsedQuery{}, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if err := validate(parsed); err != nil {
		return ParsedQuery{}, err
	}
	return parsed, nil
}

func validate(parsed ParsedQuery) error {
	if _, ok := AvailableQueries[parsed.QueryType]; !ok {
		return fmt.Errorf("unknown query type: %q", parsed.QueryType)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", parsed.Confidence)
	}
	return nil
}

// FallbackParse maps a user query onto the vocabulary with local keyword
// heuristics. Used when no model is available or its answer is unusable.
func FallbackParse(userQuery string) ParsedQuery {
	query := strings.ToLower(userQuery)

	switch {
	case strings.Contains(query, "duplicate") && strings.Contains(query, "today"):
		return ParsedQuery{
			QueryType:   QueryDuplicateChargesToday,
			Confidence:  0.7,
			Explanation: "Fallback: detected duplicate + today keywords",
		}
	case strings.Contains(query, "fraud"):
		return ParsedQuery{
			QueryType:   QueryFraudDisputes,
			Parameters:  Parameters{Limit: 10},
			Confidence:  0.6,
			Explanation: "Fallback: detected fraud keyword",
		}
	case strings.Contains(query, "breakdown") || strings.Contains(query, "break down"):
		return ParsedQuery{
			QueryType:   QueryBreakdownByType,
			Confidence:  0.6,
			Explanation: "Fallback: detected breakdown keyword",
		}
	case strings.Contains(query, "refund"):
		return ParsedQuery{
			QueryType:   QueryPendingRefunds,
			Confidence:  0.6,
			Explanation: "Fallback: detected refund keyword",
		}
	case strings.Contains(query, "unresolved") || strings.Contains(query, "attention"):
		return ParsedQuery{
			QueryType:   QueryUnresolvedDisputes,
			Parameters:  Parameters{Limit: 20},
			Confidence:  0.6,
			Explanation: "Fallback: detected unresolved keyword",
		}
	case strings.Contains(query, "high value") || strings.Contains(query, "high-value"):
		return ParsedQuery{
			QueryType:   QueryHighValueDisputes,
			Parameters:  Parameters{Threshold: 5000},
			Confidence:  0.6,
			Explanation: "Fallback: detected high-value keyword",
		}
	case strings.Contains(query, "summary") || strings.Contains(query, "stats"):
		return ParsedQuery{
			QueryType:   QuerySummaryStats,
			Confidence:  0.6,
			Explanation: "Fallback: detected summary/stats keyword",
		}
	default:
		return ParsedQuery{
			QueryType:   QuerySummaryStats,
			Confidence:  0.3,
			Explanation: "Fallback: no keyword matched, defaulting to summary",
		}
	}
}
