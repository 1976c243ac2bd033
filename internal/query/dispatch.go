package query

import (
	"fmt"
	"strings"

	"fjacquet/dispute-assist/internal/models"
	"fjacquet/dispute-assist/internal/nlquery"

	"github.com/shopspring/decimal"
)

// Dispatch executes a parsed query against the engine. It is the bridge
// between the translation vocabulary and the engine operations.
func Dispatch(e *Engine, parsed nlquery.ParsedQuery) (Result, error) {
	params := parsed.Parameters

	switch parsed.QueryType {
	case nlquery.QueryDuplicateChargesToday:
		return e.DuplicateChargesToday()
	case nlquery.QueryFraudDisputes:
		return e.ListFraud(limitOr(params.Limit, 10))
	case nlquery.QueryBreakdownByType:
		return e.BreakdownByType()
	case nlquery.QueryBreakdownByChannel:
		return e.BreakdownByChannel()
	case nlquery.QueryUnresolvedDisputes:
		return e.ListUnresolved(limitOr(params.Limit, 20))
	case nlquery.QueryPendingRefunds:
		return e.PendingRefunds()
	case nlquery.QuerySummaryStats:
		return e.Summary()
	case nlquery.QueryHighValueDisputes:
		threshold := params.Threshold
		if threshold <= 0 {
			threshold = 5000
		}
		return e.CountHighValue(decimal.NewFromFloat(threshold))
	case nlquery.QueryDailySummary:
		return e.DailySummary(params.Days)
	case nlquery.QueryCountByCategory:
		return e.CountByCategory(categoryParam(params.Category), DateFilter(params.DateFilter))
	case nlquery.QueryCountByStatus:
		return e.CountByAction("")
	case nlquery.QueryListByCategory:
		category := categoryParam(params.Category)
		if category == "" {
			return Result{}, fmt.Errorf("list_by_category requires a category parameter")
		}
		return e.ListByCategory(category, limitOr(params.Limit, 10))
	default:
		return Result{}, fmt.Errorf("unknown query type: %q", parsed.QueryType)
	}
}

func limitOr(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func categoryParam(raw string) models.Category {
	return models.Category(strings.ToUpper(strings.TrimSpace(raw)))
}
