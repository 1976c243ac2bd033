package query

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/dispute-assist/internal/common"
	"fjacquet/dispute-assist/internal/logging"
	"fjacquet/dispute-assist/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateFilter selects a creation-date window for count queries.
type DateFilter string

const (
	DateFilterNone  DateFilter = ""
	DateFilterToday DateFilter = "today"
	DateFilterWeek  DateFilter = "week"
)

// Result is the envelope every query returns: the payload plus the query
// type, a report id, and the generation timestamp.
type Result struct {
	QueryType   string      `json:"query_type"`
	ReportID    string      `json:"report_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Results     interface{} `json:"results"`
}

// DisputeSummary is one row of a list-query result.
type DisputeSummary struct {
	DisputeID     string          `json:"dispute_id"`
	CustomerID    string          `json:"customer_id"`
	Category      models.Category `json:"category"`
	Amount        string          `json:"amount"`
	Description   string          `json:"description"`
	Action        models.Action   `json:"suggested_action"`
	Justification string          `json:"justification,omitempty"`
}

// CategoryBreakdown aggregates one category's disputes.
type CategoryBreakdown struct {
	Count       int                   `json:"count"`
	TotalAmount string                `json:"total_amount"`
	AvgAmount   string                `json:"avg_amount"`
	Actions     map[models.Action]int `json:"resolution_actions"`
}

// ChannelBreakdown aggregates one channel's disputes.
type ChannelBreakdown struct {
	Count      int                     `json:"count"`
	Categories map[models.Category]int `json:"categories"`
	AvgAmount  string                  `json:"avg_amount"`
}

// DayStats aggregates one day of disputes for the daily summary.
type DayStats struct {
	TotalDisputes int                     `json:"total_disputes"`
	Categories    map[models.Category]int `json:"categories"`
	TotalAmount   string                  `json:"total_amount"`
}

// SummaryStats is the overall statistics payload.
type SummaryStats struct {
	TotalDisputes int                     `json:"total_disputes"`
	TotalAmount   string                  `json:"total_amount"`
	AvgAmount     string                  `json:"avg_amount"`
	Categories    map[models.Category]int `json:"categories"`
	Actions       map[models.Action]int   `json:"resolution_actions"`
	Channels      map[string]int          `json:"channels"`
}

// HighValueStats is the high-value count payload.
type HighValueStats struct {
	TotalHighValue int                     `json:"total_high_value"`
	Threshold      string                  `json:"threshold"`
	ByCategory     map[models.Category]int `json:"by_category"`
	TotalAmount    string                  `json:"total_amount"`
}

// ExportFilters selects rows for ExportFiltered.
type ExportFilters struct {
	Category  models.Category
	Action    models.Action
	MinAmount decimal.Decimal
}

// Engine executes the fixed query vocabulary over loaded data.
type Engine struct {
	loader *Loader
	logger logging.Logger
	// now is injectable so date-filtered queries are testable.
	now func() time.Time
}

// NewEngine creates a query engine over the given loader.
func NewEngine(loader *Loader, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Engine{
		loader: loader,
		logger: logger,
		now:    time.Now,
	}
}

func (e *Engine) envelope(queryType string, results interface{}) Result {
	return Result{
		QueryType:   queryType,
		ReportID:    uuid.New().String(),
		GeneratedAt: e.now(),
		Results:     results,
	}
}

// filterByDate keeps rows created at or after the window start. Rows with
// unparseable creation dates are excluded from date-filtered views only.
func (e *Engine) filterByDate(rows []CombinedDispute, filter DateFilter) []CombinedDispute {
	var start time.Time
	switch filter {
	case DateFilterToday:
		now := e.now()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case DateFilterWeek:
		start = e.now().AddDate(0, 0, -7)
	default:
		return rows
	}

	var filtered []CombinedDispute
	for _, row := range rows {
		if row.CreatedAtOK && !row.CreatedAt.Before(start) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// CountByCategory counts disputes per category, or for one category when
// given, with an optional creation-date filter.
func (e *Engine) CountByCategory(category models.Category, dateFilter DateFilter) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}
	rows = e.filterByDate(rows, dateFilter)

	if category != "" {
		count := 0
		for _, row := range rows {
			if row.Category == category {
				count++
			}
		}
		queryType := fmt.Sprintf("count_%s_disputes", strings.ToLower(string(category)))
		return e.envelope(queryType, count), nil
	}

	counts := make(map[models.Category]int)
	for _, row := range rows {
		counts[row.Category]++
	}
	return e.envelope("count_disputes_by_category", counts), nil
}

// CountByAction counts disputes per suggested action, or for one action.
func (e *Engine) CountByAction(action models.Action) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	if action != "" {
		count := 0
		for _, row := range rows {
			if row.Action == action {
				count++
			}
		}
		queryType := fmt.Sprintf("count_%s_disputes",
			strings.ReplaceAll(strings.ToLower(string(action)), " ", "_"))
		return e.envelope(queryType, count), nil
	}

	counts := make(map[models.Action]int)
	for _, row := range rows {
		counts[row.Action]++
	}
	return e.envelope("count_by_resolution_status", counts), nil
}

// CountHighValue counts disputes at or above the amount threshold.
func (e *Engine) CountHighValue(threshold decimal.Decimal) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	stats := HighValueStats{
		Threshold:  threshold.String(),
		ByCategory: make(map[models.Category]int),
	}
	total := decimal.Zero
	for _, row := range rows {
		if row.Amount.GreaterThanOrEqual(threshold) {
			stats.TotalHighValue++
			stats.ByCategory[row.Category]++
			total = total.Add(row.Amount.Decimal)
		}
	}
	stats.TotalAmount = total.StringFixed(2)

	return e.envelope("count_high_value_disputes", stats), nil
}

// ListByCategory lists up to limit disputes of the given category.
func (e *Engine) ListByCategory(category models.Category, limit int) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	var list []DisputeSummary
	for _, row := range rows {
		if row.Category != category {
			continue
		}
		list = append(list, summarize(row))
		if limit > 0 && len(list) >= limit {
			break
		}
	}

	queryType := fmt.Sprintf("list_%s_disputes", strings.ToLower(string(category)))
	return e.envelope(queryType, list), nil
}

// ListUnresolved lists disputes needing attention, i.e. anything not
// resolved by an auto-refund.
func (e *Engine) ListUnresolved(limit int) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	var list []DisputeSummary
	for _, row := range rows {
		if row.Action == models.ActionAutoRefund {
			continue
		}
		list = append(list, summarize(row))
		if limit > 0 && len(list) >= limit {
			break
		}
	}

	return e.envelope("list_unresolved_disputes", list), nil
}

// ListFraud lists fraud disputes with their justifications.
func (e *Engine) ListFraud(limit int) (Result, error) {
	return e.ListByCategory(models.CategoryFraud, limit)
}

// PendingRefunds lists all refund-pending disputes.
func (e *Engine) PendingRefunds() (Result, error) {
	result, err := e.ListByCategory(models.CategoryRefundPending, 0)
	if err != nil {
		return Result{}, err
	}
	result.QueryType = "pending_refunds"
	return result, nil
}

// BreakdownByType aggregates disputes per category.
func (e *Engine) BreakdownByType() (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	type agg struct {
		count   int
		total   decimal.Decimal
		actions map[models.Action]int
	}
	byCategory := make(map[models.Category]*agg)
	for _, row := range rows {
		a := byCategory[row.Category]
		if a == nil {
			a = &agg{actions: make(map[models.Action]int)}
			byCategory[row.Category] = a
		}
		a.count++
		a.total = a.total.Add(row.Amount.Decimal)
		a.actions[row.Action]++
	}

	breakdown := make(map[models.Category]CategoryBreakdown, len(byCategory))
	for category, a := range byCategory {
		breakdown[category] = CategoryBreakdown{
			Count:       a.count,
			TotalAmount: a.total.StringFixed(2),
			AvgAmount:   a.total.Div(decimal.NewFromInt(int64(a.count))).StringFixed(2),
			Actions:     a.actions,
		}
	}

	return e.envelope("breakdown_by_type", breakdown), nil
}

// BreakdownByChannel aggregates disputes per transaction channel.
func (e *Engine) BreakdownByChannel() (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	type agg struct {
		count      int
		total      decimal.Decimal
		categories map[models.Category]int
	}
	byChannel := make(map[string]*agg)
	for _, row := range rows {
		a := byChannel[row.Channel]
		if a == nil {
			a = &agg{categories: make(map[models.Category]int)}
			byChannel[row.Channel] = a
		}
		a.count++
		a.total = a.total.Add(row.Amount.Decimal)
		a.categories[row.Category]++
	}

	breakdown := make(map[string]ChannelBreakdown, len(byChannel))
	for channel, a := range byChannel {
		breakdown[channel] = ChannelBreakdown{
			Count:      a.count,
			Categories: a.categories,
			AvgAmount:  a.total.Div(decimal.NewFromInt(int64(a.count))).StringFixed(2),
		}
	}

	return e.envelope("breakdown_by_channel", breakdown), nil
}

// DailySummary aggregates disputes per day over the last N days.
func (e *Engine) DailySummary(days int) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}
	if days <= 0 {
		days = 7
	}

	start := e.now().AddDate(0, 0, -days)
	daily := make(map[string]*DayStats)
	totals := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if !row.CreatedAtOK || row.CreatedAt.Before(start) {
			continue
		}
		day := row.CreatedAt.Format("2006-01-02")
		stats := daily[day]
		if stats == nil {
			stats = &DayStats{Categories: make(map[models.Category]int)}
			daily[day] = stats
		}
		stats.TotalDisputes++
		stats.Categories[row.Category]++
		totals[day] = totals[day].Add(row.Amount.Decimal)
	}
	for day, stats := range daily {
		stats.TotalAmount = totals[day].StringFixed(2)
	}

	return e.envelope(fmt.Sprintf("daily_summary_%d_days", days), daily), nil
}

// DuplicateChargesToday counts duplicate-charge disputes created today.
func (e *Engine) DuplicateChargesToday() (Result, error) {
	result, err := e.CountByCategory(models.CategoryDuplicateCharge, DateFilterToday)
	if err != nil {
		return Result{}, err
	}
	result.QueryType = "duplicate_charges_today"
	return result, nil
}

// Summary computes the overall statistics payload.
func (e *Engine) Summary() (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	stats := SummaryStats{
		TotalDisputes: len(rows),
		Categories:    make(map[models.Category]int),
		Actions:       make(map[models.Action]int),
		Channels:      make(map[string]int),
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount.Decimal)
		stats.Categories[row.Category]++
		stats.Actions[row.Action]++
		stats.Channels[row.Channel]++
	}
	stats.TotalAmount = total.StringFixed(2)
	if len(rows) > 0 {
		stats.AvgAmount = total.Div(decimal.NewFromInt(int64(len(rows)))).StringFixed(2)
	} else {
		stats.AvgAmount = "0.00"
	}

	return e.envelope("summary_statistics", stats), nil
}

// ExportFiltered writes the rows matching the filters to a CSV file and
// reports how many were exported.
func (e *Engine) ExportFiltered(filters ExportFilters, csvio *common.CSVIO, outputFile string) (Result, error) {
	rows, err := e.loader.Combined()
	if err != nil {
		return Result{}, err
	}

	var selected []models.ClassifiedDispute
	for _, row := range rows {
		if filters.Category != "" && row.Category != filters.Category {
			continue
		}
		if filters.Action != "" && row.Action != filters.Action {
			continue
		}
		if !filters.MinAmount.IsZero() && row.Amount.LessThan(filters.MinAmount) {
			continue
		}
		selected = append(selected, models.ClassifiedDispute{
			DisputeID:   row.DisputeID,
			TxnID:       row.TxnID,
			Amount:      row.Amount,
			Merchant:    row.Merchant,
			Channel:     row.Channel,
			Category:    row.Category,
			Confidence:  row.Confidence,
			Explanation: row.Explanation,
		})
	}
	if selected == nil {
		selected = []models.ClassifiedDispute{}
	}

	if err := common.WriteCSVFile(csvio, selected, outputFile); err != nil {
		return Result{}, fmt.Errorf("exporting filtered disputes: %w", err)
	}

	payload := map[string]interface{}{
		"exported_to":  outputFile,
		"record_count": len(selected),
	}
	return e.envelope("export_filtered_data", payload), nil
}

func summarize(row CombinedDispute) DisputeSummary {
	return DisputeSummary{
		DisputeID:     row.DisputeID,
		CustomerID:    row.CustomerID,
		Category:      row.Category,
		Amount:        row.Amount.StringFixed(2),
		Description:   row.Description,
		Action:        row.Action,
		Justification: row.Justification,
	}
}
