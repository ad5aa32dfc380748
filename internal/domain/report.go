package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overdue and near-due priorities.
const (
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityToday    = "TODAY"
	PriorityUpcoming = "UPCOMING"
)

// Fallback labels used when a foreign reference does not resolve.
const (
	NoCategoryLabel = "Sem Categoria"
	NoAccountLabel  = "Sem Conta"
	NotFoundLabel   = "Não encontrada"
)

// BalanceSummary is the balance block of an aggregate snapshot.
type BalanceSummary struct {
	PaidInflow       decimal.Decimal `json:"paid_inflow"`
	PaidOutflow      decimal.Decimal `json:"paid_outflow"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	PendingInflow    decimal.Decimal `json:"pending_inflow"`
	PendingOutflow   decimal.Decimal `json:"pending_outflow"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	TotalEntries     int             `json:"total_entries"`
	PaidCount        int             `json:"paid_count"`
	PendingCount     int             `json:"pending_count"`
}

// OverdueEntry is a pending outflow past its date.
type OverdueEntry struct {
	Entry        Entry  `json:"entry"`
	AccountName  string `json:"account_name"`
	CategoryName string `json:"category_name"`
	DaysLate     int    `json:"days_late"`
	Priority     string `json:"priority"`
}

// OverdueFixedCost is a fixed cost past its due date.
type OverdueFixedCost struct {
	FixedCost    FixedCost `json:"fixed_cost"`
	CategoryName string    `json:"category_name"`
	DaysLate     int       `json:"days_late"`
	Priority     string    `json:"priority"`
}

// UpcomingEntry is a pending outflow due within the next seven days.
type UpcomingEntry struct {
	Entry        Entry  `json:"entry"`
	DaysUntilDue int    `json:"days_until_due"`
	Priority     string `json:"priority"`
}

// UpcomingFixedCost is a fixed cost due within the next seven days.
// Alert is set when the due date is three days away or less.
type UpcomingFixedCost struct {
	FixedCost    FixedCost `json:"fixed_cost"`
	CategoryName string    `json:"category_name"`
	DaysUntilDue int       `json:"days_until_due"`
	Alert        bool      `json:"alert"`
}

// CategorySummary is one row of the expense-by-category rollup.
type CategorySummary struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// AccountSummary is one row of the per-account rollup.
type AccountSummary struct {
	Account string          `json:"account"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyProjection covers the window from the reference date to the
// last calendar day of its month.
type MonthlyProjection struct {
	RemainingIncome     decimal.Decimal `json:"remaining_income"`
	RemainingExpenses   decimal.Decimal `json:"remaining_expenses"`
	ProjectedEndOfMonth decimal.Decimal `json:"projected_end_of_month"`
	DaysRemaining       int             `json:"days_remaining"`
}

// AggregateSnapshot is the full output of one aggregation pass.
type AggregateSnapshot struct {
	ReferenceDate     time.Time           `json:"reference_date"`
	Balance           BalanceSummary      `json:"balance"`
	OverdueEntries    []OverdueEntry      `json:"overdue_entries"`
	OverdueFixedCosts []OverdueFixedCost  `json:"overdue_fixed_costs"`
	UpcomingEntries   []UpcomingEntry     `json:"upcoming_entries"`
	OverdueCount      int                 `json:"overdue_count"`
	OverdueAmount     decimal.Decimal     `json:"overdue_amount"`
	Categories        []CategorySummary   `json:"categories"`
	TopCategory       string              `json:"top_category,omitempty"`
	Accounts          []AccountSummary    `json:"accounts"`
	Projection        MonthlyProjection   `json:"projection"`
}

// AlertKind classifies the severity of an alert.
type AlertKind string

const (
	AlertCritical AlertKind = "critical"
	AlertWarning  AlertKind = "warning"
	AlertInfo     AlertKind = "info"
)

// Alert is one rule evaluation result.
type Alert struct {
	Kind        AlertKind       `json:"kind"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	Details     []string        `json:"details,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EntryDetail is one row of the detailed report listing.
type EntryDetail struct {
	Entry          Entry  `json:"entry"`
	AccountName    string `json:"account_name"`
	CategoryName   string `json:"category_name"`
	StatusLabel    string `json:"status_label"`
	DirectionLabel string `json:"direction_label"`
	Overdue        bool   `json:"overdue"`
}

// ReportPeriod is the inclusive date window a report covers.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FullReport composes the aggregation output with resolved names and
// the alert list.
type FullReport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	Period             ReportPeriod        `json:"period"`
	Balance            BalanceSummary      `json:"balance"`
	OverdueEntries     []OverdueEntry      `json:"overdue_entries"`
	OverdueFixedCosts  []OverdueFixedCost  `json:"overdue_fixed_costs"`
	UpcomingFixedCosts []UpcomingFixedCost `json:"upcoming_fixed_costs"`
	Categories         []CategorySummary   `json:"categories"`
	Accounts           []AccountSummary    `json:"accounts"`
	Entries            []EntryDetail       `json:"entries"`
	Alerts             []Alert             `json:"alerts"`
	Projection         MonthlyProjection   `json:"projection"`
}

// QuickSummary is the condensed view served by the resumo endpoints.
type QuickSummary struct {
	Balance           BalanceSummary `json:"balance"`
	OverdueEntries    int            `json:"overdue_entries"`
	OverdueFixedCosts int            `json:"overdue_fixed_costs"`
	AlertCount        int            `json:"alert_count"`
	FirstAlert        *Alert         `json:"first_alert,omitempty"`
	TopCategory       string         `json:"top_category,omitempty"`
}

// Dashboard is the curated month view.
type Dashboard struct {
	Period         ReportPeriod      `json:"period"`
	Balance        BalanceSummary    `json:"balance"`
	CriticalAlerts []Alert           `json:"critical_alerts"`
	OtherAlerts    []Alert           `json:"other_alerts"`
	TopCategories  []CategorySummary `json:"top_categories"`
	TopAccounts    []AccountSummary  `json:"top_accounts"`
	OverdueCount   int               `json:"overdue_count"`
	PendingCount   int               `json:"pending_count"`
	LatestEntries  []EntryDetail     `json:"latest_entries"`
	Projection     MonthlyProjection `json:"projection"`
}

// OverdueView groups everything past due or about to fall due.
type OverdueView struct {
	OverdueEntries     []OverdueEntry      `json:"overdue_entries"`
	OverdueFixedCosts  []OverdueFixedCost  `json:"overdue_fixed_costs"`
	UpcomingFixedCosts []UpcomingFixedCost `json:"upcoming_fixed_costs"`
	TotalOverdue       int                 `json:"total_overdue"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
}

// SweepItem is the outcome of one record in the cancellation sweep.
type SweepItem struct {
	EntryID string `json:"entry_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// SweepResult reports the cancellation sweep per item, so partial
// completion is observable instead of collapsed into a single count.
type SweepResult struct {
	ReferenceDate time.Time   `json:"reference_date"`
	Checked       int         `json:"checked"`
	Cancelled     int         `json:"cancelled"`
	Failed        int         `json:"failed"`
	Items         []SweepItem `json:"items"`
}

// CollectionStatus reports per-collection record counts for the admin
// status endpoint.
type CollectionStatus struct {
	Counts map[string]int `json:"counts"`
	Ready  bool           `json:"ready"`
}
