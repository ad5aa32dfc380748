package service

import (
	"context"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"
	"github.com/boddenberg/controle-financeiro-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Labels for the detailed report listing.
var statusLabels = map[domain.EntryStatus]string{
	domain.StatusPending:   "Pendente",
	domain.StatusPaid:      "Pago",
	domain.StatusCancelled: "Cancelado",
}

var directionLabels = map[domain.Direction]string{
	domain.DirectionInflow:  "Receita",
	domain.DirectionOutflow: "Despesa",
}

// Fixed costs this close to their due date raise the per-item alert flag.
const fixedCostAlertDays = 3

// ReportService composes the aggregation engine and the alert
// evaluator into the named report views, and owns the one mutating
// path: the cancellation sweep.
type ReportService struct {
	store           port.LedgerStore
	metrics         *observability.Metrics
	logger          *zap.Logger
	sweepCutoffDays int
}

// NewReportService creates the report facade with all dependencies injected.
func NewReportService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger, sweepCutoffDays int) *ReportService {
	return &ReportService{
		store:           store,
		metrics:         metrics,
		logger:          logger,
		sweepCutoffDays: sweepCutoffDays,
	}
}

// GenerateReport builds the full report over an optional inclusive
// date window. Nil bounds leave that side open.
func (s *ReportService) GenerateReport(ctx context.Context, start, end *time.Time, refDate time.Time) (*domain.FullReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Report.GenerateReport")
	defer span.End()
	span.SetAttributes(attribute.String("reference_date", refDate.Format("2006-01-02")))

	began := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("report", time.Since(began))
	}()

	entries, costs, accounts, categories, err := fetchLedger(ctx, s.store, s.metrics, start, end)
	if err != nil {
		s.logger.Error("failed to fetch ledger for report", zap.Error(err))
		return nil, err
	}

	snap := ComputeAggregate(entries, costs, accounts, categories, refDate)
	alerts := EvaluateAlerts(snap, costs, refDate)
	for _, a := range alerts {
		s.metrics.IncrAlert(string(a.Kind))
	}

	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}
	accountNames := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		accountNames[acc.ID] = acc.Name
	}

	today := dateOnly(refDate)
	details := make([]domain.EntryDetail, 0, len(entries))
	for _, e := range entries {
		overdue := e.Status == domain.StatusPending &&
			e.Direction == domain.DirectionOutflow &&
			dateOnly(e.Date).Before(today)
		details = append(details, domain.EntryDetail{
			Entry:          e,
			AccountName:    lookupName(accountNames, e.AccountID, domain.NotFoundLabel),
			CategoryName:   lookupName(categoryNames, e.CategoryID, domain.NotFoundLabel),
			StatusLabel:    statusLabels[e.Status],
			DirectionLabel: directionLabels[e.Direction],
			Overdue:        overdue,
		})
	}

	return &domain.FullReport{
		GeneratedAt:        refDate,
		Period:             reportPeriod(entries, start, end, today),
		Balance:            snap.Balance,
		OverdueEntries:     snap.OverdueEntries,
		OverdueFixedCosts:  snap.OverdueFixedCosts,
		UpcomingFixedCosts: upcomingFixedCosts(costs, categoryNames, today),
		Categories:         snap.Categories,
		Accounts:           snap.Accounts,
		Entries:            details,
		Alerts:             alerts,
		Projection:         snap.Projection,
	}, nil
}

// reportPeriod resolves the covered window; absent bounds default to
// the span of the entries themselves.
func reportPeriod(entries []domain.Entry, start, end *time.Time, today time.Time) domain.ReportPeriod {
	period := domain.ReportPeriod{Start: today, End: today}
	if start != nil {
		period.Start = dateOnly(*start)
	}
	if end != nil {
		period.End = dateOnly(*end)
	}
	if len(entries) == 0 {
		return period
	}
	if start == nil {
		min := dateOnly(entries[0].Date)
		for _, e := range entries[1:] {
			if d := dateOnly(e.Date); d.Before(min) {
				min = d
			}
		}
		period.Start = min
	}
	if end == nil {
		max := dateOnly(entries[0].Date)
		for _, e := range entries[1:] {
			if d := dateOnly(e.Date); d.After(max) {
				max = d
			}
		}
		period.End = max
	}
	return period
}

// upcomingFixedCosts lists costs falling due within the next seven
// days, flagging the ones three days out or closer.
func upcomingFixedCosts(costs []domain.FixedCost, categoryNames map[string]string, today time.Time) []domain.UpcomingFixedCost {
	upcoming := []domain.UpcomingFixedCost{}
	for _, fc := range costs {
		due := dateOnly(fc.DueDate)
		if due.Before(today) {
			continue
		}
		until := daysBetween(today, due)
		if until > upcomingWindowDays {
			continue
		}
		upcoming = append(upcoming, domain.UpcomingFixedCost{
			FixedCost:    fc,
			CategoryName: lookupName(categoryNames, fc.CategoryID, domain.NotFoundLabel),
			DaysUntilDue: until,
			Alert:        until <= fixedCostAlertDays,
		})
	}
	return upcoming
}

// Alerts evaluates every rule over the current ledger.
func (s *ReportService) Alerts(ctx context.Context, refDate time.Time) ([]domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Report.Alerts")
	defer span.End()

	entries, costs, accounts, categories, err := fetchLedger(ctx, s.store, s.metrics, nil, nil)
	if err != nil {
		return nil, err
	}

	snap := ComputeAggregate(entries, costs, accounts, categories, refDate)
	alerts := EvaluateAlerts(snap, costs, refDate)
	for _, a := range alerts {
		s.metrics.IncrAlert(string(a.Kind))
	}
	return alerts, nil
}

// Summary condenses the full report into the resumo view.
func (s *ReportService) Summary(ctx context.Context, start, end *time.Time, refDate time.Time) (*domain.QuickSummary, error) {
	ctx, span := tracer.Start(ctx, "Report.Summary")
	defer span.End()

	report, err := s.GenerateReport(ctx, start, end, refDate)
	if err != nil {
		return nil, err
	}

	summary := &domain.QuickSummary{
		Balance:           report.Balance,
		OverdueEntries:    len(report.OverdueEntries),
		OverdueFixedCosts: len(report.OverdueFixedCosts),
		AlertCount:        len(report.Alerts),
	}
	if len(report.Categories) > 0 {
		summary.TopCategory = report.Categories[0].Category
	}
	if len(report.Alerts) > 0 {
		summary.FirstAlert = &report.Alerts[0]
	}
	return summary, nil
}

// Overdue returns everything past due or about to fall due.
func (s *ReportService) Overdue(ctx context.Context, refDate time.Time) (*domain.OverdueView, error) {
	ctx, span := tracer.Start(ctx, "Report.Overdue")
	defer span.End()

	report, err := s.GenerateReport(ctx, nil, nil, refDate)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, oe := range report.OverdueEntries {
		total = total.Add(oe.Entry.Amount)
	}
	for _, fc := range report.OverdueFixedCosts {
		total = total.Add(fc.FixedCost.Amount)
	}

	return &domain.OverdueView{
		OverdueEntries:     report.OverdueEntries,
		OverdueFixedCosts:  report.OverdueFixedCosts,
		UpcomingFixedCosts: report.UpcomingFixedCosts,
		TotalOverdue:       len(report.OverdueEntries) + len(report.OverdueFixedCosts),
		TotalAmount:        total,
	}, nil
}

// Dashboard builds the curated month view. Month/year default to the
// reference date's month when zero.
func (s *ReportService) Dashboard(ctx context.Context, month, year int, refDate time.Time) (*domain.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "Report.Dashboard")
	defer span.End()

	today := dateOnly(refDate)
	if month == 0 || year == 0 {
		month = int(today.Month())
		year = today.Year()
	}
	windowStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	windowEnd := endOfMonth(windowStart)

	report, err := s.GenerateReport(ctx, &windowStart, &windowEnd, refDate)
	if err != nil {
		return nil, err
	}

	// Alerts consider the whole ledger, not just the month window.
	alerts, err := s.Alerts(ctx, refDate)
	if err != nil {
		return nil, err
	}

	critical := []domain.Alert{}
	others := []domain.Alert{}
	for _, a := range alerts {
		if a.Kind == domain.AlertCritical {
			critical = append(critical, a)
		} else {
			others = append(others, a)
		}
	}

	latest := append([]domain.EntryDetail(nil), report.Entries...)
	sortEntryDetailsByDateDesc(latest)
	if len(latest) > dashboardEntryCount {
		latest = latest[:dashboardEntryCount]
	}

	return &domain.Dashboard{
		Period:         report.Period,
		Balance:        report.Balance,
		CriticalAlerts: critical,
		OtherAlerts:    others,
		TopCategories:  headCategories(report.Categories, dashboardTopCount),
		TopAccounts:    headAccounts(report.Accounts, dashboardTopCount),
		OverdueCount:   len(report.OverdueEntries) + len(report.OverdueFixedCosts),
		PendingCount:   report.Balance.PendingCount,
		LatestEntries:  latest,
		Projection:     report.Projection,
	}, nil
}

const (
	dashboardTopCount   = 5
	dashboardEntryCount = 10
)

func headCategories(cats []domain.CategorySummary, n int) []domain.CategorySummary {
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

func headAccounts(accts []domain.AccountSummary, n int) []domain.AccountSummary {
	if len(accts) > n {
		accts = accts[:n]
	}
	return accts
}

func sortEntryDetailsByDateDesc(details []domain.EntryDetail) {
	for i := 1; i < len(details); i++ {
		for j := i; j > 0 && details[j].Entry.Date.After(details[j-1].Entry.Date); j-- {
			details[j], details[j-1] = details[j-1], details[j]
		}
	}
}

// CancellationSweep transitions pending entries more than the
// configured number of days past their date to cancelled. Each write
// is best effort; failures are reported per item instead of halting
// the sweep.
func (s *ReportService) CancellationSweep(ctx context.Context, refDate time.Time) (*domain.SweepResult, error) {
	ctx, span := tracer.Start(ctx, "Report.CancellationSweep")
	defer span.End()

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		s.metrics.IncrStoreError("entries")
		return nil, err
	}

	today := dateOnly(refDate)
	result := &domain.SweepResult{
		ReferenceDate: today,
		Items:         []domain.SweepItem{},
	}

	for _, e := range entries {
		if e.Status != domain.StatusPending {
			continue
		}
		if daysBetween(dateOnly(e.Date), today) <= s.sweepCutoffDays {
			continue
		}
		result.Checked++

		updated := e
		updated.Status = domain.StatusCancelled
		updated.UpdatedAt = time.Now().UTC()

		item := domain.SweepItem{EntryID: e.ID, OK: true}
		if err := s.store.ReplaceEntry(ctx, e.ID, &updated); err != nil {
			s.logger.Warn("sweep: failed to cancel entry",
				zap.String("entry_id", e.ID),
				zap.Error(err),
			)
			item.OK = false
			item.Error = err.Error()
			result.Failed++
		} else {
			result.Cancelled++
		}
		result.Items = append(result.Items, item)
	}

	s.metrics.RecordSweep(result.Cancelled, result.Failed)
	s.logger.Info("cancellation sweep finished",
		zap.Int("checked", result.Checked),
		zap.Int("cancelled", result.Cancelled),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
