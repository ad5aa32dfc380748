package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"
	"github.com/boddenberg/controle-financeiro-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

const (
	// Days late beyond which an overdue item escalates to HIGH.
	highPriorityDays = 30
	// Days ahead considered "upcoming".
	upcomingWindowDays = 7
)

// dateOnly drops the time component, keeping the location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// endOfMonth returns the last calendar day of t's month.
func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// lookupName resolves a reference through the id map, substituting the
// fallback label when the reference is missing or does not resolve.
func lookupName(names map[string]string, id, fallback string) string {
	if id == "" {
		return fallback
	}
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fallback
}

// overduePriority applies the lateness escalation rule.
func overduePriority(daysLate int) string {
	if daysLate > highPriorityDays {
		return domain.PriorityHigh
	}
	return domain.PriorityMedium
}

// ComputeAggregate derives the full snapshot from ledger records.
// The reference date is an explicit parameter so the computation is
// deterministic; the whole pass is read-only and never fails on empty
// input.
func ComputeAggregate(entries []domain.Entry, costs []domain.FixedCost, accounts []domain.Account, categories []domain.Category, refDate time.Time) *domain.AggregateSnapshot {
	today := dateOnly(refDate)

	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}
	accountNames := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		accountNames[acc.ID] = acc.Name
	}

	snap := &domain.AggregateSnapshot{
		ReferenceDate:     today,
		OverdueEntries:    []domain.OverdueEntry{},
		OverdueFixedCosts: []domain.OverdueFixedCost{},
		UpcomingEntries:   []domain.UpcomingEntry{},
		Categories:        []domain.CategorySummary{},
		Accounts:          []domain.AccountSummary{},
	}

	// --- Balance block ---
	bal := domain.BalanceSummary{
		PaidInflow:     decimal.Zero,
		PaidOutflow:    decimal.Zero,
		PendingInflow:  decimal.Zero,
		PendingOutflow: decimal.Zero,
	}
	for _, e := range entries {
		bal.TotalEntries++
		switch e.Status {
		case domain.StatusPaid:
			bal.PaidCount++
			if e.Direction == domain.DirectionInflow {
				bal.PaidInflow = bal.PaidInflow.Add(e.Amount)
			} else {
				bal.PaidOutflow = bal.PaidOutflow.Add(e.Amount)
			}
		case domain.StatusPending:
			bal.PendingCount++
			if e.Direction == domain.DirectionInflow {
				bal.PendingInflow = bal.PendingInflow.Add(e.Amount)
			} else {
				bal.PendingOutflow = bal.PendingOutflow.Add(e.Amount)
			}
		}
	}
	bal.CurrentBalance = bal.PaidInflow.Sub(bal.PaidOutflow)
	bal.ProjectedBalance = bal.CurrentBalance.Add(bal.PendingInflow).Sub(bal.PendingOutflow)
	snap.Balance = bal

	// --- Overdue / upcoming classification ---
	overdueAmount := decimal.Zero
	for _, e := range entries {
		if e.Status != domain.StatusPending || e.Direction != domain.DirectionOutflow {
			continue
		}
		date := dateOnly(e.Date)
		if date.Before(today) {
			late := daysBetween(date, today)
			snap.OverdueEntries = append(snap.OverdueEntries, domain.OverdueEntry{
				Entry:        e,
				AccountName:  lookupName(accountNames, e.AccountID, domain.NotFoundLabel),
				CategoryName: lookupName(categoryNames, e.CategoryID, domain.NotFoundLabel),
				DaysLate:     late,
				Priority:     overduePriority(late),
			})
			overdueAmount = overdueAmount.Add(e.Amount)
			continue
		}
		until := daysBetween(today, date)
		if until <= upcomingWindowDays {
			priority := domain.PriorityUpcoming
			if until == 0 {
				priority = domain.PriorityToday
			}
			snap.UpcomingEntries = append(snap.UpcomingEntries, domain.UpcomingEntry{
				Entry:        e,
				DaysUntilDue: until,
				Priority:     priority,
			})
		}
	}
	for _, fc := range costs {
		due := dateOnly(fc.DueDate)
		if !due.Before(today) {
			continue
		}
		late := daysBetween(due, today)
		snap.OverdueFixedCosts = append(snap.OverdueFixedCosts, domain.OverdueFixedCost{
			FixedCost:    fc,
			CategoryName: lookupName(categoryNames, fc.CategoryID, domain.NotFoundLabel),
			DaysLate:     late,
			Priority:     overduePriority(late),
		})
		overdueAmount = overdueAmount.Add(fc.Amount)
	}

	sort.SliceStable(snap.OverdueEntries, func(i, j int) bool {
		return snap.OverdueEntries[i].DaysLate > snap.OverdueEntries[j].DaysLate
	})
	sort.SliceStable(snap.UpcomingEntries, func(i, j int) bool {
		return snap.UpcomingEntries[i].DaysUntilDue < snap.UpcomingEntries[j].DaysUntilDue
	})

	snap.OverdueCount = len(snap.OverdueEntries) + len(snap.OverdueFixedCosts)
	snap.OverdueAmount = overdueAmount

	// --- Category rollup (paid outflow only) ---
	type catAgg struct {
		total decimal.Decimal
		count int
	}
	catTotals := map[string]*catAgg{}
	for _, e := range entries {
		if e.Status != domain.StatusPaid || e.Direction != domain.DirectionOutflow {
			continue
		}
		name := lookupName(categoryNames, e.CategoryID, domain.NoCategoryLabel)
		agg, ok := catTotals[name]
		if !ok {
			agg = &catAgg{total: decimal.Zero}
			catTotals[name] = agg
		}
		agg.total = agg.total.Add(e.Amount)
		agg.count++
	}
	hundred := decimal.NewFromInt(100)
	for name, agg := range catTotals {
		pct := float64(0)
		if bal.PaidOutflow.IsPositive() {
			pct, _ = agg.total.Mul(hundred).Div(bal.PaidOutflow).Float64()
		}
		snap.Categories = append(snap.Categories, domain.CategorySummary{
			Category:   name,
			Total:      agg.total,
			Count:      agg.count,
			Percentage: pct,
		})
	}
	sort.SliceStable(snap.Categories, func(i, j int) bool {
		cmp := snap.Categories[i].Total.Cmp(snap.Categories[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return snap.Categories[i].Category < snap.Categories[j].Category
	})
	if len(snap.Categories) > 0 {
		snap.TopCategory = snap.Categories[0].Category
	}

	// --- Account rollup (all entries, sums restricted to paid) ---
	type acctAgg struct {
		inflow  decimal.Decimal
		outflow decimal.Decimal
	}
	acctTotals := map[string]*acctAgg{}
	for _, e := range entries {
		name := lookupName(accountNames, e.AccountID, domain.NoAccountLabel)
		agg, ok := acctTotals[name]
		if !ok {
			agg = &acctAgg{inflow: decimal.Zero, outflow: decimal.Zero}
			acctTotals[name] = agg
		}
		if e.Status != domain.StatusPaid {
			continue
		}
		if e.Direction == domain.DirectionInflow {
			agg.inflow = agg.inflow.Add(e.Amount)
		} else {
			agg.outflow = agg.outflow.Add(e.Amount)
		}
	}
	for name, agg := range acctTotals {
		snap.Accounts = append(snap.Accounts, domain.AccountSummary{
			Account: name,
			Inflow:  agg.inflow,
			Outflow: agg.outflow,
			Net:     agg.inflow.Sub(agg.outflow),
		})
	}
	sort.SliceStable(snap.Accounts, func(i, j int) bool {
		cmp := snap.Accounts[i].Net.Cmp(snap.Accounts[j].Net)
		if cmp != 0 {
			return cmp > 0
		}
		return snap.Accounts[i].Account < snap.Accounts[j].Account
	})

	// --- Monthly projection ---
	monthEnd := endOfMonth(today)
	remainingIncome := decimal.Zero
	remainingExpenses := decimal.Zero
	for _, e := range entries {
		if e.Status != domain.StatusPending {
			continue
		}
		date := dateOnly(e.Date)
		if date.Before(today) || date.After(monthEnd) {
			continue
		}
		if e.Direction == domain.DirectionInflow {
			remainingIncome = remainingIncome.Add(e.Amount)
		} else {
			remainingExpenses = remainingExpenses.Add(e.Amount)
		}
	}
	snap.Projection = domain.MonthlyProjection{
		RemainingIncome:     remainingIncome,
		RemainingExpenses:   remainingExpenses,
		ProjectedEndOfMonth: bal.CurrentBalance.Add(remainingIncome).Sub(remainingExpenses),
		DaysRemaining:       daysBetween(today, monthEnd),
	}

	return snap
}

// CalculatorService fetches ledger snapshots and runs the aggregation
// engine over them.
type CalculatorService struct {
	store   port.SnapshotReader
	cache   port.Cache[*domain.AggregateSnapshot]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCalculatorService creates the calculator with all dependencies injected.
func NewCalculatorService(store port.SnapshotReader, cache port.Cache[*domain.AggregateSnapshot], metrics *observability.Metrics, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// fetchLedger loads the four collections concurrently, optionally
// windowing the entries by date.
func fetchLedger(ctx context.Context, store port.SnapshotReader, metrics *observability.Metrics, start, end *time.Time) ([]domain.Entry, []domain.FixedCost, []domain.Account, []domain.Category, error) {
	var (
		entries    []domain.Entry
		costs      []domain.FixedCost
		accounts   []domain.Account
		categories []domain.Category
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if start != nil || end != nil {
			entries, err = store.ListEntriesByDateRange(gCtx, start, end)
		} else {
			entries, err = store.ListEntries(gCtx)
		}
		if err != nil {
			metrics.IncrStoreError("entries")
			return fmt.Errorf("entries fetch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if costs, err = store.ListFixedCosts(gCtx); err != nil {
			metrics.IncrStoreError("fixed_costs")
			return fmt.Errorf("fixed costs fetch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if accounts, err = store.ListAccounts(gCtx); err != nil {
			metrics.IncrStoreError("accounts")
			return fmt.Errorf("accounts fetch: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = store.ListCategories(gCtx); err != nil {
			metrics.IncrStoreError("categories")
			return fmt.Errorf("categories fetch: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, nil, err
	}
	return entries, costs, accounts, categories, nil
}

// Aggregate builds the snapshot for the reference date, serving a
// cached copy when one is still fresh.
func (s *CalculatorService) Aggregate(ctx context.Context, refDate time.Time) (*domain.AggregateSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Calculator.Aggregate")
	defer span.End()
	span.SetAttributes(attribute.String("reference_date", refDate.Format("2006-01-02")))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("aggregate", time.Since(start))
	}()

	cacheKey := "aggregate:" + dateOnly(refDate).Format("2006-01-02")
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("aggregate")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("aggregate")

	entries, costs, accounts, categories, err := fetchLedger(ctx, s.store, s.metrics, nil, nil)
	if err != nil {
		s.logger.Error("failed to fetch snapshot input", zap.Error(err))
		return nil, err
	}

	snap := ComputeAggregate(entries, costs, accounts, categories, refDate)
	s.cache.Set(cacheKey, snap)
	return snap, nil
}

// CurrentBalance computes only the paid inflow/outflow difference.
func (s *CalculatorService) CurrentBalance(ctx context.Context, refDate time.Time) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "Calculator.CurrentBalance")
	defer span.End()

	snap, err := s.Aggregate(ctx, refDate)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.Balance.CurrentBalance, nil
}

// OverdueTotal returns the combined overdue amount and count.
func (s *CalculatorService) OverdueTotal(ctx context.Context, refDate time.Time) (decimal.Decimal, int, error) {
	ctx, span := tracer.Start(ctx, "Calculator.OverdueTotal")
	defer span.End()

	snap, err := s.Aggregate(ctx, refDate)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return snap.OverdueAmount, snap.OverdueCount, nil
}

// QuickSummary condenses the snapshot plus alerts into the resumo view.
func (s *CalculatorService) QuickSummary(ctx context.Context, refDate time.Time) (*domain.QuickSummary, error) {
	ctx, span := tracer.Start(ctx, "Calculator.QuickSummary")
	defer span.End()

	snap, err := s.Aggregate(ctx, refDate)
	if err != nil {
		return nil, err
	}

	costs, err := s.store.ListFixedCosts(ctx)
	if err != nil {
		s.metrics.IncrStoreError("fixed_costs")
		return nil, err
	}

	alerts := EvaluateAlerts(snap, costs, refDate)
	summary := &domain.QuickSummary{
		Balance:           snap.Balance,
		OverdueEntries:    len(snap.OverdueEntries),
		OverdueFixedCosts: len(snap.OverdueFixedCosts),
		AlertCount:        len(alerts),
		TopCategory:       snap.TopCategory,
	}
	if len(alerts) > 0 {
		summary.FirstAlert = &alerts[0]
	}
	return summary, nil
}
