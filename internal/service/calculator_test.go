package service

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/cache"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var refDate = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

func testEntry(desc string, amount float64, date time.Time, dir domain.Direction, status domain.EntryStatus) domain.Entry {
	return domain.Entry{
		ID:          "e-" + desc,
		Description: desc,
		Amount:      decimal.NewFromFloat(amount),
		Date:        date,
		Direction:   dir,
		Status:      status,
	}
}

func TestComputeAggregateBalance(t *testing.T) {
	entries := []domain.Entry{
		testEntry("salario", 1000, refDate.AddDate(0, 0, -10), domain.DirectionInflow, domain.StatusPaid),
		testEntry("mercado", 400, refDate.AddDate(0, 0, -5), domain.DirectionOutflow, domain.StatusPaid),
		testEntry("freela", 300, refDate.AddDate(0, 0, 3), domain.DirectionInflow, domain.StatusPending),
		testEntry("seguro", 200, refDate.AddDate(0, 0, 5), domain.DirectionOutflow, domain.StatusPending),
	}

	snap := ComputeAggregate(entries, nil, nil, nil, refDate)

	if !snap.Balance.CurrentBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("current balance = %s, want 600", snap.Balance.CurrentBalance)
	}
	if !snap.Balance.ProjectedBalance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("projected balance = %s, want 700", snap.Balance.ProjectedBalance)
	}
	if snap.Balance.PaidCount != 2 || snap.Balance.PendingCount != 2 {
		t.Errorf("paid/pending counts = %d/%d, want 2/2", snap.Balance.PaidCount, snap.Balance.PendingCount)
	}
	if snap.Balance.TotalEntries != 4 {
		t.Errorf("total entries = %d, want 4", snap.Balance.TotalEntries)
	}
}

func TestComputeAggregateCancelledExcludedFromSums(t *testing.T) {
	entries := []domain.Entry{
		testEntry("pago", 500, refDate.AddDate(0, 0, -1), domain.DirectionInflow, domain.StatusPaid),
		testEntry("cancelado", 999, refDate.AddDate(0, 0, -1), domain.DirectionInflow, domain.StatusCancelled),
	}

	snap := ComputeAggregate(entries, nil, nil, nil, refDate)

	if !snap.Balance.CurrentBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("current balance = %s, want 500 (cancelled must not count)", snap.Balance.CurrentBalance)
	}
	if snap.Balance.TotalEntries != 2 {
		t.Errorf("total entries = %d, want 2", snap.Balance.TotalEntries)
	}
	if snap.Balance.PaidCount != 1 || snap.Balance.PendingCount != 0 {
		t.Errorf("paid/pending counts = %d/%d, want 1/0", snap.Balance.PaidCount, snap.Balance.PendingCount)
	}
}

func TestComputeAggregateOverduePriorities(t *testing.T) {
	entries := []domain.Entry{
		testEntry("dez-dias", 100, refDate.AddDate(0, 0, -10), domain.DirectionOutflow, domain.StatusPending),
		testEntry("trinta-cinco", 200, refDate.AddDate(0, 0, -35), domain.DirectionOutflow, domain.StatusPending),
		testEntry("hoje", 50, refDate, domain.DirectionOutflow, domain.StatusPending),
		testEntry("recebivel-atrasado", 300, refDate.AddDate(0, 0, -20), domain.DirectionInflow, domain.StatusPending),
	}

	snap := ComputeAggregate(entries, nil, nil, nil, refDate)

	if len(snap.OverdueEntries) != 2 {
		t.Fatalf("overdue entries = %d, want 2", len(snap.OverdueEntries))
	}
	// Sorted by days late, worst first.
	if snap.OverdueEntries[0].DaysLate != 35 || snap.OverdueEntries[0].Priority != domain.PriorityHigh {
		t.Errorf("worst overdue = %d days %s, want 35 HIGH",
			snap.OverdueEntries[0].DaysLate, snap.OverdueEntries[0].Priority)
	}
	if snap.OverdueEntries[1].DaysLate != 10 || snap.OverdueEntries[1].Priority != domain.PriorityMedium {
		t.Errorf("second overdue = %d days %s, want 10 MEDIUM",
			snap.OverdueEntries[1].DaysLate, snap.OverdueEntries[1].Priority)
	}

	// Due today is upcoming with TODAY priority, never overdue.
	if len(snap.UpcomingEntries) != 1 {
		t.Fatalf("upcoming entries = %d, want 1", len(snap.UpcomingEntries))
	}
	if snap.UpcomingEntries[0].DaysUntilDue != 0 || snap.UpcomingEntries[0].Priority != domain.PriorityToday {
		t.Errorf("upcoming = %d days %s, want 0 TODAY",
			snap.UpcomingEntries[0].DaysUntilDue, snap.UpcomingEntries[0].Priority)
	}

	if !snap.OverdueAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("overdue amount = %s, want 300", snap.OverdueAmount)
	}
}

func TestComputeAggregateUpcomingWindow(t *testing.T) {
	entries := []domain.Entry{
		testEntry("dentro", 100, refDate.AddDate(0, 0, 7), domain.DirectionOutflow, domain.StatusPending),
		testEntry("fora", 100, refDate.AddDate(0, 0, 8), domain.DirectionOutflow, domain.StatusPending),
	}

	snap := ComputeAggregate(entries, nil, nil, nil, refDate)

	if len(snap.UpcomingEntries) != 1 {
		t.Fatalf("upcoming entries = %d, want 1 (seven day window)", len(snap.UpcomingEntries))
	}
	if snap.UpcomingEntries[0].Entry.Description != "dentro" {
		t.Errorf("upcoming entry = %q, want dentro", snap.UpcomingEntries[0].Entry.Description)
	}
}

func TestComputeAggregateOverdueFixedCosts(t *testing.T) {
	costs := []domain.FixedCost{
		{ID: "fc1", Description: "Plano de saúde", Amount: decimal.NewFromInt(400), DueDate: refDate.AddDate(0, 0, -5)},
		{ID: "fc2", Description: "Aluguel", Amount: decimal.NewFromInt(1800), DueDate: refDate.AddDate(0, 0, 2)},
	}

	snap := ComputeAggregate(nil, costs, nil, nil, refDate)

	if len(snap.OverdueFixedCosts) != 1 {
		t.Fatalf("overdue fixed costs = %d, want 1", len(snap.OverdueFixedCosts))
	}
	got := snap.OverdueFixedCosts[0]
	if got.DaysLate != 5 || got.Priority != domain.PriorityMedium {
		t.Errorf("overdue cost = %d days %s, want 5 MEDIUM", got.DaysLate, got.Priority)
	}
	if snap.OverdueCount != 1 {
		t.Errorf("overdue count = %d, want 1", snap.OverdueCount)
	}
	if !snap.OverdueAmount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("overdue amount = %s, want 400", snap.OverdueAmount)
	}
}

func TestComputeAggregateCategoryRollup(t *testing.T) {
	categories := []domain.Category{
		{ID: "c1", Code: "MERCADO", Name: "Alimentação"},
		{ID: "c2", Code: "TRANSPORTE", Name: "Transporte"},
	}
	e1 := testEntry("feira", 800, refDate.AddDate(0, 0, -3), domain.DirectionOutflow, domain.StatusPaid)
	e1.CategoryID = "c1"
	e2 := testEntry("gasolina", 200, refDate.AddDate(0, 0, -2), domain.DirectionOutflow, domain.StatusPaid)
	e2.CategoryID = "c2"
	// Pending outflow must not enter the rollup.
	e3 := testEntry("pendente", 5000, refDate.AddDate(0, 0, 1), domain.DirectionOutflow, domain.StatusPending)
	e3.CategoryID = "c1"

	snap := ComputeAggregate([]domain.Entry{e1, e2, e3}, nil, nil, categories, refDate)

	if len(snap.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(snap.Categories))
	}
	if snap.TopCategory != "Alimentação" {
		t.Errorf("top category = %q, want Alimentação", snap.TopCategory)
	}
	if snap.Categories[0].Percentage != 80 {
		t.Errorf("top percentage = %v, want 80", snap.Categories[0].Percentage)
	}
	if snap.Categories[1].Percentage != 20 {
		t.Errorf("second percentage = %v, want 20", snap.Categories[1].Percentage)
	}

	var sum float64
	for _, c := range snap.Categories {
		sum += c.Percentage
	}
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("percentage sum = %v, want ~100", sum)
	}
}

func TestComputeAggregateMissingReferences(t *testing.T) {
	e1 := testEntry("orfao", 100, refDate.AddDate(0, 0, -4), domain.DirectionOutflow, domain.StatusPending)
	e1.CategoryID = "nope"
	e1.AccountID = "nope"
	e2 := testEntry("sem-categoria", 50, refDate.AddDate(0, 0, -1), domain.DirectionOutflow, domain.StatusPaid)

	snap := ComputeAggregate([]domain.Entry{e1, e2}, nil, nil, nil, refDate)

	if snap.OverdueEntries[0].CategoryName != domain.NotFoundLabel {
		t.Errorf("unresolved category = %q, want %q", snap.OverdueEntries[0].CategoryName, domain.NotFoundLabel)
	}
	if snap.OverdueEntries[0].AccountName != domain.NotFoundLabel {
		t.Errorf("unresolved account = %q, want %q", snap.OverdueEntries[0].AccountName, domain.NotFoundLabel)
	}
	if snap.Categories[0].Category != domain.NoCategoryLabel {
		t.Errorf("rollup bucket = %q, want %q", snap.Categories[0].Category, domain.NoCategoryLabel)
	}
}

func TestComputeAggregateAccountRollup(t *testing.T) {
	accounts := []domain.Account{
		{ID: "a1", Code: "CC", Name: "Conta Corrente"},
		{ID: "a2", Code: "POUP", Name: "Poupança"},
	}
	e1 := testEntry("salario", 1000, refDate.AddDate(0, 0, -5), domain.DirectionInflow, domain.StatusPaid)
	e1.AccountID = "a1"
	e2 := testEntry("mercado", 300, refDate.AddDate(0, 0, -3), domain.DirectionOutflow, domain.StatusPaid)
	e2.AccountID = "a1"
	e3 := testEntry("rendimento", 50, refDate.AddDate(0, 0, -1), domain.DirectionInflow, domain.StatusPaid)
	e3.AccountID = "a2"
	// Pending seeds the account group but contributes nothing to sums.
	e4 := testEntry("pendente", 900, refDate.AddDate(0, 0, 1), domain.DirectionOutflow, domain.StatusPending)
	e4.AccountID = "a2"

	snap := ComputeAggregate([]domain.Entry{e1, e2, e3, e4}, nil, accounts, nil, refDate)

	if len(snap.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(snap.Accounts))
	}
	if snap.Accounts[0].Account != "Conta Corrente" {
		t.Errorf("first account = %q, want Conta Corrente (highest net)", snap.Accounts[0].Account)
	}
	if !snap.Accounts[0].Net.Equal(decimal.NewFromInt(700)) {
		t.Errorf("net = %s, want 700", snap.Accounts[0].Net)
	}
	if !snap.Accounts[1].Net.Equal(decimal.NewFromInt(50)) {
		t.Errorf("second net = %s, want 50", snap.Accounts[1].Net)
	}
}

func TestComputeAggregateMonthlyProjection(t *testing.T) {
	entries := []domain.Entry{
		testEntry("pago", 1000, refDate.AddDate(0, 0, -5), domain.DirectionInflow, domain.StatusPaid),
		testEntry("dentro-do-mes", 200, refDate.AddDate(0, 0, 10), domain.DirectionOutflow, domain.StatusPending),
		testEntry("proximo-mes", 999, refDate.AddDate(0, 0, 40), domain.DirectionOutflow, domain.StatusPending),
		testEntry("receber-no-mes", 300, refDate.AddDate(0, 0, 12), domain.DirectionInflow, domain.StatusPending),
	}

	snap := ComputeAggregate(entries, nil, nil, nil, refDate)

	if !snap.Projection.RemainingExpenses.Equal(decimal.NewFromInt(200)) {
		t.Errorf("remaining expenses = %s, want 200 (next month excluded)", snap.Projection.RemainingExpenses)
	}
	if !snap.Projection.RemainingIncome.Equal(decimal.NewFromInt(300)) {
		t.Errorf("remaining income = %s, want 300", snap.Projection.RemainingIncome)
	}
	if !snap.Projection.ProjectedEndOfMonth.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("projected end of month = %s, want 1100", snap.Projection.ProjectedEndOfMonth)
	}
	// March 15th to March 31st.
	if snap.Projection.DaysRemaining != 16 {
		t.Errorf("days remaining = %d, want 16", snap.Projection.DaysRemaining)
	}
}

func TestComputeAggregateEmptyInput(t *testing.T) {
	snap := ComputeAggregate(nil, nil, nil, nil, refDate)

	if !snap.Balance.CurrentBalance.IsZero() {
		t.Errorf("current balance = %s, want 0", snap.Balance.CurrentBalance)
	}
	if snap.OverdueEntries == nil || snap.Categories == nil || snap.Accounts == nil {
		t.Error("slices must be empty, not nil")
	}
	if snap.TopCategory != "" {
		t.Errorf("top category = %q, want empty", snap.TopCategory)
	}
}

func TestComputeAggregateIdempotent(t *testing.T) {
	entries := []domain.Entry{
		testEntry("a", 100, refDate.AddDate(0, 0, -40), domain.DirectionOutflow, domain.StatusPending),
		testEntry("b", 250, refDate.AddDate(0, 0, -1), domain.DirectionOutflow, domain.StatusPaid),
	}

	first := ComputeAggregate(entries, nil, nil, nil, refDate)
	second := ComputeAggregate(entries, nil, nil, nil, refDate)

	if !first.Balance.CurrentBalance.Equal(second.Balance.CurrentBalance) ||
		first.OverdueCount != second.OverdueCount ||
		!first.OverdueAmount.Equal(second.OverdueAmount) {
		t.Error("same input and reference date must produce the same snapshot")
	}
}

// fakeReader implements port.SnapshotReader with canned data.
type fakeReader struct {
	entries    []domain.Entry
	costs      []domain.FixedCost
	accounts   []domain.Account
	categories []domain.Category
	err        error
	listCalls  int
}

func (f *fakeReader) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	f.listCalls++
	return f.entries, f.err
}

func (f *fakeReader) ListEntriesByDateRange(ctx context.Context, start, end *time.Time) ([]domain.Entry, error) {
	f.listCalls++
	out := []domain.Entry{}
	for _, e := range f.entries {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		out = append(out, e)
	}
	return out, f.err
}

func (f *fakeReader) ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error) {
	return f.costs, f.err
}

func (f *fakeReader) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return f.accounts, f.err
}

func (f *fakeReader) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func newTestCalculator(reader *fakeReader) *CalculatorService {
	return NewCalculatorService(
		reader,
		cache.New[*domain.AggregateSnapshot](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestAggregateCachesByReferenceDate(t *testing.T) {
	reader := &fakeReader{
		entries: []domain.Entry{
			testEntry("salario", 1000, refDate.AddDate(0, 0, -1), domain.DirectionInflow, domain.StatusPaid),
		},
	}
	svc := newTestCalculator(reader)

	first, err := svc.Aggregate(context.Background(), refDate)
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	calls := reader.listCalls

	second, err := svc.Aggregate(context.Background(), refDate)
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if reader.listCalls != calls {
		t.Errorf("second call hit the store (%d -> %d list calls), want cached", calls, reader.listCalls)
	}
	if first != second {
		t.Error("expected the cached snapshot pointer")
	}

	// A different reference date is a different cache key.
	if _, err := svc.Aggregate(context.Background(), refDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("third aggregate: %v", err)
	}
	if reader.listCalls == calls {
		t.Error("different reference date must recompute")
	}
}

func TestCurrentBalanceAndOverdueTotal(t *testing.T) {
	reader := &fakeReader{
		entries: []domain.Entry{
			testEntry("salario", 900, refDate.AddDate(0, 0, -2), domain.DirectionInflow, domain.StatusPaid),
			testEntry("atrasado", 150, refDate.AddDate(0, 0, -9), domain.DirectionOutflow, domain.StatusPending),
		},
		costs: []domain.FixedCost{
			{ID: "fc", Description: "Internet", Amount: decimal.NewFromInt(120), DueDate: refDate.AddDate(0, 0, -2)},
		},
	}
	svc := newTestCalculator(reader)

	balance, err := svc.CurrentBalance(context.Background(), refDate)
	if err != nil {
		t.Fatalf("current balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("balance = %s, want 900", balance)
	}

	amount, count, err := svc.OverdueTotal(context.Background(), refDate)
	if err != nil {
		t.Fatalf("overdue total: %v", err)
	}
	if count != 2 {
		t.Errorf("overdue count = %d, want 2", count)
	}
	if !amount.Equal(decimal.NewFromInt(270)) {
		t.Errorf("overdue amount = %s, want 270", amount)
	}
}

func TestQuickSummaryFirstAlert(t *testing.T) {
	reader := &fakeReader{
		entries: []domain.Entry{
			testEntry("muito-atrasado", 500, refDate.AddDate(0, 0, -45), domain.DirectionOutflow, domain.StatusPending),
		},
	}
	svc := newTestCalculator(reader)

	summary, err := svc.QuickSummary(context.Background(), refDate)
	if err != nil {
		t.Fatalf("quick summary: %v", err)
	}
	if summary.OverdueEntries != 1 {
		t.Errorf("overdue entries = %d, want 1", summary.OverdueEntries)
	}
	if summary.AlertCount == 0 || summary.FirstAlert == nil {
		t.Fatal("expected at least one alert for a severely late expense")
	}
	if summary.FirstAlert.Kind != domain.AlertCritical {
		t.Errorf("first alert kind = %s, want critical", summary.FirstAlert.Kind)
	}
}
