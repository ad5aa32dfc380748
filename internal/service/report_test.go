package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fakeStore implements port.LedgerStore in memory.
type fakeStore struct {
	banks      []domain.Bank
	accounts   []domain.Account
	categories []domain.Category
	fixedCosts []domain.FixedCost
	entries    []domain.Entry
	incomes    []domain.Income

	failReplaceEntryID string
	listBanksErr       error
}

func (f *fakeStore) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	return f.banks, f.listBanksErr
}

func (f *fakeStore) GetBank(ctx context.Context, id string) (*domain.Bank, error) {
	for i := range f.banks {
		if f.banks[i].ID == id {
			return &f.banks[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "bank", ID: id}
}

func (f *fakeStore) InsertBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error) {
	f.banks = append(f.banks, *bank)
	return bank, nil
}

func (f *fakeStore) ReplaceBank(ctx context.Context, id string, bank *domain.Bank) error {
	for i := range f.banks {
		if f.banks[i].ID == id {
			f.banks[i] = *bank
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "bank", ID: id}
}

func (f *fakeStore) DeleteBank(ctx context.Context, id string) error {
	for i := range f.banks {
		if f.banks[i].ID == id {
			f.banks = append(f.banks[:i], f.banks[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "bank", ID: id}
}

func (f *fakeStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return f.accounts, nil
}

func (f *fakeStore) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "account", ID: id}
}

func (f *fakeStore) InsertAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	f.accounts = append(f.accounts, *account)
	return account, nil
}

func (f *fakeStore) ReplaceAccount(ctx context.Context, id string, account *domain.Account) error {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			f.accounts[i] = *account
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "account", ID: id}
}

func (f *fakeStore) DeleteAccount(ctx context.Context, id string) error {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			f.accounts = append(f.accounts[:i], f.accounts[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "account", ID: id}
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "category", ID: id}
}

func (f *fakeStore) InsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	f.categories = append(f.categories, *category)
	return category, nil
}

func (f *fakeStore) ReplaceCategory(ctx context.Context, id string, category *domain.Category) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i] = *category
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "category", ID: id}
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "category", ID: id}
}

func (f *fakeStore) ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error) {
	return f.fixedCosts, nil
}

func (f *fakeStore) GetFixedCost(ctx context.Context, id string) (*domain.FixedCost, error) {
	for i := range f.fixedCosts {
		if f.fixedCosts[i].ID == id {
			return &f.fixedCosts[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "fixed_cost", ID: id}
}

func (f *fakeStore) InsertFixedCost(ctx context.Context, cost *domain.FixedCost) (*domain.FixedCost, error) {
	f.fixedCosts = append(f.fixedCosts, *cost)
	return cost, nil
}

func (f *fakeStore) ReplaceFixedCost(ctx context.Context, id string, cost *domain.FixedCost) error {
	for i := range f.fixedCosts {
		if f.fixedCosts[i].ID == id {
			f.fixedCosts[i] = *cost
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "fixed_cost", ID: id}
}

func (f *fakeStore) DeleteFixedCost(ctx context.Context, id string) error {
	for i := range f.fixedCosts {
		if f.fixedCosts[i].ID == id {
			f.fixedCosts = append(f.fixedCosts[:i], f.fixedCosts[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "fixed_cost", ID: id}
}

func (f *fakeStore) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	return f.entries, nil
}

func (f *fakeStore) ListEntriesByDateRange(ctx context.Context, start, end *time.Time) ([]domain.Entry, error) {
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
	return out, nil
}

func (f *fakeStore) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "entry", ID: id}
}

func (f *fakeStore) InsertEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	f.entries = append(f.entries, *entry)
	return entry, nil
}

func (f *fakeStore) ReplaceEntry(ctx context.Context, id string, entry *domain.Entry) error {
	if id == f.failReplaceEntryID {
		return fmt.Errorf("write rejected for %s", id)
	}
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i] = *entry
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "entry", ID: id}
}

func (f *fakeStore) DeleteEntry(ctx context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "entry", ID: id}
}

func (f *fakeStore) ListIncomes(ctx context.Context) ([]domain.Income, error) {
	return f.incomes, nil
}

func (f *fakeStore) GetIncome(ctx context.Context, id string) (*domain.Income, error) {
	for i := range f.incomes {
		if f.incomes[i].ID == id {
			return &f.incomes[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "income", ID: id}
}

func (f *fakeStore) InsertIncome(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	f.incomes = append(f.incomes, *income)
	return income, nil
}

func (f *fakeStore) ReplaceIncome(ctx context.Context, id string, income *domain.Income) error {
	for i := range f.incomes {
		if f.incomes[i].ID == id {
			f.incomes[i] = *income
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "income", ID: id}
}

func (f *fakeStore) DeleteIncome(ctx context.Context, id string) error {
	for i := range f.incomes {
		if f.incomes[i].ID == id {
			f.incomes = append(f.incomes[:i], f.incomes[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "income", ID: id}
}

func (f *fakeStore) CollectionCounts(ctx context.Context) (map[string]int, error) {
	return map[string]int{
		"banks":       len(f.banks),
		"accounts":    len(f.accounts),
		"categories":  len(f.categories),
		"fixed_costs": len(f.fixedCosts),
		"entries":     len(f.entries),
		"incomes":     len(f.incomes),
	}, nil
}

func (f *fakeStore) PurgeAll(ctx context.Context) error {
	f.banks = nil
	f.accounts = nil
	f.categories = nil
	f.fixedCosts = nil
	f.entries = nil
	f.incomes = nil
	return nil
}

const testSweepCutoffDays = 60

func newTestReport(store *fakeStore) *ReportService {
	return NewReportService(store, observability.NewMetrics(), zap.NewNop(), testSweepCutoffDays)
}

func TestGenerateReportDetails(t *testing.T) {
	paid := testEntry("mercado", 250, refDate.AddDate(0, 0, -3), domain.DirectionOutflow, domain.StatusPaid)
	paid.CategoryID = "c1"
	paid.AccountID = "a1"
	overdue := testEntry("boleto", 180, refDate.AddDate(0, 0, -8), domain.DirectionOutflow, domain.StatusPending)

	store := &fakeStore{
		categories: []domain.Category{{ID: "c1", Code: "MERCADO", Name: "Alimentação"}},
		accounts:   []domain.Account{{ID: "a1", Code: "CC", Name: "Conta Corrente"}},
		entries:    []domain.Entry{paid, overdue},
		fixedCosts: []domain.FixedCost{
			{ID: "fc1", Description: "Internet", Amount: decimal.NewFromInt(120), DueDate: refDate.AddDate(0, 0, 2)},
		},
	}
	svc := newTestReport(store)

	report, err := svc.GenerateReport(context.Background(), nil, nil, refDate)
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}

	if len(report.Entries) != 2 {
		t.Fatalf("entry details = %d, want 2", len(report.Entries))
	}
	byDesc := map[string]domain.EntryDetail{}
	for _, d := range report.Entries {
		byDesc[d.Entry.Description] = d
	}
	if d := byDesc["mercado"]; d.StatusLabel != "Pago" || d.DirectionLabel != "Despesa" || d.CategoryName != "Alimentação" || d.Overdue {
		t.Errorf("paid detail = %+v", d)
	}
	if d := byDesc["boleto"]; d.StatusLabel != "Pendente" || !d.Overdue || d.CategoryName != domain.NotFoundLabel {
		t.Errorf("overdue detail = %+v", d)
	}

	if len(report.UpcomingFixedCosts) != 1 {
		t.Fatalf("upcoming fixed costs = %d, want 1", len(report.UpcomingFixedCosts))
	}
	if !report.UpcomingFixedCosts[0].Alert {
		t.Error("cost due in 2 days must carry the alert flag")
	}
}

func TestGenerateReportPeriodDefaults(t *testing.T) {
	store := &fakeStore{
		entries: []domain.Entry{
			testEntry("antiga", 10, refDate.AddDate(0, 0, -20), domain.DirectionOutflow, domain.StatusPaid),
			testEntry("recente", 10, refDate.AddDate(0, 0, -2), domain.DirectionOutflow, domain.StatusPaid),
		},
	}
	svc := newTestReport(store)

	report, err := svc.GenerateReport(context.Background(), nil, nil, refDate)
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if !report.Period.Start.Equal(dateOnly(refDate.AddDate(0, 0, -20))) {
		t.Errorf("period start = %s, want oldest entry date", report.Period.Start)
	}
	if !report.Period.End.Equal(dateOnly(refDate.AddDate(0, 0, -2))) {
		t.Errorf("period end = %s, want newest entry date", report.Period.End)
	}
}

func TestGenerateReportDateWindowInclusive(t *testing.T) {
	store := &fakeStore{
		entries: []domain.Entry{
			testEntry("no-inicio", 10, refDate.AddDate(0, 0, -10), domain.DirectionOutflow, domain.StatusPaid),
			testEntry("no-fim", 10, refDate, domain.DirectionOutflow, domain.StatusPaid),
			testEntry("antes", 10, refDate.AddDate(0, 0, -11), domain.DirectionOutflow, domain.StatusPaid),
			testEntry("depois", 10, refDate.AddDate(0, 0, 1), domain.DirectionOutflow, domain.StatusPaid),
		},
	}
	svc := newTestReport(store)

	start := refDate.AddDate(0, 0, -10)
	end := refDate
	report, err := svc.GenerateReport(context.Background(), &start, &end, refDate)
	if err != nil {
		t.Fatalf("generate report: %v", err)
	}
	if len(report.Entries) != 2 {
		t.Errorf("windowed entries = %d, want 2 (bounds inclusive)", len(report.Entries))
	}
}

func TestDashboardTopTruncation(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 8; i++ {
		cat := domain.Category{ID: fmt.Sprintf("c%d", i), Code: fmt.Sprintf("CAT%d", i), Name: fmt.Sprintf("Categoria %d", i)}
		store.categories = append(store.categories, cat)
		e := testEntry(fmt.Sprintf("gasto-%d", i), float64(100+i), refDate.AddDate(0, 0, -i), domain.DirectionOutflow, domain.StatusPaid)
		e.CategoryID = cat.ID
		store.entries = append(store.entries, e)
	}
	for i := 0; i < 12; i++ {
		store.entries = append(store.entries,
			testEntry(fmt.Sprintf("extra-%d", i), 5, refDate.AddDate(0, 0, -i), domain.DirectionInflow, domain.StatusPaid))
	}
	svc := newTestReport(store)

	dash, err := svc.Dashboard(context.Background(), 0, 0, refDate)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.TopCategories) != dashboardTopCount {
		t.Errorf("top categories = %d, want %d", len(dash.TopCategories), dashboardTopCount)
	}
	if len(dash.LatestEntries) != dashboardEntryCount {
		t.Errorf("latest entries = %d, want %d", len(dash.LatestEntries), dashboardEntryCount)
	}
	for i := 1; i < len(dash.LatestEntries); i++ {
		if dash.LatestEntries[i].Entry.Date.After(dash.LatestEntries[i-1].Entry.Date) {
			t.Fatal("latest entries must be sorted newest first")
		}
	}
	if dash.Period.Start.Month() != refDate.Month() {
		t.Errorf("period start month = %s, want reference month", dash.Period.Start.Month())
	}
}

func TestDashboardSplitsAlertKinds(t *testing.T) {
	store := &fakeStore{
		entries: []domain.Entry{
			testEntry("muito-atrasado", 700, refDate.AddDate(0, 0, -50), domain.DirectionOutflow, domain.StatusPending),
		},
	}
	svc := newTestReport(store)

	dash, err := svc.Dashboard(context.Background(), 0, 0, refDate)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.CriticalAlerts) == 0 {
		t.Error("expected a critical alert for the severely late expense")
	}
	for _, a := range dash.CriticalAlerts {
		if a.Kind != domain.AlertCritical {
			t.Errorf("critical bucket holds %s alert", a.Kind)
		}
	}
	for _, a := range dash.OtherAlerts {
		if a.Kind == domain.AlertCritical {
			t.Error("critical alert leaked into the other bucket")
		}
	}
}

func TestOverdueView(t *testing.T) {
	store := &fakeStore{
		entries: []domain.Entry{
			testEntry("atrasado", 150, refDate.AddDate(0, 0, -4), domain.DirectionOutflow, domain.StatusPending),
		},
		fixedCosts: []domain.FixedCost{
			{ID: "fc1", Description: "Aluguel", Amount: decimal.NewFromInt(1800), DueDate: refDate.AddDate(0, 0, -1)},
			{ID: "fc2", Description: "Academia", Amount: decimal.NewFromInt(100), DueDate: refDate.AddDate(0, 0, 5)},
		},
	}
	svc := newTestReport(store)

	view, err := svc.Overdue(context.Background(), refDate)
	if err != nil {
		t.Fatalf("overdue view: %v", err)
	}
	if view.TotalOverdue != 2 {
		t.Errorf("total overdue = %d, want 2", view.TotalOverdue)
	}
	if !view.TotalAmount.Equal(decimal.NewFromInt(1950)) {
		t.Errorf("total amount = %s, want 1950", view.TotalAmount)
	}
	if len(view.UpcomingFixedCosts) != 1 {
		t.Errorf("upcoming fixed costs = %d, want 1", len(view.UpcomingFixedCosts))
	}
}

func TestCancellationSweep(t *testing.T) {
	old := testEntry("esquecido", 90, refDate.AddDate(0, 0, -(testSweepCutoffDays+5)), domain.DirectionOutflow, domain.StatusPending)
	recent := testEntry("recente", 50, refDate.AddDate(0, 0, -10), domain.DirectionOutflow, domain.StatusPending)
	paidOld := testEntry("pago-antigo", 70, refDate.AddDate(0, 0, -90), domain.DirectionOutflow, domain.StatusPaid)

	store := &fakeStore{entries: []domain.Entry{old, recent, paidOld}}
	svc := newTestReport(store)

	result, err := svc.CancellationSweep(context.Background(), refDate)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Checked != 1 || result.Cancelled != 1 || result.Failed != 0 {
		t.Errorf("sweep counts = %d/%d/%d, want 1/1/0", result.Checked, result.Cancelled, result.Failed)
	}
	if len(result.Items) != 1 || !result.Items[0].OK || result.Items[0].EntryID != old.ID {
		t.Errorf("items = %+v, want the old pending entry cancelled", result.Items)
	}

	got, err := store.GetEntry(context.Background(), old.ID)
	if err != nil {
		t.Fatalf("get swept entry: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}

	// Untouched records keep their status.
	if e, _ := store.GetEntry(context.Background(), recent.ID); e.Status != domain.StatusPending {
		t.Error("recent pending entry must not be cancelled")
	}
	if e, _ := store.GetEntry(context.Background(), paidOld.ID); e.Status != domain.StatusPaid {
		t.Error("paid entry must not be touched")
	}
}

func TestCancellationSweepPartialFailure(t *testing.T) {
	bad := testEntry("falha", 10, refDate.AddDate(0, 0, -100), domain.DirectionOutflow, domain.StatusPending)
	good := testEntry("ok", 20, refDate.AddDate(0, 0, -100), domain.DirectionOutflow, domain.StatusPending)

	store := &fakeStore{
		entries:            []domain.Entry{bad, good},
		failReplaceEntryID: bad.ID,
	}
	svc := newTestReport(store)

	result, err := svc.CancellationSweep(context.Background(), refDate)
	if err != nil {
		t.Fatalf("sweep must not abort on per item failure: %v", err)
	}
	if result.Checked != 2 || result.Cancelled != 1 || result.Failed != 1 {
		t.Errorf("sweep counts = %d/%d/%d, want 2/1/1", result.Checked, result.Cancelled, result.Failed)
	}

	byID := map[string]domain.SweepItem{}
	for _, item := range result.Items {
		byID[item.EntryID] = item
	}
	if item := byID[bad.ID]; item.OK || item.Error == "" {
		t.Errorf("failed item = %+v, want OK=false with error message", item)
	}
	if item := byID[good.ID]; !item.OK {
		t.Errorf("good item = %+v, want OK=true", item)
	}
}
