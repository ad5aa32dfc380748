package service

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestLedger(store *fakeStore) *LedgerService {
	return NewLedgerService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCreateBankGeneratesIDAndTimestamps(t *testing.T) {
	store := &fakeStore{}
	svc := newTestLedger(store)

	bank, err := svc.CreateBank(context.Background(), &domain.Bank{Code: "341", Name: "Itaú Unibanco"})
	if err != nil {
		t.Fatalf("create bank: %v", err)
	}
	if bank.ID == "" {
		t.Error("expected a generated id")
	}
	if bank.CreatedAt.IsZero() || bank.UpdatedAt.IsZero() {
		t.Error("expected creation timestamps")
	}
	if len(store.banks) != 1 {
		t.Errorf("stored banks = %d, want 1", len(store.banks))
	}
}

func TestCreateBankRejectsDuplicateCode(t *testing.T) {
	store := &fakeStore{}
	svc := newTestLedger(store)

	if _, err := svc.CreateBank(context.Background(), &domain.Bank{Code: "001", Name: "Banco do Brasil"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateBank(context.Background(), &domain.Bank{Code: "001", Name: "Outro"})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUpdateBankAllowsKeepingOwnCode(t *testing.T) {
	store := &fakeStore{}
	svc := newTestLedger(store)

	bank, err := svc.CreateBank(context.Background(), &domain.Bank{Code: "260", Name: "Nubank"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateBank(context.Background(), bank.ID, &domain.Bank{Code: "260", Name: "Nu Pagamentos"})
	if err != nil {
		t.Fatalf("update with unchanged code: %v", err)
	}
	if updated.Name != "Nu Pagamentos" {
		t.Errorf("name = %q, want Nu Pagamentos", updated.Name)
	}
	if !updated.CreatedAt.Equal(bank.CreatedAt) {
		t.Error("update must preserve the original creation timestamp")
	}
}

func TestBatchCreateBanksRejectsIntraBatchDuplicate(t *testing.T) {
	svc := newTestLedger(&fakeStore{})

	_, err := svc.BatchCreateBanks(context.Background(), []domain.Bank{
		{Code: "001", Name: "Banco do Brasil"},
		{Code: "001", Name: "Duplicado"},
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestBatchCreateBanksRejectsStoredDuplicate(t *testing.T) {
	store := &fakeStore{}
	svc := newTestLedger(store)

	if _, err := svc.CreateBank(context.Background(), &domain.Bank{Code: "104", Name: "Caixa"}); err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	_, err := svc.BatchCreateBanks(context.Background(), []domain.Bank{
		{Code: "033", Name: "Santander"},
		{Code: "104", Name: "Caixa de novo"},
	})
	var duplicate *domain.ErrDuplicate
	if !errors.As(err, &duplicate) {
		t.Fatalf("err = %v, want duplicate error", err)
	}
	// The whole batch is rejected before any insert.
	if len(store.banks) != 1 {
		t.Errorf("stored banks = %d, want 1 (batch must be atomic up front)", len(store.banks))
	}
}

func TestCreateEntryValidation(t *testing.T) {
	svc := newTestLedger(&fakeStore{})
	ctx := context.Background()

	cases := []struct {
		name  string
		entry domain.Entry
	}{
		{"missing description", domain.Entry{Amount: decimal.NewFromInt(10), Date: refDate, Direction: domain.DirectionOutflow, Status: domain.StatusPending}},
		{"negative amount", domain.Entry{Description: "x", Amount: decimal.NewFromInt(-10), Date: refDate, Direction: domain.DirectionOutflow, Status: domain.StatusPending}},
		{"missing date", domain.Entry{Description: "x", Amount: decimal.NewFromInt(10), Direction: domain.DirectionOutflow, Status: domain.StatusPending}},
		{"bad direction", domain.Entry{Description: "x", Amount: decimal.NewFromInt(10), Date: refDate, Direction: "sideways", Status: domain.StatusPending}},
		{"bad status", domain.Entry{Description: "x", Amount: decimal.NewFromInt(10), Date: refDate, Direction: domain.DirectionOutflow, Status: "maybe"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := tc.entry
			_, err := svc.CreateEntry(ctx, &entry)
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateAccountValidatesType(t *testing.T) {
	svc := newTestLedger(&fakeStore{})

	_, err := svc.CreateAccount(context.Background(), &domain.Account{Code: "CC", Name: "Conta", Type: "offshore"})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	if _, err := svc.CreateAccount(context.Background(), &domain.Account{Code: "CC", Name: "Conta", Type: domain.AccountChecking}); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}
}

func TestFixedCostsTotal(t *testing.T) {
	store := &fakeStore{
		fixedCosts: []domain.FixedCost{
			{ID: "1", Description: "Aluguel", Amount: decimal.NewFromInt(1800), DueDate: refDate},
			{ID: "2", Description: "Internet", Amount: decimal.NewFromFloat(119.90), DueDate: refDate},
		},
	}
	svc := newTestLedger(store)

	total, count, err := svc.FixedCostsTotal(context.Background())
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !total.Equal(decimal.NewFromFloat(1919.90)) {
		t.Errorf("total = %s, want 1919.90", total)
	}
}

func TestEntriesBalancePaidOnly(t *testing.T) {
	store := &fakeStore{
		entries: []domain.Entry{
			testEntry("salario", 1000, refDate, domain.DirectionInflow, domain.StatusPaid),
			testEntry("mercado", 300, refDate, domain.DirectionOutflow, domain.StatusPaid),
			testEntry("pendente", 999, refDate, domain.DirectionOutflow, domain.StatusPending),
			testEntry("cancelado", 999, refDate, domain.DirectionInflow, domain.StatusCancelled),
		},
	}
	svc := newTestLedger(store)

	balance, err := svc.EntriesBalance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("balance = %s, want 700 (paid entries only)", balance)
	}
}

func TestUpdateEntryNotFound(t *testing.T) {
	svc := newTestLedger(&fakeStore{})

	entry := testEntry("fantasma", 10, refDate, domain.DirectionOutflow, domain.StatusPending)
	_, err := svc.UpdateEntry(context.Background(), "missing-id", &entry)
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
