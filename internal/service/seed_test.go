package service

import (
	"context"
	"testing"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestAdmin(store *fakeStore) *AdminService {
	ledger := newTestLedger(store)
	return NewAdminService(store, ledger, observability.NewMetrics(), zap.NewNop())
}

func TestSeedPopulatesEveryCollection(t *testing.T) {
	store := &fakeStore{}
	svc := newTestAdmin(store)

	summary, err := svc.Seed(context.Background(), refDate)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if summary.Banks != len(seedBanks) {
		t.Errorf("banks = %d, want %d", summary.Banks, len(seedBanks))
	}
	if summary.Categories != len(seedCategories) {
		t.Errorf("categories = %d, want %d", summary.Categories, len(seedCategories))
	}
	if summary.Accounts == 0 || summary.FixedCosts == 0 || summary.Entries == 0 || summary.Incomes == 0 {
		t.Errorf("summary = %+v, want every collection populated", summary)
	}

	// Seeded accounts must reference seeded banks.
	bankIDs := map[string]bool{}
	for _, b := range store.banks {
		bankIDs[b.ID] = true
	}
	for _, a := range store.accounts {
		if !bankIDs[a.BankID] {
			t.Errorf("account %s references unknown bank %q", a.Code, a.BankID)
		}
	}

	// Seeded entries must reference seeded categories.
	categoryIDs := map[string]bool{}
	for _, c := range store.categories {
		categoryIDs[c.ID] = true
	}
	for _, e := range store.entries {
		if !categoryIDs[e.CategoryID] {
			t.Errorf("entry %q references unknown category %q", e.Description, e.CategoryID)
		}
	}
}

func TestPurgeEmptiesStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newTestAdmin(store)

	if _, err := svc.Seed(context.Background(), refDate); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.Purge(context.Background()); err != nil {
		t.Fatalf("purge: %v", err)
	}

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Ready {
		t.Error("status must be ready after a successful count")
	}
	for collection, count := range status.Counts {
		if count != 0 {
			t.Errorf("collection %s holds %d records after purge", collection, count)
		}
	}
}

func TestLoadPurgeFirst(t *testing.T) {
	store := &fakeStore{
		banks: []domain.Bank{{ID: "old", Code: "999", Name: "Antigo"}},
	}
	svc := newTestAdmin(store)

	summary, err := svc.Load(context.Background(), &BulkLoad{
		PurgeFirst: true,
		Banks:      []domain.Bank{{Code: "341", Name: "Itaú Unibanco"}},
		Categories: []domain.Category{{Code: "MERCADO", Name: "Alimentação"}},
		Entries: []domain.Entry{
			{Description: "mercado", Amount: decimal.NewFromInt(100), Date: refDate, Direction: domain.DirectionOutflow, Status: domain.StatusPaid},
		},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if summary.Banks != 1 || summary.Categories != 1 || summary.Entries != 1 {
		t.Errorf("summary = %+v, want 1/1/1", summary)
	}
	if len(store.banks) != 1 || store.banks[0].Code != "341" {
		t.Errorf("banks after load = %+v, want only the loaded one", store.banks)
	}
}

func TestLoadRejectsInvalidRecord(t *testing.T) {
	store := &fakeStore{}
	svc := newTestAdmin(store)

	_, err := svc.Load(context.Background(), &BulkLoad{
		Entries: []domain.Entry{
			{Description: "", Amount: decimal.NewFromInt(100), Date: refDate, Direction: domain.DirectionOutflow, Status: domain.StatusPaid},
		},
	})
	if err == nil {
		t.Fatal("expected a validation failure for the blank description")
	}
}
