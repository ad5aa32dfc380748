// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// BankStore holds the bank collection.
type BankStore interface {
	ListBanks(ctx context.Context) ([]domain.Bank, error)
	GetBank(ctx context.Context, id string) (*domain.Bank, error)
	InsertBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error)
	ReplaceBank(ctx context.Context, id string, bank *domain.Bank) error
	DeleteBank(ctx context.Context, id string) error
}

// AccountStore holds the account collection.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	InsertAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	ReplaceAccount(ctx context.Context, id string, account *domain.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// CategoryStore holds the category collection.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	InsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ReplaceCategory(ctx context.Context, id string, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// FixedCostStore holds the fixed cost collection.
type FixedCostStore interface {
	ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error)
	GetFixedCost(ctx context.Context, id string) (*domain.FixedCost, error)
	InsertFixedCost(ctx context.Context, cost *domain.FixedCost) (*domain.FixedCost, error)
	ReplaceFixedCost(ctx context.Context, id string, cost *domain.FixedCost) error
	DeleteFixedCost(ctx context.Context, id string) error
}

// EntryStore holds the ledger entry (lançamento) collection.
// ListEntriesByDateRange bounds are inclusive; a nil bound leaves that
// side unbounded.
type EntryStore interface {
	ListEntries(ctx context.Context) ([]domain.Entry, error)
	ListEntriesByDateRange(ctx context.Context, start, end *time.Time) ([]domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	InsertEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error)
	ReplaceEntry(ctx context.Context, id string, entry *domain.Entry) error
	DeleteEntry(ctx context.Context, id string) error
}

// IncomeStore holds the standalone receita collection.
type IncomeStore interface {
	ListIncomes(ctx context.Context) ([]domain.Income, error)
	GetIncome(ctx context.Context, id string) (*domain.Income, error)
	InsertIncome(ctx context.Context, income *domain.Income) (*domain.Income, error)
	ReplaceIncome(ctx context.Context, id string, income *domain.Income) error
	DeleteIncome(ctx context.Context, id string) error
}

// SnapshotReader is the read surface the aggregation engine needs to
// build one snapshot.
type SnapshotReader interface {
	ListEntries(ctx context.Context) ([]domain.Entry, error)
	ListEntriesByDateRange(ctx context.Context, start, end *time.Time) ([]domain.Entry, error)
	ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// AdminStore covers the seed/reset/status surface.
type AdminStore interface {
	CollectionCounts(ctx context.Context) (map[string]int, error)
	PurgeAll(ctx context.Context) error
}

// LedgerStore is the full persistence surface, implemented by the
// Supabase adapter (or any other persistence layer).
type LedgerStore interface {
	BankStore
	AccountStore
	CategoryStore
	FixedCostStore
	EntryStore
	IncomeStore
	AdminStore
}
