package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"
	"github.com/boddenberg/controle-financeiro-go/internal/infra/observability"
	"github.com/boddenberg/controle-financeiro-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LedgerService owns the CRUD boundary over the ledger collections,
// including code uniqueness checks and the bank batch load.
type LedgerService struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLedgerService creates the ledger service with all dependencies injected.
func NewLedgerService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Banks
// ============================================================

func (s *LedgerService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListBanks")
	defer span.End()
	return s.store.ListBanks(ctx)
}

func (s *LedgerService) GetBank(ctx context.Context, id string) (*domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetBank")
	defer span.End()
	return s.store.GetBank(ctx, id)
}

func validateBank(bank *domain.Bank) error {
	if bank.Code == "" {
		return &domain.ErrValidation{Field: "code", Message: "código do banco é obrigatório"}
	}
	if bank.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "nome do banco é obrigatório"}
	}
	return nil
}

// bankCodeInUse reports whether another bank already holds the code.
func (s *LedgerService) bankCodeInUse(ctx context.Context, code, excludeID string) (bool, error) {
	banks, err := s.store.ListBanks(ctx)
	if err != nil {
		return false, err
	}
	for _, b := range banks {
		if b.Code == code && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *LedgerService) CreateBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateBank")
	defer span.End()

	if err := validateBank(bank); err != nil {
		return nil, err
	}
	inUse, err := s.bankCodeInUse(ctx, bank.Code, "")
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("já existe um banco com o código %s", bank.Code)}
	}

	now := time.Now().UTC()
	bank.ID = uuid.New().String()
	bank.CreatedAt = now
	bank.UpdatedAt = now

	stored, err := s.store.InsertBank(ctx, bank)
	if err != nil {
		s.metrics.IncrStoreError("banks")
		return nil, err
	}
	s.logger.Info("bank created", zap.String("bank_id", stored.ID), zap.String("code", stored.Code))
	return stored, nil
}

func (s *LedgerService) UpdateBank(ctx context.Context, id string, bank *domain.Bank) (*domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateBank")
	defer span.End()
	span.SetAttributes(attribute.String("bank.id", id))

	if err := validateBank(bank); err != nil {
		return nil, err
	}
	existing, err := s.store.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}
	inUse, err := s.bankCodeInUse(ctx, bank.Code, id)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("já existe um banco com o código %s", bank.Code)}
	}

	bank.ID = id
	bank.CreatedAt = existing.CreatedAt
	bank.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceBank(ctx, id, bank); err != nil {
		s.metrics.IncrStoreError("banks")
		return nil, err
	}
	return bank, nil
}

func (s *LedgerService) DeleteBank(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteBank")
	defer span.End()
	return s.store.DeleteBank(ctx, id)
}

// BatchCreateBanks inserts a list of banks, rejecting the whole batch
// when codes collide inside the list or with stored records.
func (s *LedgerService) BatchCreateBanks(ctx context.Context, banks []domain.Bank) ([]domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Ledger.BatchCreateBanks")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(banks)))

	if len(banks) == 0 {
		return nil, &domain.ErrValidation{Field: "banks", Message: "lista de bancos vazia"}
	}

	seen := map[string]bool{}
	for i := range banks {
		if err := validateBank(&banks[i]); err != nil {
			return nil, err
		}
		if seen[banks[i].Code] {
			return nil, &domain.ErrValidation{Field: "code", Message: fmt.Sprintf("código %s repetido na carga", banks[i].Code)}
		}
		seen[banks[i].Code] = true
	}

	existing, err := s.store.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if seen[b.Code] {
			return nil, &domain.ErrDuplicate{Key: fmt.Sprintf("banco código %s", b.Code)}
		}
	}

	now := time.Now().UTC()
	inserted := make([]domain.Bank, 0, len(banks))
	for i := range banks {
		banks[i].ID = uuid.New().String()
		banks[i].CreatedAt = now
		banks[i].UpdatedAt = now
		stored, err := s.store.InsertBank(ctx, &banks[i])
		if err != nil {
			s.metrics.IncrStoreError("banks")
			return nil, fmt.Errorf("insert bank %s: %w", banks[i].Code, err)
		}
		inserted = append(inserted, *stored)
	}

	s.logger.Info("bank batch loaded", zap.Int("count", len(inserted)))
	return inserted, nil
}

// ============================================================
// Accounts
// ============================================================

func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListAccounts")
	defer span.End()
	return s.store.ListAccounts(ctx)
}

func (s *LedgerService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetAccount")
	defer span.End()
	return s.store.GetAccount(ctx, id)
}

func validateAccount(account *domain.Account) error {
	if account.Code == "" {
		return &domain.ErrValidation{Field: "code", Message: "código da conta é obrigatório"}
	}
	if account.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "nome da conta é obrigatório"}
	}
	switch account.Type {
	case domain.AccountChecking, domain.AccountSavings:
	default:
		return &domain.ErrValidation{Field: "type", Message: "tipo de conta inválido"}
	}
	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateAccount")
	defer span.End()

	if err := validateAccount(account); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account.ID = uuid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored, err := s.store.InsertAccount(ctx, account)
	if err != nil {
		s.metrics.IncrStoreError("accounts")
		return nil, err
	}
	return stored, nil
}

func (s *LedgerService) UpdateAccount(ctx context.Context, id string, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", id))

	if err := validateAccount(account); err != nil {
		return nil, err
	}
	existing, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.ID = id
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceAccount(ctx, id, account); err != nil {
		s.metrics.IncrStoreError("accounts")
		return nil, err
	}
	return account, nil
}

func (s *LedgerService) DeleteAccount(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteAccount")
	defer span.End()
	return s.store.DeleteAccount(ctx, id)
}

// ============================================================
// Categories
// ============================================================

func (s *LedgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListCategories")
	defer span.End()
	return s.store.ListCategories(ctx)
}

func (s *LedgerService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetCategory")
	defer span.End()
	return s.store.GetCategory(ctx, id)
}

func validateCategory(category *domain.Category) error {
	if category.Code == "" {
		return &domain.ErrValidation{Field: "code", Message: "código da categoria é obrigatório"}
	}
	if category.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "nome da categoria é obrigatório"}
	}
	return nil
}

func (s *LedgerService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateCategory")
	defer span.End()

	if err := validateCategory(category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category.ID = uuid.New().String()
	category.CreatedAt = now
	category.UpdatedAt = now

	stored, err := s.store.InsertCategory(ctx, category)
	if err != nil {
		s.metrics.IncrStoreError("categories")
		return nil, err
	}
	return stored, nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, id string, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	if err := validateCategory(category); err != nil {
		return nil, err
	}
	existing, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.ID = id
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceCategory(ctx, id, category); err != nil {
		s.metrics.IncrStoreError("categories")
		return nil, err
	}
	return category, nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteCategory")
	defer span.End()
	return s.store.DeleteCategory(ctx, id)
}

// ============================================================
// Fixed costs
// ============================================================

func (s *LedgerService) ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListFixedCosts")
	defer span.End()
	return s.store.ListFixedCosts(ctx)
}

func (s *LedgerService) GetFixedCost(ctx context.Context, id string) (*domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetFixedCost")
	defer span.End()
	return s.store.GetFixedCost(ctx, id)
}

func validateFixedCost(cost *domain.FixedCost) error {
	if cost.Description == "" {
		return &domain.ErrValidation{Field: "description", Message: "descrição é obrigatória"}
	}
	if cost.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "valor não pode ser negativo"}
	}
	if cost.DueDate.IsZero() {
		return &domain.ErrValidation{Field: "due_date", Message: "vencimento é obrigatório"}
	}
	return nil
}

func (s *LedgerService) CreateFixedCost(ctx context.Context, cost *domain.FixedCost) (*domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateFixedCost")
	defer span.End()

	if err := validateFixedCost(cost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cost.ID = uuid.New().String()
	cost.CreatedAt = now
	cost.UpdatedAt = now

	stored, err := s.store.InsertFixedCost(ctx, cost)
	if err != nil {
		s.metrics.IncrStoreError("fixed_costs")
		return nil, err
	}
	return stored, nil
}

func (s *LedgerService) UpdateFixedCost(ctx context.Context, id string, cost *domain.FixedCost) (*domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateFixedCost")
	defer span.End()
	span.SetAttributes(attribute.String("fixed_cost.id", id))

	if err := validateFixedCost(cost); err != nil {
		return nil, err
	}
	existing, err := s.store.GetFixedCost(ctx, id)
	if err != nil {
		return nil, err
	}

	cost.ID = id
	cost.CreatedAt = existing.CreatedAt
	cost.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceFixedCost(ctx, id, cost); err != nil {
		s.metrics.IncrStoreError("fixed_costs")
		return nil, err
	}
	return cost, nil
}

func (s *LedgerService) DeleteFixedCost(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteFixedCost")
	defer span.End()
	return s.store.DeleteFixedCost(ctx, id)
}

// FixedCostsTotal sums every fixed cost.
func (s *LedgerService) FixedCostsTotal(ctx context.Context) (decimal.Decimal, int, error) {
	ctx, span := tracer.Start(ctx, "Ledger.FixedCostsTotal")
	defer span.End()

	costs, err := s.store.ListFixedCosts(ctx)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, fc := range costs {
		total = total.Add(fc.Amount)
	}
	return total, len(costs), nil
}

// ============================================================
// Entries
// ============================================================

func (s *LedgerService) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListEntries")
	defer span.End()
	return s.store.ListEntries(ctx)
}

func (s *LedgerService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetEntry")
	defer span.End()
	return s.store.GetEntry(ctx, id)
}

func validateEntry(entry *domain.Entry) error {
	if entry.Description == "" {
		return &domain.ErrValidation{Field: "description", Message: "descrição é obrigatória"}
	}
	if entry.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "valor não pode ser negativo"}
	}
	if entry.Date.IsZero() {
		return &domain.ErrValidation{Field: "date", Message: "data é obrigatória"}
	}
	switch entry.Direction {
	case domain.DirectionInflow, domain.DirectionOutflow:
	default:
		return &domain.ErrValidation{Field: "direction", Message: "direção inválida"}
	}
	switch entry.Status {
	case domain.StatusPending, domain.StatusPaid, domain.StatusCancelled:
	default:
		return &domain.ErrValidation{Field: "status", Message: "status inválido"}
	}
	return nil
}

func (s *LedgerService) CreateEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateEntry")
	defer span.End()

	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.ID = uuid.New().String()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	stored, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		s.metrics.IncrStoreError("entries")
		return nil, err
	}
	return stored, nil
}

func (s *LedgerService) UpdateEntry(ctx context.Context, id string, entry *domain.Entry) (*domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateEntry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.id", id))

	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	existing, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.ID = id
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceEntry(ctx, id, entry); err != nil {
		s.metrics.IncrStoreError("entries")
		return nil, err
	}
	return entry, nil
}

func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteEntry")
	defer span.End()
	return s.store.DeleteEntry(ctx, id)
}

// EntriesBalance sums paid entries: inflow minus outflow.
func (s *LedgerService) EntriesBalance(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "Ledger.EntriesBalance")
	defer span.End()

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, e := range entries {
		if e.Status != domain.StatusPaid {
			continue
		}
		if e.Direction == domain.DirectionInflow {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

// ============================================================
// Incomes
// ============================================================

func (s *LedgerService) ListIncomes(ctx context.Context) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Ledger.ListIncomes")
	defer span.End()
	return s.store.ListIncomes(ctx)
}

func (s *LedgerService) GetIncome(ctx context.Context, id string) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetIncome")
	defer span.End()
	return s.store.GetIncome(ctx, id)
}

func validateIncome(income *domain.Income) error {
	if income.Description == "" {
		return &domain.ErrValidation{Field: "description", Message: "descrição é obrigatória"}
	}
	if income.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "valor não pode ser negativo"}
	}
	if income.Date.IsZero() {
		return &domain.ErrValidation{Field: "date", Message: "data é obrigatória"}
	}
	switch income.Status {
	case domain.StatusPending, domain.StatusPaid, domain.StatusCancelled:
	default:
		return &domain.ErrValidation{Field: "status", Message: "status inválido"}
	}
	return nil
}

func (s *LedgerService) CreateIncome(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateIncome")
	defer span.End()

	if err := validateIncome(income); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	income.ID = uuid.New().String()
	income.CreatedAt = now
	income.UpdatedAt = now

	stored, err := s.store.InsertIncome(ctx, income)
	if err != nil {
		s.metrics.IncrStoreError("incomes")
		return nil, err
	}
	return stored, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, id string, income *domain.Income) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Ledger.UpdateIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", id))

	if err := validateIncome(income); err != nil {
		return nil, err
	}
	existing, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return nil, err
	}

	income.ID = id
	income.CreatedAt = existing.CreatedAt
	income.UpdatedAt = time.Now().UTC()

	if err := s.store.ReplaceIncome(ctx, id, income); err != nil {
		s.metrics.IncrStoreError("incomes")
		return nil, err
	}
	return income, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Ledger.DeleteIncome")
	defer span.End()
	return s.store.DeleteIncome(ctx, id)
}
