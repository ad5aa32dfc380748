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
	"go.uber.org/zap"
)

// AdminService handles seeding, bulk loads, purging and collection
// status for operational tooling.
type AdminService struct {
	store   port.LedgerStore
	ledger  *LedgerService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAdminService creates the admin service.
func NewAdminService(store port.LedgerStore, ledger *LedgerService, metrics *observability.Metrics, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:   store,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
	}
}

// SeedSummary reports how many records each seed step created.
type SeedSummary struct {
	Banks      int `json:"banks"`
	Categories int `json:"categories"`
	Accounts   int `json:"accounts"`
	FixedCosts int `json:"fixed_costs"`
	Entries    int `json:"entries"`
	Incomes    int `json:"incomes"`
}

// BulkLoad is the payload accepted by the admin carga endpoint.
type BulkLoad struct {
	PurgeFirst bool               `json:"purge_first"`
	Banks      []domain.Bank      `json:"banks"`
	Categories []domain.Category  `json:"categories"`
	Accounts   []domain.Account   `json:"accounts"`
	FixedCosts []domain.FixedCost `json:"fixed_costs"`
	Entries    []domain.Entry     `json:"entries"`
	Incomes    []domain.Income    `json:"incomes"`
}

var seedBanks = []domain.Bank{
	{Code: "001", Name: "Banco do Brasil"},
	{Code: "033", Name: "Santander"},
	{Code: "077", Name: "Inter"},
	{Code: "104", Name: "Caixa Econômica Federal"},
	{Code: "237", Name: "Bradesco"},
	{Code: "260", Name: "Nubank"},
	{Code: "341", Name: "Itaú Unibanco"},
}

var seedCategories = []domain.Category{
	{Code: "SALARIO", Name: "Salário", Description: "Salário mensal"},
	{Code: "FREELANCE", Name: "Freelance", Description: "Trabalhos avulsos"},
	{Code: "INVESTIMENTOS", Name: "Investimentos", Description: "Rendimentos de aplicações"},
	{Code: "ALUGUEL", Name: "Aluguel", Description: "Aluguel do imóvel"},
	{Code: "CONDOMINIO", Name: "Condomínio", Description: "Taxa de condomínio"},
	{Code: "ENERGIA", Name: "Energia", Description: "Conta de luz"},
	{Code: "AGUA", Name: "Água", Description: "Conta de água"},
	{Code: "INTERNET", Name: "Internet", Description: "Banda larga"},
	{Code: "TELEFONE", Name: "Telefone", Description: "Plano de celular"},
	{Code: "MERCADO", Name: "Mercado", Description: "Compras de supermercado"},
	{Code: "RESTAURANTE", Name: "Restaurante", Description: "Refeições fora de casa"},
	{Code: "TRANSPORTE", Name: "Transporte", Description: "Combustível e transporte público"},
	{Code: "SAUDE", Name: "Saúde", Description: "Plano de saúde e farmácia"},
	{Code: "EDUCACAO", Name: "Educação", Description: "Cursos e mensalidades"},
	{Code: "LAZER", Name: "Lazer", Description: "Entretenimento"},
	{Code: "STREAMING", Name: "Streaming", Description: "Assinaturas de streaming"},
	{Code: "ACADEMIA", Name: "Academia", Description: "Mensalidade da academia"},
	{Code: "VESTUARIO", Name: "Vestuário", Description: "Roupas e calçados"},
	{Code: "PETS", Name: "Pets", Description: "Despesas com animais"},
	{Code: "IMPOSTOS", Name: "Impostos", Description: "Tributos e taxas"},
	{Code: "SEGUROS", Name: "Seguros", Description: "Seguros contratados"},
	{Code: "CARTAO", Name: "Cartão", Description: "Fatura do cartão de crédito"},
	{Code: "VIAGEM", Name: "Viagem", Description: "Viagens e hospedagem"},
	{Code: "PRESENTES", Name: "Presentes", Description: "Presentes e doações"},
	{Code: "CASA", Name: "Casa", Description: "Manutenção da casa"},
	{Code: "OUTROS", Name: "Outros", Description: "Despesas diversas"},
}

// Seed loads a baseline dataset for local development and demos.
// Accounts, fixed costs and entries reference the seeded banks and
// categories by the ids generated during this run.
func (s *AdminService) Seed(ctx context.Context, refDate time.Time) (*SeedSummary, error) {
	ctx, span := tracer.Start(ctx, "Admin.Seed")
	defer span.End()

	summary := &SeedSummary{}
	now := time.Now().UTC()
	today := dateOnly(refDate)

	bankIDs := map[string]string{}
	for _, b := range seedBanks {
		bank := b
		bank.ID = uuid.New().String()
		bank.CreatedAt = now
		bank.UpdatedAt = now
		stored, err := s.store.InsertBank(ctx, &bank)
		if err != nil {
			return summary, fmt.Errorf("seed bank %s: %w", bank.Code, err)
		}
		bankIDs[bank.Code] = stored.ID
		summary.Banks++
	}

	categoryIDs := map[string]string{}
	for _, c := range seedCategories {
		category := c
		category.ID = uuid.New().String()
		category.CreatedAt = now
		category.UpdatedAt = now
		stored, err := s.store.InsertCategory(ctx, &category)
		if err != nil {
			return summary, fmt.Errorf("seed category %s: %w", category.Code, err)
		}
		categoryIDs[category.Code] = stored.ID
		summary.Categories++
	}

	accounts := []domain.Account{
		{Code: "CC-ITAU", Name: "Conta Corrente Itaú", Type: domain.AccountChecking, InitialBalance: decimal.NewFromInt(2500), BankID: bankIDs["341"]},
		{Code: "CC-NUBANK", Name: "Conta Nubank", Type: domain.AccountChecking, InitialBalance: decimal.NewFromInt(800), BankID: bankIDs["260"]},
		{Code: "POUP-CAIXA", Name: "Poupança Caixa", Type: domain.AccountSavings, InitialBalance: decimal.NewFromInt(12000), BankID: bankIDs["104"]},
		{Code: "CARTAO-NU", Name: "Cartão Nubank", Type: domain.AccountChecking, InitialBalance: decimal.NewFromInt(-1350), BankID: bankIDs["260"]},
	}
	accountIDs := map[string]string{}
	for i := range accounts {
		accounts[i].ID = uuid.New().String()
		accounts[i].CreatedAt = now
		accounts[i].UpdatedAt = now
		stored, err := s.store.InsertAccount(ctx, &accounts[i])
		if err != nil {
			return summary, fmt.Errorf("seed account %s: %w", accounts[i].Code, err)
		}
		accountIDs[accounts[i].Code] = stored.ID
		summary.Accounts++
	}

	fixedCosts := []domain.FixedCost{
		{Description: "Aluguel", Amount: decimal.NewFromInt(1800), DueDate: today.AddDate(0, 0, 5), CategoryID: categoryIDs["ALUGUEL"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Condomínio", Amount: decimal.NewFromInt(450), DueDate: today.AddDate(0, 0, 10), CategoryID: categoryIDs["CONDOMINIO"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Internet", Amount: decimal.NewFromFloat(119.90), DueDate: today.AddDate(0, 0, 2), CategoryID: categoryIDs["INTERNET"], AccountID: accountIDs["CC-NUBANK"]},
		{Description: "Plano de saúde", Amount: decimal.NewFromFloat(389.50), DueDate: today.AddDate(0, 0, -3), CategoryID: categoryIDs["SAUDE"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Academia", Amount: decimal.NewFromFloat(99.90), DueDate: today.AddDate(0, 0, 15), CategoryID: categoryIDs["ACADEMIA"], AccountID: accountIDs["CC-NUBANK"]},
		{Description: "Streaming", Amount: decimal.NewFromFloat(55.90), DueDate: today.AddDate(0, 0, 20), CategoryID: categoryIDs["STREAMING"], AccountID: accountIDs["CARTAO-NU"]},
	}
	for i := range fixedCosts {
		fixedCosts[i].ID = uuid.New().String()
		fixedCosts[i].CreatedAt = now
		fixedCosts[i].UpdatedAt = now
		if _, err := s.store.InsertFixedCost(ctx, &fixedCosts[i]); err != nil {
			return summary, fmt.Errorf("seed fixed cost %q: %w", fixedCosts[i].Description, err)
		}
		summary.FixedCosts++
	}

	entries := []domain.Entry{
		{Description: "Salário", Amount: decimal.NewFromInt(7500), Date: today.AddDate(0, 0, -10), Direction: domain.DirectionInflow, Status: domain.StatusPaid, CategoryID: categoryIDs["SALARIO"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Mercado da semana", Amount: decimal.NewFromFloat(612.35), Date: today.AddDate(0, 0, -7), Direction: domain.DirectionOutflow, Status: domain.StatusPaid, CategoryID: categoryIDs["MERCADO"], AccountID: accountIDs["CC-NUBANK"]},
		{Description: "Fatura do cartão", Amount: decimal.NewFromFloat(1350.00), Date: today.AddDate(0, 0, -35), Direction: domain.DirectionOutflow, Status: domain.StatusPending, CategoryID: categoryIDs["CARTAO"], AccountID: accountIDs["CARTAO-NU"]},
		{Description: "IPVA parcela 2", Amount: decimal.NewFromFloat(420.80), Date: today.AddDate(0, 0, -12), Direction: domain.DirectionOutflow, Status: domain.StatusPending, CategoryID: categoryIDs["IMPOSTOS"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Jantar de aniversário", Amount: decimal.NewFromFloat(185.00), Date: today.AddDate(0, 0, -2), Direction: domain.DirectionOutflow, Status: domain.StatusPaid, CategoryID: categoryIDs["RESTAURANTE"], AccountID: accountIDs["CC-NUBANK"]},
		{Description: "Projeto freelance", Amount: decimal.NewFromInt(1200), Date: today.AddDate(0, 0, 4), Direction: domain.DirectionInflow, Status: domain.StatusPending, CategoryID: categoryIDs["FREELANCE"], AccountID: accountIDs["CC-NUBANK"]},
		{Description: "Seguro do carro", Amount: decimal.NewFromFloat(245.60), Date: today.AddDate(0, 0, 6), Direction: domain.DirectionOutflow, Status: domain.StatusPending, CategoryID: categoryIDs["SEGUROS"], AccountID: accountIDs["CC-ITAU"]},
	}
	for i := range entries {
		entries[i].ID = uuid.New().String()
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err := s.store.InsertEntry(ctx, &entries[i]); err != nil {
			return summary, fmt.Errorf("seed entry %q: %w", entries[i].Description, err)
		}
		summary.Entries++
	}

	incomes := []domain.Income{
		{Description: "Salário mensal", Amount: decimal.NewFromInt(7500), Date: today.AddDate(0, 0, -10), Status: domain.StatusPaid, CategoryID: categoryIDs["SALARIO"], AccountID: accountIDs["CC-ITAU"]},
		{Description: "Dividendos", Amount: decimal.NewFromFloat(312.45), Date: today.AddDate(0, 0, -5), Status: domain.StatusPaid, CategoryID: categoryIDs["INVESTIMENTOS"], AccountID: accountIDs["POUP-CAIXA"]},
	}
	for i := range incomes {
		incomes[i].ID = uuid.New().String()
		incomes[i].CreatedAt = now
		incomes[i].UpdatedAt = now
		if _, err := s.store.InsertIncome(ctx, &incomes[i]); err != nil {
			return summary, fmt.Errorf("seed income %q: %w", incomes[i].Description, err)
		}
		summary.Incomes++
	}

	s.logger.Info("seed completed",
		zap.Int("banks", summary.Banks),
		zap.Int("categories", summary.Categories),
		zap.Int("accounts", summary.Accounts),
		zap.Int("fixed_costs", summary.FixedCosts),
		zap.Int("entries", summary.Entries),
		zap.Int("incomes", summary.Incomes))
	return summary, nil
}

// Load applies a bulk payload, optionally purging every collection
// first. Records go through the same validation as the CRUD endpoints.
func (s *AdminService) Load(ctx context.Context, payload *BulkLoad) (*SeedSummary, error) {
	ctx, span := tracer.Start(ctx, "Admin.Load")
	defer span.End()

	if payload.PurgeFirst {
		if err := s.Purge(ctx); err != nil {
			return nil, fmt.Errorf("purge before load: %w", err)
		}
	}

	summary := &SeedSummary{}
	if len(payload.Banks) > 0 {
		inserted, err := s.ledger.BatchCreateBanks(ctx, payload.Banks)
		if err != nil {
			return summary, err
		}
		summary.Banks = len(inserted)
	}
	for i := range payload.Categories {
		if _, err := s.ledger.CreateCategory(ctx, &payload.Categories[i]); err != nil {
			return summary, fmt.Errorf("load category %s: %w", payload.Categories[i].Code, err)
		}
		summary.Categories++
	}
	for i := range payload.Accounts {
		if _, err := s.ledger.CreateAccount(ctx, &payload.Accounts[i]); err != nil {
			return summary, fmt.Errorf("load account %s: %w", payload.Accounts[i].Code, err)
		}
		summary.Accounts++
	}
	for i := range payload.FixedCosts {
		if _, err := s.ledger.CreateFixedCost(ctx, &payload.FixedCosts[i]); err != nil {
			return summary, fmt.Errorf("load fixed cost %q: %w", payload.FixedCosts[i].Description, err)
		}
		summary.FixedCosts++
	}
	for i := range payload.Entries {
		if _, err := s.ledger.CreateEntry(ctx, &payload.Entries[i]); err != nil {
			return summary, fmt.Errorf("load entry %q: %w", payload.Entries[i].Description, err)
		}
		summary.Entries++
	}
	for i := range payload.Incomes {
		if _, err := s.ledger.CreateIncome(ctx, &payload.Incomes[i]); err != nil {
			return summary, fmt.Errorf("load income %q: %w", payload.Incomes[i].Description, err)
		}
		summary.Incomes++
	}

	s.logger.Info("bulk load completed", zap.Int("entries", summary.Entries), zap.Int("banks", summary.Banks))
	return summary, nil
}

// Purge deletes every record from every collection.
func (s *AdminService) Purge(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Admin.Purge")
	defer span.End()

	if err := s.store.PurgeAll(ctx); err != nil {
		s.metrics.IncrStoreError("purge")
		return err
	}
	s.logger.Warn("all collections purged")
	return nil
}

// Status reports per-collection counts. Ready is true when the store
// answered for every collection.
func (s *AdminService) Status(ctx context.Context) (*domain.CollectionStatus, error) {
	ctx, span := tracer.Start(ctx, "Admin.Status")
	defer span.End()

	counts, err := s.store.CollectionCounts(ctx)
	if err != nil {
		return &domain.CollectionStatus{Counts: map[string]int{}, Ready: false}, err
	}
	return &domain.CollectionStatus{Counts: counts, Ready: true}, nil
}
