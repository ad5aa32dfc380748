package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Accounts — CRUD via PostgREST
// ============================================================

type accountRow struct {
	ID             string          `json:"id,omitempty"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	BankID         string          `json:"bank_id,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:             r.ID,
		Code:           r.Code,
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		InitialBalance: r.InitialBalance,
		BankID:         r.BankID,
		CreatedAt:      parseTime(r.CreatedAt),
		UpdatedAt:      parseTime(r.UpdatedAt),
	}
}

func accountToRow(a *domain.Account) accountRow {
	return accountRow{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		BankID:         a.BankID,
		CreatedAt:      formatTimestamp(a.CreatedAt),
		UpdatedAt:      formatTimestamp(a.UpdatedAt),
	}
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()

	rows, err := getRows[accountRow](ctx, c, "accounts?order=code.asc", "accounts")
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toDomain())
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", id))

	path := fmt.Sprintf("accounts?id=eq.%s&limit=1", id)
	rows, err := getRows[accountRow](ctx, c, path, "accounts")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "account", ID: id}
	}
	a := rows[0].toDomain()
	return &a, nil
}

func (c *Client) InsertAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertAccount")
	defer span.End()

	stored, err := insertRow(ctx, c, "accounts", accountToRow(account))
	if err != nil {
		return nil, err
	}
	a := stored.toDomain()
	return &a, nil
}

func (c *Client) ReplaceAccount(ctx context.Context, id string, account *domain.Account) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", id))

	if _, err := c.GetAccount(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("accounts?id=eq.%s", id), accountToRow(account))
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", id))

	if _, err := c.GetAccount(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("accounts?id=eq.%s", id))
}
