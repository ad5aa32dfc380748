package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Incomes (receitas) — CRUD via PostgREST
// ============================================================

type incomeRow struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	CategoryID  string          `json:"category_id,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

func (r incomeRow) toDomain() domain.Income {
	return domain.Income{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        parseTime(r.Date),
		Status:      domain.EntryStatus(r.Status),
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func incomeToRow(in *domain.Income) incomeRow {
	return incomeRow{
		ID:          in.ID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        formatDate(in.Date),
		Status:      string(in.Status),
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
		CreatedAt:   formatTimestamp(in.CreatedAt),
		UpdatedAt:   formatTimestamp(in.UpdatedAt),
	}
}

func (c *Client) ListIncomes(ctx context.Context) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListIncomes")
	defer span.End()

	rows, err := getRows[incomeRow](ctx, c, "incomes?order=date.asc", "incomes")
	if err != nil {
		return nil, err
	}

	incomes := make([]domain.Income, 0, len(rows))
	for _, r := range rows {
		incomes = append(incomes, r.toDomain())
	}
	return incomes, nil
}

func (c *Client) GetIncome(ctx context.Context, id string) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", id))

	path := fmt.Sprintf("incomes?id=eq.%s&limit=1", id)
	rows, err := getRows[incomeRow](ctx, c, path, "incomes")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "income", ID: id}
	}
	in := rows[0].toDomain()
	return &in, nil
}

func (c *Client) InsertIncome(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertIncome")
	defer span.End()

	stored, err := insertRow(ctx, c, "incomes", incomeToRow(income))
	if err != nil {
		return nil, err
	}
	in := stored.toDomain()
	return &in, nil
}

func (c *Client) ReplaceIncome(ctx context.Context, id string, income *domain.Income) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", id))

	if _, err := c.GetIncome(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("incomes?id=eq.%s", id), incomeToRow(income))
}

func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteIncome")
	defer span.End()
	span.SetAttributes(attribute.String("income.id", id))

	if _, err := c.GetIncome(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("incomes?id=eq.%s", id))
}
