package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Fixed costs — CRUD via PostgREST
// ============================================================

type fixedCostRow struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	CategoryID  string          `json:"category_id,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

func (r fixedCostRow) toDomain() domain.FixedCost {
	return domain.FixedCost{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     parseTime(r.DueDate),
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func fixedCostToRow(fc *domain.FixedCost) fixedCostRow {
	return fixedCostRow{
		ID:          fc.ID,
		Description: fc.Description,
		Amount:      fc.Amount,
		DueDate:     formatDate(fc.DueDate),
		CategoryID:  fc.CategoryID,
		AccountID:   fc.AccountID,
		CreatedAt:   formatTimestamp(fc.CreatedAt),
		UpdatedAt:   formatTimestamp(fc.UpdatedAt),
	}
}

func (c *Client) ListFixedCosts(ctx context.Context) ([]domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListFixedCosts")
	defer span.End()

	rows, err := getRows[fixedCostRow](ctx, c, "fixed_costs?order=due_date.asc", "fixed_costs")
	if err != nil {
		return nil, err
	}

	costs := make([]domain.FixedCost, 0, len(rows))
	for _, r := range rows {
		costs = append(costs, r.toDomain())
	}
	return costs, nil
}

func (c *Client) GetFixedCost(ctx context.Context, id string) (*domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetFixedCost")
	defer span.End()
	span.SetAttributes(attribute.String("fixed_cost.id", id))

	path := fmt.Sprintf("fixed_costs?id=eq.%s&limit=1", id)
	rows, err := getRows[fixedCostRow](ctx, c, path, "fixed_costs")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "fixed cost", ID: id}
	}
	fc := rows[0].toDomain()
	return &fc, nil
}

func (c *Client) InsertFixedCost(ctx context.Context, cost *domain.FixedCost) (*domain.FixedCost, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertFixedCost")
	defer span.End()

	stored, err := insertRow(ctx, c, "fixed_costs", fixedCostToRow(cost))
	if err != nil {
		return nil, err
	}
	fc := stored.toDomain()
	return &fc, nil
}

func (c *Client) ReplaceFixedCost(ctx context.Context, id string, cost *domain.FixedCost) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceFixedCost")
	defer span.End()
	span.SetAttributes(attribute.String("fixed_cost.id", id))

	if _, err := c.GetFixedCost(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("fixed_costs?id=eq.%s", id), fixedCostToRow(cost))
}

func (c *Client) DeleteFixedCost(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteFixedCost")
	defer span.End()
	span.SetAttributes(attribute.String("fixed_cost.id", id))

	if _, err := c.GetFixedCost(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("fixed_costs?id=eq.%s", id))
}
