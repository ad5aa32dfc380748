package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Banks — CRUD via PostgREST
// ============================================================

type bankRow struct {
	ID        string `json:"id,omitempty"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (r bankRow) toDomain() domain.Bank {
	return domain.Bank{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func bankToRow(b *domain.Bank) bankRow {
	return bankRow{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		CreatedAt: formatTimestamp(b.CreatedAt),
		UpdatedAt: formatTimestamp(b.UpdatedAt),
	}
}

func (c *Client) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBanks")
	defer span.End()

	rows, err := getRows[bankRow](ctx, c, "banks?order=code.asc", "banks")
	if err != nil {
		return nil, err
	}

	banks := make([]domain.Bank, 0, len(rows))
	for _, r := range rows {
		banks = append(banks, r.toDomain())
	}
	return banks, nil
}

func (c *Client) GetBank(ctx context.Context, id string) (*domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBank")
	defer span.End()
	span.SetAttributes(attribute.String("bank.id", id))

	path := fmt.Sprintf("banks?id=eq.%s&limit=1", id)
	rows, err := getRows[bankRow](ctx, c, path, "banks")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "bank", ID: id}
	}
	b := rows[0].toDomain()
	return &b, nil
}

func (c *Client) InsertBank(ctx context.Context, bank *domain.Bank) (*domain.Bank, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertBank")
	defer span.End()

	stored, err := insertRow(ctx, c, "banks", bankToRow(bank))
	if err != nil {
		return nil, err
	}
	b := stored.toDomain()
	return &b, nil
}

func (c *Client) ReplaceBank(ctx context.Context, id string, bank *domain.Bank) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceBank")
	defer span.End()
	span.SetAttributes(attribute.String("bank.id", id))

	if _, err := c.GetBank(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("banks?id=eq.%s", id), bankToRow(bank))
}

func (c *Client) DeleteBank(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBank")
	defer span.End()
	span.SetAttributes(attribute.String("bank.id", id))

	if _, err := c.GetBank(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("banks?id=eq.%s", id))
}
