package supabase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Entries (lançamentos) — CRUD + date window via PostgREST
// ============================================================

type entryRow struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Direction   string          `json:"direction"`
	Status      string          `json:"status"`
	CategoryID  string          `json:"category_id,omitempty"`
	AccountID   string          `json:"account_id,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

func (r entryRow) toDomain() domain.Entry {
	return domain.Entry{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        parseTime(r.Date),
		Direction:   domain.Direction(r.Direction),
		Status:      domain.EntryStatus(r.Status),
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func entryToRow(e *domain.Entry) entryRow {
	return entryRow{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        formatDate(e.Date),
		Direction:   string(e.Direction),
		Status:      string(e.Status),
		CategoryID:  e.CategoryID,
		AccountID:   e.AccountID,
		CreatedAt:   formatTimestamp(e.CreatedAt),
		UpdatedAt:   formatTimestamp(e.UpdatedAt),
	}
}

func (c *Client) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListEntries")
	defer span.End()

	return c.listEntries(ctx, "entries?order=date.asc")
}

// ListEntriesByDateRange filters on the entry date with inclusive
// bounds. A nil bound leaves that side unbounded.
func (c *Client) ListEntriesByDateRange(ctx context.Context, start, end *time.Time) ([]domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListEntriesByDateRange")
	defer span.End()

	filters := []string{}
	if start != nil {
		filters = append(filters, fmt.Sprintf("date=gte.%s", formatDate(*start)))
	}
	if end != nil {
		filters = append(filters, fmt.Sprintf("date=lte.%s", formatDate(*end)))
	}
	filters = append(filters, "order=date.asc")

	return c.listEntries(ctx, "entries?"+strings.Join(filters, "&"))
}

func (c *Client) listEntries(ctx context.Context, path string) ([]domain.Entry, error) {
	rows, err := getRows[entryRow](ctx, c, path, "entries")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toDomain())
	}
	return entries, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetEntry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.id", id))

	path := fmt.Sprintf("entries?id=eq.%s&limit=1", id)
	rows, err := getRows[entryRow](ctx, c, path, "entries")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "entry", ID: id}
	}
	e := rows[0].toDomain()
	return &e, nil
}

func (c *Client) InsertEntry(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertEntry")
	defer span.End()

	stored, err := insertRow(ctx, c, "entries", entryToRow(entry))
	if err != nil {
		return nil, err
	}
	e := stored.toDomain()
	return &e, nil
}

func (c *Client) ReplaceEntry(ctx context.Context, id string, entry *domain.Entry) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceEntry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.id", id))

	if _, err := c.GetEntry(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("entries?id=eq.%s", id), entryToRow(entry))
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteEntry")
	defer span.End()
	span.SetAttributes(attribute.String("entry.id", id))

	if _, err := c.GetEntry(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("entries?id=eq.%s", id))
}
