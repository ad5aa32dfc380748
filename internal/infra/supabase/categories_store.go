package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/controle-financeiro-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Categories — CRUD via PostgREST
// ============================================================

type categoryRow struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

func categoryToRow(cat *domain.Category) categoryRow {
	return categoryRow{
		ID:          cat.ID,
		Code:        cat.Code,
		Name:        cat.Name,
		Description: cat.Description,
		CreatedAt:   formatTimestamp(cat.CreatedAt),
		UpdatedAt:   formatTimestamp(cat.UpdatedAt),
	}
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer span.End()

	rows, err := getRows[categoryRow](ctx, c, "categories?order=code.asc", "categories")
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toDomain())
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	path := fmt.Sprintf("categories?id=eq.%s&limit=1", id)
	rows, err := getRows[categoryRow](ctx, c, path, "categories")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "category", ID: id}
	}
	cat := rows[0].toDomain()
	return &cat, nil
}

func (c *Client) InsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertCategory")
	defer span.End()

	stored, err := insertRow(ctx, c, "categories", categoryToRow(category))
	if err != nil {
		return nil, err
	}
	cat := stored.toDomain()
	return &cat, nil
}

func (c *Client) ReplaceCategory(ctx context.Context, id string, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "Supabase.ReplaceCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	if _, err := c.GetCategory(ctx, id); err != nil {
		return err
	}
	return c.doPatch(ctx, fmt.Sprintf("categories?id=eq.%s", id), categoryToRow(category))
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	if _, err := c.GetCategory(ctx, id); err != nil {
		return err
	}
	return c.doDelete(ctx, fmt.Sprintf("categories?id=eq.%s", id))
}
