package supabase

import (
	"context"
	"fmt"
)

// ============================================================
// Admin — collection counts and full purge
// ============================================================

// ledgerTables lists every collection the admin surface touches.
// Purge order matters: referencing tables go first.
var ledgerTables = []string{
	"entries",
	"incomes",
	"fixed_costs",
	"accounts",
	"categories",
	"banks",
}

type idRow struct {
	ID string `json:"id"`
}

// CollectionCounts returns the record count per collection.
func (c *Client) CollectionCounts(ctx context.Context) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CollectionCounts")
	defer span.End()

	counts := make(map[string]int, len(ledgerTables))
	for _, table := range ledgerTables {
		rows, err := getRows[idRow](ctx, c, table+"?select=id", table)
		if err != nil {
			return nil, err
		}
		counts[table] = len(rows)
	}
	return counts, nil
}

// PurgeAll deletes every record from every collection.
func (c *Client) PurgeAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Supabase.PurgeAll")
	defer span.End()

	for _, table := range ledgerTables {
		if err := c.doDelete(ctx, fmt.Sprintf("%s?id=not.is.null", table)); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return nil
}
