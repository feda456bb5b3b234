package db

import (
	"context"

	"funolympics/internal/models"
)

// IncrementViewRender upserts a view render count by outcome.
func (d *DB) IncrementViewRender(ctx context.Context, view, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO view_renders (view, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (view, outcome) DO UPDATE
		SET count = view_renders.count + 1, last_seen_at = NOW()
	`, view, outcome)
	return err
}

// GetAllViewRenders returns all view render rows for metrics export.
func (d *DB) GetAllViewRenders(ctx context.Context) ([]models.ViewRender, error) {
	rows, err := d.Pool.Query(ctx, `SELECT view, outcome, count, last_seen_at FROM view_renders ORDER BY view, outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []models.ViewRender
	for rows.Next() {
		var r models.ViewRender
		if err := rows.Scan(&r.View, &r.Outcome, &r.Count, &r.LastSeenAt); err != nil {
			return nil, err
		}
		renders = append(renders, r)
	}
	return renders, rows.Err()
}
