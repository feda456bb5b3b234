package db

import (
	"context"
	"fmt"
	"time"

	"funolympics/internal/models"
)

const maxExportList = 100

// RecordExport stores an export and fills in its id and creation time.
func (d *DB) RecordExport(ctx context.Context, e *models.ExportRecord) error {
	if e.View == "" || e.Format == "" {
		return ErrInvalidExport
	}
	selection := e.Selection
	if selection == nil {
		selection = map[string]string{}
	}

	err := d.Pool.QueryRow(ctx, `
		INSERT INTO view_exports (view, format, selection, rows, user_sub)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, e.View, e.Format, selection, e.Rows, e.UserSub).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the most recent exports, newest first. An empty view
// lists exports of every view.
func (d *DB) ListExports(ctx context.Context, view string, limit int) ([]models.ExportRecord, error) {
	if limit <= 0 || limit > maxExportList {
		limit = maxExportList
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT id, view, format, selection, rows, user_sub, created_at
		FROM view_exports
		WHERE $1 = '' OR view = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, view, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []models.ExportRecord{}
	for rows.Next() {
		var e models.ExportRecord
		if err := rows.Scan(&e.ID, &e.View, &e.Format, &e.Selection, &e.Rows, &e.UserSub, &e.CreatedAt); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

// PruneExports deletes exports created before the cutoff and returns how
// many were removed.
func (d *DB) PruneExports(ctx context.Context, before time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM view_exports WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune exports: %w", err)
	}
	return tag.RowsAffected(), nil
}
