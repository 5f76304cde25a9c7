package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
)

// ItemRepo encapsulates database operations for the items table.  The
// status-flipping primitives are only ever called from inside the
// engine's transactions; nothing here is reachable from a handler, so
// the reservation protocol cannot be bypassed.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo constructs an ItemRepo given a DB handle.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// CreateRangeTx inserts one available item per value in [start, end]
// for the series, in a single multi-row statement.
func (r *ItemRepo) CreateRangeTx(ctx context.Context, tx *sql.Tx, seriesID uint64, start, end uint16) error {
	if end < start {
		return nil
	}
	// Build the INSERT with placeholders for each value.
	query := `INSERT INTO items (series_id, value, status) VALUES `
	args := make([]interface{}, 0, int(end-start+1)*3)
	for v := start; v <= end; v++ {
		if v > start {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, seriesID, v, model.ItemAvailable)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapErr(err)
	}
	return nil
}

// SelectAvailableForUpdateTx locks and returns up to limit available
// items from active series in scope.  The deterministic ORDER BY
// (series code, value, series ID) means identical pre-states yield
// identical selections; the series ID tiebreak matters when a scope
// spans two provinces whose series share a code.  FOR UPDATE is what
// serializes concurrent reservations on the same rows.
func (r *ItemRepo) SelectAvailableForUpdateTx(ctx context.Context, tx *sql.Tx, scope engine.Scope, limit int) ([]engine.PoolItem, error) {
	q := `SELECT i.id, i.series_id, i.value, i.status, i.created_at, i.updated_at, s.code
	      FROM items i
	      JOIN series s ON s.id = i.series_id
	      WHERE i.status = ? AND s.active = TRUE`
	args := []interface{}{model.ItemAvailable}
	if scope.ProvinceID != 0 {
		q += ` AND s.province_id = ?`
		args = append(args, scope.ProvinceID)
	}
	if len(scope.SeriesIDs) > 0 {
		placeholders := make([]string, len(scope.SeriesIDs))
		for i, id := range scope.SeriesIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		q += ` AND i.series_id IN (` + strings.Join(placeholders, ",") + `)`
	}
	q += ` ORDER BY s.code, i.value, i.series_id LIMIT ? FOR UPDATE`
	args = append(args, limit)

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]engine.PoolItem, 0, limit)
	for rows.Next() {
		var it engine.PoolItem
		if err := rows.Scan(&it.ID, &it.SeriesID, &it.Value, &it.Status, &it.CreatedAt, &it.UpdatedAt, &it.SeriesCode); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// GetForUpdateTx returns one item (with its series code) locked for
// the duration of the transaction, or nil when none exists.
func (r *ItemRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, itemID uint64) (*engine.PoolItem, error) {
	const q = `SELECT i.id, i.series_id, i.value, i.status, i.created_at, i.updated_at, s.code
	           FROM items i
	           JOIN series s ON s.id = i.series_id
	           WHERE i.id = ? FOR UPDATE`
	var it engine.PoolItem
	err := tx.QueryRowContext(ctx, q, itemID).Scan(&it.ID, &it.SeriesID, &it.Value, &it.Status, &it.CreatedAt, &it.UpdatedAt, &it.SeriesCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return &it, nil
}

// BulkUpdateStatusTx flips the status of the given items in one
// statement.  Passing an empty slice has no effect and returns nil.
func (r *ItemRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, itemIDs []uint64, status model.ItemStatus) error {
	if len(itemIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(itemIDs))
	args := make([]interface{}, 0, len(itemIDs)+1)
	args = append(args, status)
	for i, id := range itemIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `UPDATE items SET status = ? WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return mapErr(err)
	}
	return nil
}

// ListBySeries returns every item of a series ordered by value, for
// audit and reporting.
func (r *ItemRepo) ListBySeries(ctx context.Context, seriesID uint64) ([]model.Item, error) {
	const q = `SELECT id, series_id, value, status, created_at, updated_at
	           FROM items WHERE series_id = ? ORDER BY value`
	rows, err := r.db.QueryContext(ctx, q, seriesID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.SeriesID, &it.Value, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// Counts derives the series summary from current item statuses in one
// scan.  Total is available plus used by construction; no counter
// column exists to drift.
func (r *ItemRepo) Counts(ctx context.Context, seriesID uint64) (model.SeriesCounts, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status = ?), 0) FROM items WHERE series_id = ?`
	var c model.SeriesCounts
	if err := r.db.QueryRowContext(ctx, q, model.ItemAvailable, seriesID).Scan(&c.Total, &c.Available); err != nil {
		return model.SeriesCounts{}, mapErr(err)
	}
	c.Used = c.Total - c.Available
	return c, nil
}
