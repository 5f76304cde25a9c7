package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
)

// SeriesRepo encapsulates database operations for the series table.
type SeriesRepo struct {
	db *sql.DB
}

// NewSeriesRepo constructs a SeriesRepo given a DB handle.
func NewSeriesRepo(db *sql.DB) *SeriesRepo { return &SeriesRepo{db: db} }

const seriesColumns = `id, province_id, code, range_start, range_end, description, active, created_at, updated_at`

// scanSeries scans one series row from the given row scanner.
func scanSeries(row interface{ Scan(...interface{}) error }) (*model.Series, error) {
	var s model.Series
	err := row.Scan(&s.ID, &s.ProvinceID, &s.Code, &s.RangeStart, &s.RangeEnd,
		&s.Description, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CodeExistsTx reports whether a series with the given code exists.
// When provinceID is non-zero the check is restricted to that
// province; excludeID (when non-zero) ignores one series so updates
// do not collide with themselves.
//
// The read locks the matching index range (FOR UPDATE gap-locks
// ix_series_code), so two transactions checking the same code
// serialize: the second blocks until the first commits and then sees
// its insert.  A plain consistent read would let both observe zero
// and both insert, and the (province_id, code) unique key cannot catch
// that across provinces in global uniqueness mode.
func (r *SeriesRepo) CodeExistsTx(ctx context.Context, tx *sql.Tx, code string, provinceID, excludeID uint64) (bool, error) {
	q := `SELECT COUNT(*) FROM series WHERE code = ?`
	args := []interface{}{code}
	if provinceID != 0 {
		q += ` AND province_id = ?`
		args = append(args, provinceID)
	}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	q += ` FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

// CreateTx inserts a new series within an existing transaction.  The
// generated ID and the DB-defaulted timestamps are populated on the
// passed record.
func (r *SeriesRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Series) error {
	const q = `INSERT INTO series (province_id, code, range_start, range_end, description, active) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, s.ProvinceID, s.Code, s.RangeStart, s.RangeEnd, s.Description, s.Active)
	if err != nil {
		return mapErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return mapErr(err)
	}
	s.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT ` + seriesColumns + ` FROM series WHERE id = ?`
	full, err := scanSeries(tx.QueryRowContext(ctx, sel, s.ID))
	if err != nil {
		return mapErr(err)
	}
	*s = *full
	return nil
}

// GetByID returns a series by primary key, or nil when none exists.
func (r *SeriesRepo) GetByID(ctx context.Context, id uint64) (*model.Series, error) {
	const q = `SELECT ` + seriesColumns + ` FROM series WHERE id = ?`
	s, err := scanSeries(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

// GetForUpdateTx returns a series locked for the duration of the
// transaction, or nil when none exists.
func (r *SeriesRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Series, error) {
	const q = `SELECT ` + seriesColumns + ` FROM series WHERE id = ? FOR UPDATE`
	s, err := scanSeries(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

// UpdateTx persists the mutable fields of a series (code, description,
// active flag).  The range is immutable and deliberately not part of
// the statement.
func (r *SeriesRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.Series) error {
	const q = `UPDATE series SET code = ?, description = ?, active = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, s.Code, s.Description, s.Active, s.ID); err != nil {
		return mapErr(err)
	}
	return nil
}

// List returns series matching the filter, ordered by province then
// code for stable output.
func (r *SeriesRepo) List(ctx context.Context, filter engine.SeriesFilter) ([]model.Series, error) {
	q := `SELECT ` + seriesColumns + ` FROM series`
	var conds []string
	var args []interface{}
	if filter.ProvinceID != 0 {
		conds = append(conds, `province_id = ?`)
		args = append(args, filter.ProvinceID)
	}
	if filter.Active != nil {
		conds = append(conds, `active = ?`)
		args = append(args, *filter.Active)
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY province_id, code`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]model.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
