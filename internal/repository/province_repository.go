package repository

import (
	"context"
	"database/sql"

	"github.com/kabasele/plate-allocation/internal/model"
)

// ProvinceRepo reads the seeded province reference data.  Provinces
// are immutable, so the repo exposes no mutation.
type ProvinceRepo struct {
	db *sql.DB
}

// NewProvinceRepo returns a new ProvinceRepo bound to the given database.
func NewProvinceRepo(db *sql.DB) *ProvinceRepo { return &ProvinceRepo{db: db} }

// List returns all provinces ordered by code.
func (r *ProvinceRepo) List(ctx context.Context) ([]model.Province, error) {
	const q = `SELECT id, name, code, created_at FROM provinces ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := make([]model.Province, 0)
	for rows.Next() {
		var p model.Province
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
