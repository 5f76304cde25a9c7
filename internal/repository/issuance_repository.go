package repository

import (
	"context"
	"database/sql"

	"github.com/kabasele/plate-allocation/internal/model"
)

// IssuanceRepo provides persistence for single-plate issuances
// ("cartes roses").
type IssuanceRepo struct {
	db *sql.DB
}

// NewIssuanceRepo returns a new IssuanceRepo bound to the given database.
func NewIssuanceRepo(db *sql.DB) *IssuanceRepo { return &IssuanceRepo{db: db} }

const issuanceColumns = `id, reference, item_id, subject_ref, payment_ref, status, cancel_reason, created_at, updated_at`

// scanIssuance scans one issuance row from the given row scanner.
func scanIssuance(row interface{ Scan(...interface{}) error }) (*model.Issuance, error) {
	var iss model.Issuance
	var reason sql.NullString
	err := row.Scan(&iss.ID, &iss.Reference, &iss.ItemID, &iss.SubjectRef, &iss.PaymentRef,
		&iss.Status, &reason, &iss.CreatedAt, &iss.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r := reason.String
		iss.CancelReason = &r
	}
	return &iss, nil
}

// CreateTx inserts a new issuance within an existing transaction and
// populates the generated ID and DB-defaulted timestamps.
func (r *IssuanceRepo) CreateTx(ctx context.Context, tx *sql.Tx, iss *model.Issuance) error {
	const q = `INSERT INTO issuances (reference, item_id, subject_ref, payment_ref, status) VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, iss.Reference, iss.ItemID, iss.SubjectRef, iss.PaymentRef, iss.Status)
	if err != nil {
		return mapErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return mapErr(err)
	}
	iss.ID = uint64(id)
	const sel = `SELECT ` + issuanceColumns + ` FROM issuances WHERE id = ?`
	full, err := scanIssuance(tx.QueryRowContext(ctx, sel, iss.ID))
	if err != nil {
		return mapErr(err)
	}
	*iss = *full
	return nil
}

// GetForUpdateTx returns an issuance locked for the duration of the
// transaction, or nil when none exists.
func (r *IssuanceRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Issuance, error) {
	const q = `SELECT ` + issuanceColumns + ` FROM issuances WHERE id = ? FOR UPDATE`
	iss, err := scanIssuance(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return iss, nil
}

// UpdateStatusTx flips the issuance status and records the
// cancellation reason when one is given.
func (r *IssuanceRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.IssuanceStatus, reason *string) error {
	const q = `UPDATE issuances SET status = ?, cancel_reason = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, status, reason, id); err != nil {
		return mapErr(err)
	}
	return nil
}

// GetByID returns an issuance by primary key, or nil when none exists.
func (r *IssuanceRepo) GetByID(ctx context.Context, id uint64) (*model.Issuance, error) {
	const q = `SELECT ` + issuanceColumns + ` FROM issuances WHERE id = ?`
	iss, err := scanIssuance(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return iss, nil
}
