package repository

import (
	"context"
	"database/sql"

	"github.com/kabasele/plate-allocation/internal/model"
)

// OrderRepo provides persistence for wholesale orders and their
// assigned items (order_items).  All timestamp fields are stored in
// UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, reference, requested_count, base_tariff, discount_kind, discount_value, base_amount, final_amount, status, payer_ref, site_ref, cancel_reason, created_at, updated_at`

// scanOrder scans one order row from the given row scanner.
func scanOrder(row interface{ Scan(...interface{}) error }) (*model.Order, error) {
	var o model.Order
	var reason sql.NullString
	err := row.Scan(&o.ID, &o.Reference, &o.RequestedCount, &o.BaseTariff,
		&o.Discount.Kind, &o.Discount.Value, &o.BaseAmount, &o.FinalAmount,
		&o.Status, &o.PayerRef, &o.SiteRef, &reason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r := reason.String
		o.CancelReason = &r
	}
	return &o, nil
}

// CreateTx inserts a new order within an existing transaction and
// populates the generated ID and DB-defaulted timestamps on the passed
// record.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (reference, requested_count, base_tariff, discount_kind, discount_value, base_amount, final_amount, status, payer_ref, site_ref)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, o.Reference, o.RequestedCount, o.BaseTariff,
		o.Discount.Kind, o.Discount.Value, o.BaseAmount, o.FinalAmount, o.Status, o.PayerRef, o.SiteRef)
	if err != nil {
		return mapErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return mapErr(err)
	}
	o.ID = uint64(id)
	const sel = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	full, err := scanOrder(tx.QueryRowContext(ctx, sel, o.ID))
	if err != nil {
		return mapErr(err)
	}
	*o = *full
	return nil
}

// CreateItemsBulkTx inserts the order's assigned items in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, item_id, label) VALUES `
	args := make([]interface{}, 0, len(items)*3)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, it.OrderID, it.ItemID, it.Label)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapErr(err)
	}
	return nil
}

// GetForUpdateTx returns an order locked for the duration of the
// transaction, or nil when none exists.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? FOR UPDATE`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

// ItemsTx returns the items assigned to the order, ordered by label
// for deterministic output.
func (r *OrderRepo) ItemsTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, item_id, label FROM order_items WHERE order_id = ? ORDER BY label`
	rows, err := tx.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Label); err != nil {
			return nil, mapErr(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return items, nil
}

// UpdateStatusTx flips the order status and records the cancellation
// reason when one is given.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.OrderStatus, reason *string) error {
	const q = `UPDATE orders SET status = ?, cancel_reason = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, status, reason, id); err != nil {
		return mapErr(err)
	}
	return nil
}

// GetByID returns an order with its assigned items, or nil when none
// exists.  Items are ordered by label for deterministic output.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, []model.OrderItem, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, mapErr(err)
	}
	const itemQ = `SELECT id, order_id, item_id, label FROM order_items WHERE order_id = ? ORDER BY label`
	rows, err := r.db.QueryContext(ctx, itemQ, id)
	if err != nil {
		return nil, nil, mapErr(err)
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0, o.RequestedCount)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Label); err != nil {
			return nil, nil, mapErr(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapErr(err)
	}
	return o, items, nil
}
