package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kabasele/plate-allocation/internal/model"
)

// Allocator is the reservation engine for wholesale orders.  Reserve
// and Cancel each run as one transaction against the store, so a
// reservation is either fully allocated and priced or nothing happened
// at all — there is no intermediate state another caller could
// observe.
type Allocator struct {
	store Store
}

// NewAllocator builds an Allocator over the given store.
func NewAllocator(store Store) *Allocator {
	if store == nil {
		panic("nil store passed to NewAllocator")
	}
	return &Allocator{store: store}
}

// ReserveRequest carries the input of a wholesale reservation.
type ReserveRequest struct {
	Count      int
	Scope      Scope
	BaseTariff decimal.Decimal
	Discount   model.Discount
	PayerRef   string
	SiteRef    string
}

// Reserve atomically allocates req.Count available items from active
// series in scope and binds them to a new confirmed order.  Items are
// taken in deterministic order (lowest series code, then lowest value)
// purely so identical pre-states yield identical results; callers must
// not read any fairness guarantee into it.  When fewer items are
// available than requested the call fails with ErrInsufficientStock
// and allocates nothing.
func (a *Allocator) Reserve(ctx context.Context, req ReserveRequest) (*model.Order, []model.OrderItem, error) {
	if req.Count < 1 {
		return nil, nil, validationf("count must be at least 1, got %d", req.Count)
	}
	if req.Scope.ProvinceID == 0 && len(req.Scope.SeriesIDs) == 0 {
		return nil, nil, validationf("scope must name a province or at least one series")
	}
	if req.BaseTariff.IsNegative() {
		return nil, nil, validationf("base tariff must not be negative")
	}
	if !req.Discount.Valid() {
		return nil, nil, validationf("malformed discount descriptor %q", req.Discount.Kind)
	}
	if strings.TrimSpace(req.PayerRef) == "" {
		return nil, nil, validationf("payer reference is required")
	}

	unit := UnitPrice(req.BaseTariff, req.Discount)
	order := &model.Order{
		Reference:      uuid.NewString(),
		RequestedCount: req.Count,
		BaseTariff:     req.BaseTariff,
		Discount:       req.Discount,
		BaseAmount:     OrderTotal(req.BaseTariff, req.Count),
		FinalAmount:    OrderTotal(unit, req.Count),
		Status:         model.OrderConfirmed,
		PayerRef:       req.PayerRef,
		SiteRef:        req.SiteRef,
	}
	var assigned []model.OrderItem

	err := a.store.WithinTx(ctx, func(tx Tx) error {
		items, err := tx.SelectAvailableForUpdate(ctx, req.Scope, req.Count)
		if err != nil {
			return err
		}
		if len(items) < req.Count {
			return fmt.Errorf("%w: requested %d, only %d available in scope", ErrInsufficientStock, req.Count, len(items))
		}
		ids := make([]uint64, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		if err := tx.UpdateItemsStatus(ctx, ids, model.ItemUsed); err != nil {
			return err
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		assigned = make([]model.OrderItem, len(items))
		for i, it := range items {
			assigned[i] = model.OrderItem{
				OrderID: order.ID,
				ItemID:  it.ID,
				Label:   model.PlateLabel(it.SeriesCode, it.Value),
			}
		}
		return tx.InsertOrderItems(ctx, assigned)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, assigned, nil
}

// Cancel flips a confirmed order to cancelled and restores every
// assigned item to available, atomically.  The restored items are
// returned from the same transaction so callers never need a follow-up
// read that could fail after the cancellation committed.  A second
// cancel on the same order fails with ErrAlreadyCancelled and changes
// nothing.
func (a *Allocator) Cancel(ctx context.Context, orderID uint64, reason string) (*model.Order, []model.OrderItem, error) {
	var order *model.Order
	var restored []model.OrderItem
	err := a.store.WithinTx(ctx, func(tx Tx) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if o.Status == model.OrderCancelled {
			return fmt.Errorf("%w: order %d", ErrAlreadyCancelled, orderID)
		}
		items, err := tx.OrderItems(ctx, orderID)
		if err != nil {
			return err
		}
		itemIDs := make([]uint64, len(items))
		for i, it := range items {
			itemIDs[i] = it.ItemID
		}
		if err := tx.UpdateItemsStatus(ctx, itemIDs, model.ItemAvailable); err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, orderID, model.OrderCancelled, &reason); err != nil {
			return err
		}
		o.Status = model.OrderCancelled
		o.CancelReason = &reason
		order = o
		restored = items
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, restored, nil
}

// Get returns an order with its assigned items.
func (a *Allocator) Get(ctx context.Context, orderID uint64) (*model.Order, []model.OrderItem, error) {
	o, items, err := a.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return o, items, nil
}
