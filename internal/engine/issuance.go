package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kabasele/plate-allocation/internal/model"
)

// Ledger is the issuance ledger for single-plate deliveries.  It binds
// one item to one subject and payment reference, flipping the item to
// used in the same transaction so an item can never be consumed by an
// issuance and an order at once.
type Ledger struct {
	store Store
}

// NewLedger builds a Ledger over the given store.
func NewLedger(store Store) *Ledger {
	if store == nil {
		panic("nil store passed to NewLedger")
	}
	return &Ledger{store: store}
}

// Issue creates an active issuance for the item.  The item must be
// currently available; otherwise the call fails with
// ErrItemNotAvailable and nothing changes.  The returned label is the
// rendered plate identifier of the issued item.
func (l *Ledger) Issue(ctx context.Context, itemID uint64, subjectRef, paymentRef string) (*model.Issuance, string, error) {
	if strings.TrimSpace(subjectRef) == "" {
		return nil, "", validationf("subject reference is required")
	}
	if strings.TrimSpace(paymentRef) == "" {
		return nil, "", validationf("payment reference is required")
	}

	issuance := &model.Issuance{
		Reference:  uuid.NewString(),
		ItemID:     itemID,
		SubjectRef: subjectRef,
		PaymentRef: paymentRef,
		Status:     model.IssuanceActive,
	}
	var label string

	err := l.store.WithinTx(ctx, func(tx Tx) error {
		item, err := tx.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		if item.Status != model.ItemAvailable {
			return fmt.Errorf("%w: item %d is %s", ErrItemNotAvailable, itemID, item.Status)
		}
		if err := tx.UpdateItemsStatus(ctx, []uint64{itemID}, model.ItemUsed); err != nil {
			return err
		}
		label = model.PlateLabel(item.SeriesCode, item.Value)
		return tx.InsertIssuance(ctx, issuance)
	})
	if err != nil {
		return nil, "", err
	}
	return issuance, label, nil
}

// Cancel flips an active issuance to cancelled and restores its item
// to available, atomically.  Cancelling an already-cancelled issuance
// fails with ErrAlreadyCancelled and changes nothing.
func (l *Ledger) Cancel(ctx context.Context, issuanceID uint64, reason string) (*model.Issuance, error) {
	var issuance *model.Issuance
	err := l.store.WithinTx(ctx, func(tx Tx) error {
		iss, err := tx.GetIssuanceForUpdate(ctx, issuanceID)
		if err != nil {
			return err
		}
		if iss == nil {
			return fmt.Errorf("%w: issuance %d", ErrNotFound, issuanceID)
		}
		if iss.Status == model.IssuanceCancelled {
			return fmt.Errorf("%w: issuance %d", ErrAlreadyCancelled, issuanceID)
		}
		if err := tx.UpdateItemsStatus(ctx, []uint64{iss.ItemID}, model.ItemAvailable); err != nil {
			return err
		}
		if err := tx.UpdateIssuanceStatus(ctx, issuanceID, model.IssuanceCancelled, &reason); err != nil {
			return err
		}
		iss.Status = model.IssuanceCancelled
		iss.CancelReason = &reason
		issuance = iss
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issuance, nil
}

// Get returns an issuance by ID.
func (l *Ledger) Get(ctx context.Context, issuanceID uint64) (*model.Issuance, error) {
	iss, err := l.store.GetIssuance(ctx, issuanceID)
	if err != nil {
		return nil, err
	}
	if iss == nil {
		return nil, fmt.Errorf("%w: issuance %d", ErrNotFound, issuanceID)
	}
	return iss, nil
}
