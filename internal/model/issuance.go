package model

import "time"

// IssuanceStatus enumerates the states of a single-plate issuance
// ("carte rose").  Like orders, the state machine is one-way:
// ACTIVE → CANCELLED, terminal, idempotent-failing on repeat.
type IssuanceStatus string

const (
	IssuanceActive    IssuanceStatus = "ACTIVE"
	IssuanceCancelled IssuanceStatus = "CANCELLED"
)

// Issuance binds exactly one item to one subject and payment for a
// single plate delivery.  An item is consumed by at most one mechanism
// at a time, so an issuance is mutually exclusive with any order over
// the same item.
//
// Fields:
//  ID           – primary key identifier.
//  Reference    – public correlation reference (uuid).
//  ItemID       – item consumed by this issuance.
//  SubjectRef   – external reference of the vehicle owner.
//  PaymentRef   – external reference of the payment.
//  Status       – ACTIVE or CANCELLED.
//  CancelReason – operator-supplied reason, set on cancellation.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Issuance struct {
	ID           uint64         // issuances.id
	Reference    string         // issuances.reference
	ItemID       uint64         // issuances.item_id
	SubjectRef   string         // issuances.subject_ref
	PaymentRef   string         // issuances.payment_ref
	Status       IssuanceStatus // issuances.status
	CancelReason *string        // issuances.cancel_reason (nullable)
	CreatedAt    time.Time      // issuances.created_at
	UpdatedAt    time.Time      // issuances.updated_at
}
