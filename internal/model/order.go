package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the states of a wholesale order.  The state
// machine is one-way: CONFIRMED → CANCELLED, terminal, and a repeated
// cancellation fails rather than being absorbed.
type OrderStatus string

const (
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order records a wholesale reservation of plate slots.  The assigned
// items are bound at fulfillment time and stored in the order_items
// table; while the order is CONFIRMED every assigned item is USED, and
// cancellation flips the order and all of its items back atomically.
//
// Fields:
//  ID             – primary key identifier.
//  Reference      – public correlation reference (uuid).
//  RequestedCount – number of slots reserved; always equals the number
//                   of assigned items.
//  BaseTariff     – undiscounted price of one plate.
//  Discount       – discount descriptor applied to the tariff.
//  BaseAmount     – requested_count × base_tariff, before discount.
//  FinalAmount    – discounted total, rounded to the currency minimal unit.
//  Status         – CONFIRMED or CANCELLED.
//  PayerRef       – external reference of the paying party.
//  SiteRef        – external reference of the delivery site.
//  CancelReason   – operator-supplied reason, set on cancellation.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Order struct {
	ID             uint64          // orders.id
	Reference      string          // orders.reference
	RequestedCount int             // orders.requested_count
	BaseTariff     decimal.Decimal // orders.base_tariff
	Discount       Discount        // orders.discount_kind + orders.discount_value
	BaseAmount     decimal.Decimal // orders.base_amount
	FinalAmount    decimal.Decimal // orders.final_amount
	Status         OrderStatus     // orders.status
	PayerRef       string          // orders.payer_ref
	SiteRef        string          // orders.site_ref
	CancelReason   *string         // orders.cancel_reason (nullable)
	CreatedAt      time.Time       // orders.created_at
	UpdatedAt      time.Time       // orders.updated_at
}

// OrderItem links an order to one assigned item.  The plate label is
// denormalized onto the row so event payloads and listings do not need
// to join back through series.
//
// Fields:
//  ID      – primary key identifier.
//  OrderID – order the item is assigned to.
//  ItemID  – assigned item.
//  Label   – rendered plate label at assignment time.
type OrderItem struct {
	ID      uint64 // order_items.id
	OrderID uint64 // order_items.order_id
	ItemID  uint64 // order_items.item_id
	Label   string // order_items.label
}
