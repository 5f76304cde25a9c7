package model

import "github.com/shopspring/decimal"

// Discount, Penalty and Share are tagged variants: one Kind plus one
// Value.  Modelling them this way makes "both percentage and fixed
// set" or "neither set" unrepresentable, which the optional-field pair
// used elsewhere in the back office could not guarantee.

// DiscountKind enumerates how a discount applies to an order.
type DiscountKind string

const (
	DiscountNone         DiscountKind = "NONE"
	DiscountPercentage   DiscountKind = "PERCENTAGE"
	DiscountFixedPerUnit DiscountKind = "FIXED_PER_UNIT"
)

// Discount describes the price reduction applied to a wholesale order.
// Percentage discounts scale the unit price by (1 - value/100); fixed
// discounts subtract value from the base tariff of every unit.
type Discount struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Valid reports whether the discount is well formed: a known kind,
// a non-negative value, and percentages no greater than 100.
func (d Discount) Valid() bool {
	switch d.Kind {
	case DiscountNone:
		return true
	case DiscountPercentage:
		return !d.Value.IsNegative() && d.Value.LessThanOrEqual(decimal.NewFromInt(100))
	case DiscountFixedPerUnit:
		return !d.Value.IsNegative()
	}
	return false
}

// PenaltyKind enumerates how an overdue penalty accrues per elapsed
// grace period.
type PenaltyKind string

const (
	PenaltyPercentage PenaltyKind = "PERCENTAGE"
	PenaltyFixed      PenaltyKind = "FIXED"
)

// Penalty describes one penalty increment: a percentage of the base
// amount or a fixed amount, applied once per fully elapsed grace
// period.
type Penalty struct {
	Kind  PenaltyKind     `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Valid reports whether the penalty descriptor is well formed.
func (p Penalty) Valid() bool {
	switch p.Kind {
	case PenaltyPercentage, PenaltyFixed:
		return !p.Value.IsNegative()
	}
	return false
}

// PenaltyRule is external configuration consumed by the pricing
// functions: the length of one grace period in days and the penalty
// accrued per elapsed period.
type PenaltyRule struct {
	GracePeriodDays int     `json:"grace_period_days"`
	Penalty         Penalty `json:"penalty"`
}

// ShareKind enumerates how a beneficiary's cut of a collected payment
// is expressed.
type ShareKind string

const (
	SharePercentage ShareKind = "PERCENTAGE"
	ShareFixed      ShareKind = "FIXED"
)

// Share describes one beneficiary's entitlement: a percentage of the
// distributed total or a fixed amount.
type Share struct {
	Kind  ShareKind       `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Valid reports whether the share descriptor is well formed.
func (s Share) Valid() bool {
	switch s.Kind {
	case SharePercentage:
		return !s.Value.IsNegative() && s.Value.LessThanOrEqual(decimal.NewFromInt(100))
	case ShareFixed:
		return !s.Value.IsNegative()
	}
	return false
}

// BeneficiaryShare pairs a beneficiary reference with its declared
// share.  Computed amounts are derived per distribution run and never
// persisted independently.
type BeneficiaryShare struct {
	BeneficiaryRef string `json:"beneficiary_ref"`
	Share          Share  `json:"share"`
}
