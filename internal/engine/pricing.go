package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabasele/plate-allocation/internal/model"
)

// currencyScale is the number of decimal places of the currency's
// minimal unit.  All amounts are in one fixed currency; the engine
// performs no conversion.
const currencyScale = 2

var hundred = decimal.NewFromInt(100)

// roundAmount rounds to the currency's minimal unit, half-up.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(currencyScale)
}

// UnitPrice computes the discounted price of one plate.  Percentage
// discounts scale the tariff by (1 - p/100).  Fixed discounts are
// subtracted per unit from the base tariff; this is the single
// discount scope the engine supports, and a fixed discount larger than
// the tariff floors the unit price at zero rather than going negative.
func UnitPrice(baseTariff decimal.Decimal, discount model.Discount) decimal.Decimal {
	switch discount.Kind {
	case model.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(discount.Value.Div(hundred))
		return baseTariff.Mul(factor)
	case model.DiscountFixedPerUnit:
		unit := baseTariff.Sub(discount.Value)
		if unit.IsNegative() {
			return decimal.Zero
		}
		return unit
	default:
		return baseTariff
	}
}

// OrderTotal computes the payable amount for count units at the given
// unit price, rounded to the currency's minimal unit.
func OrderTotal(unitPrice decimal.Decimal, count int) decimal.Decimal {
	return roundAmount(unitPrice.Mul(decimal.NewFromInt(int64(count))))
}

// PenaltyResult reports the outcome of an overdue penalty computation.
type PenaltyResult struct {
	ElapsedDays    int             `json:"elapsed_days"`
	PeriodsElapsed int             `json:"periods_elapsed"`
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// ComputePenalty derives the overdue penalty owed on baseAmount at the
// instant now, given the creation date of the obligation and the
// penalty rule in force.  Elapsed days are counted with a ceiling, so
// any started day counts as a full one.  One penalty increment accrues
// per fully elapsed grace period: no penalty is owed while
// periods_elapsed is zero, and the total is always base plus penalty,
// which makes it non-decreasing in now.
func ComputePenalty(creation, now time.Time, baseAmount decimal.Decimal, rule model.PenaltyRule) (PenaltyResult, error) {
	if rule.GracePeriodDays < 1 {
		return PenaltyResult{}, validationf("grace period must be at least one day, got %d", rule.GracePeriodDays)
	}
	if !rule.Penalty.Valid() {
		return PenaltyResult{}, validationf("malformed penalty descriptor %q", rule.Penalty.Kind)
	}
	if baseAmount.IsNegative() {
		return PenaltyResult{}, validationf("base amount must not be negative")
	}

	elapsed := 0
	if now.After(creation) {
		elapsed = int(math.Ceil(now.Sub(creation).Hours() / 24))
	}
	periods := elapsed / rule.GracePeriodDays

	penalty := decimal.Zero
	if periods > 0 {
		switch rule.Penalty.Kind {
		case model.PenaltyPercentage:
			penalty = baseAmount.Mul(rule.Penalty.Value).Div(hundred).Mul(decimal.NewFromInt(int64(periods)))
		case model.PenaltyFixed:
			penalty = rule.Penalty.Value.Mul(decimal.NewFromInt(int64(periods)))
		}
		penalty = roundAmount(penalty)
	}

	return PenaltyResult{
		ElapsedDays:    elapsed,
		PeriodsElapsed: periods,
		PenaltyAmount:  penalty,
		TotalAmount:    baseAmount.Add(penalty),
	}, nil
}
