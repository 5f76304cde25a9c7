package engine

import (
	"github.com/shopspring/decimal"

	"github.com/kabasele/plate-allocation/internal/model"
)

// Allocation is one beneficiary's computed cut of a distributed total.
type Allocation struct {
	BeneficiaryRef string          `json:"beneficiary_ref"`
	Amount         decimal.Decimal `json:"amount"`
}

// Distribute splits totalAmount across the beneficiaries.  Percentage
// shares compute round(total × p/100); fixed shares take their
// declared value.  Fixed shares may never sum to more than the total
// (ErrOverAllocation).  After all amounts are computed, the rounding
// residual is added to — or subtracted from — the beneficiary with the
// largest computed share, ties broken by input order, so that the
// allocations always sum to totalAmount exactly.
//
// An empty beneficiary list is an error when there is a positive
// amount to distribute; distributing zero to nobody is a no-op.
func Distribute(totalAmount decimal.Decimal, beneficiaries []model.BeneficiaryShare) ([]Allocation, error) {
	if totalAmount.IsNegative() {
		return nil, validationf("total amount must not be negative")
	}
	if len(beneficiaries) == 0 {
		if totalAmount.IsPositive() {
			return nil, ErrEmptyBeneficiaryList
		}
		return []Allocation{}, nil
	}

	allocations := make([]Allocation, 0, len(beneficiaries))
	fixedSum := decimal.Zero
	for _, b := range beneficiaries {
		if !b.Share.Valid() {
			return nil, validationf("malformed share descriptor for beneficiary %q", b.BeneficiaryRef)
		}
		var amount decimal.Decimal
		switch b.Share.Kind {
		case model.SharePercentage:
			amount = roundAmount(totalAmount.Mul(b.Share.Value).Div(hundred))
		case model.ShareFixed:
			amount = roundAmount(b.Share.Value)
			fixedSum = fixedSum.Add(amount)
		}
		allocations = append(allocations, Allocation{BeneficiaryRef: b.BeneficiaryRef, Amount: amount})
	}
	if fixedSum.GreaterThan(totalAmount) {
		return nil, ErrOverAllocation
	}

	// Single reconciliation step: push the residual onto the largest
	// share so the allocations sum to the total exactly.
	sum := decimal.Zero
	largest := 0
	for i, a := range allocations {
		sum = sum.Add(a.Amount)
		if a.Amount.GreaterThan(allocations[largest].Amount) {
			largest = i
		}
	}
	if residual := totalAmount.Sub(sum); !residual.IsZero() {
		allocations[largest].Amount = allocations[largest].Amount.Add(residual)
	}
	return allocations, nil
}
