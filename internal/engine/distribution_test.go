package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabasele/plate-allocation/internal/model"
)

func pctShare(ref, value string) model.BeneficiaryShare {
	return model.BeneficiaryShare{
		BeneficiaryRef: ref,
		Share:          model.Share{Kind: model.SharePercentage, Value: dec(value)},
	}
}

func fixedShare(ref, value string) model.BeneficiaryShare {
	return model.BeneficiaryShare{
		BeneficiaryRef: ref,
		Share:          model.Share{Kind: model.ShareFixed, Value: dec(value)},
	}
}

func sumAllocations(allocs []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Amount)
	}
	return sum
}

func TestDistribute(t *testing.T) {
	t.Run("percentage split", func(t *testing.T) {
		allocs, err := Distribute(dec("100.00"), []model.BeneficiaryShare{
			pctShare("treasury", "60"),
			pctShare("province", "40"),
		})
		require.NoError(t, err)
		require.Len(t, allocs, 2)
		assert.True(t, allocs[0].Amount.Equal(dec("60.00")), "got %s", allocs[0].Amount)
		assert.True(t, allocs[1].Amount.Equal(dec("40.00")), "got %s", allocs[1].Amount)
	})

	t.Run("rounding residual lands on the largest share", func(t *testing.T) {
		// Three equal thirds of 100.00 round to 33.33 each; the
		// remaining cent goes to the first (ties broken by input order).
		allocs, err := Distribute(dec("100.00"), []model.BeneficiaryShare{
			pctShare("a", "33.333"),
			pctShare("b", "33.333"),
			pctShare("c", "33.334"),
		})
		require.NoError(t, err)
		require.Len(t, allocs, 3)
		assert.True(t, sumAllocations(allocs).Equal(dec("100.00")), "sum %s", sumAllocations(allocs))
		assert.True(t, allocs[0].Amount.Equal(dec("33.34")), "got %s", allocs[0].Amount)
		assert.True(t, allocs[1].Amount.Equal(dec("33.33")), "got %s", allocs[1].Amount)
		assert.True(t, allocs[2].Amount.Equal(dec("33.33")), "got %s", allocs[2].Amount)
	})

	t.Run("uneven percentage split still sums exactly", func(t *testing.T) {
		allocs, err := Distribute(dec("100.00"), []model.BeneficiaryShare{
			pctShare("a", "33.34"),
			pctShare("b", "33.33"),
			pctShare("c", "33.33"),
		})
		require.NoError(t, err)
		assert.True(t, sumAllocations(allocs).Equal(dec("100.00")), "sum %s", sumAllocations(allocs))
		assert.True(t, allocs[0].Amount.Equal(dec("33.34")), "got %s", allocs[0].Amount)
	})

	t.Run("mixed fixed and percentage shares", func(t *testing.T) {
		allocs, err := Distribute(dec("250.00"), []model.BeneficiaryShare{
			fixedShare("printer", "75.00"),
			pctShare("treasury", "50"),
		})
		require.NoError(t, err)
		require.Len(t, allocs, 2)
		assert.True(t, allocs[0].Amount.Equal(dec("75.00")), "got %s", allocs[0].Amount)
		// 50% of 250 is 125; the residual 50 tops up the largest share.
		assert.True(t, sumAllocations(allocs).Equal(dec("250.00")), "sum %s", sumAllocations(allocs))
	})

	t.Run("allocations always sum to the total exactly", func(t *testing.T) {
		totals := []string{"0.01", "0.10", "99.99", "1000.00", "123.45"}
		shares := []model.BeneficiaryShare{
			pctShare("a", "17.5"),
			pctShare("b", "29.3"),
			pctShare("c", "53.2"),
		}
		for _, total := range totals {
			allocs, err := Distribute(dec(total), shares)
			require.NoError(t, err)
			assert.True(t, sumAllocations(allocs).Equal(dec(total)),
				"total %s: sum %s", total, sumAllocations(allocs))
		}
	})

	t.Run("fixed shares exceeding the total over-allocate", func(t *testing.T) {
		_, err := Distribute(dec("100.00"), []model.BeneficiaryShare{
			fixedShare("a", "80.00"),
			fixedShare("b", "30.00"),
		})
		assert.ErrorIs(t, err, ErrOverAllocation)
	})

	t.Run("empty beneficiary list with positive total fails", func(t *testing.T) {
		_, err := Distribute(dec("10.00"), nil)
		assert.ErrorIs(t, err, ErrEmptyBeneficiaryList)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty beneficiary list with zero total is a no-op", func(t *testing.T) {
		allocs, err := Distribute(decimal.Zero, nil)
		require.NoError(t, err)
		assert.Empty(t, allocs)
	})

	t.Run("negative total is rejected", func(t *testing.T) {
		_, err := Distribute(dec("-5.00"), []model.BeneficiaryShare{pctShare("a", "100")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed share is rejected", func(t *testing.T) {
		_, err := Distribute(dec("10.00"), []model.BeneficiaryShare{
			{BeneficiaryRef: "a", Share: model.Share{Kind: "WEIRD", Value: dec("1")}},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
