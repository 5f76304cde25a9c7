package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabasele/plate-allocation/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUnitPrice(t *testing.T) {
	tariff := dec("50.00")

	t.Run("no discount", func(t *testing.T) {
		got := UnitPrice(tariff, model.Discount{Kind: model.DiscountNone})
		assert.True(t, got.Equal(tariff), "got %s", got)
	})

	t.Run("percentage discount scales the tariff", func(t *testing.T) {
		got := UnitPrice(tariff, model.Discount{Kind: model.DiscountPercentage, Value: dec("10")})
		assert.True(t, got.Equal(dec("45")), "got %s", got)
	})

	t.Run("fixed discount subtracts per unit", func(t *testing.T) {
		got := UnitPrice(tariff, model.Discount{Kind: model.DiscountFixedPerUnit, Value: dec("7.50")})
		assert.True(t, got.Equal(dec("42.50")), "got %s", got)
	})

	t.Run("fixed discount larger than tariff floors at zero", func(t *testing.T) {
		got := UnitPrice(tariff, model.Discount{Kind: model.DiscountFixedPerUnit, Value: dec("60")})
		assert.True(t, got.Equal(decimal.Zero), "got %s", got)
	})
}

func TestOrderTotal(t *testing.T) {
	t.Run("multiplies and rounds to the minimal unit", func(t *testing.T) {
		// 33.335 × 3 = 100.005 → 100.01 (half-up)
		got := OrderTotal(dec("33.335"), 3)
		assert.True(t, got.Equal(dec("100.01")), "got %s", got)
	})

	t.Run("zero count yields zero", func(t *testing.T) {
		got := OrderTotal(dec("99.99"), 0)
		assert.True(t, got.Equal(decimal.Zero), "got %s", got)
	})
}

func TestComputePenalty(t *testing.T) {
	base := dec("200.00")
	creation := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pct30 := model.PenaltyRule{
		GracePeriodDays: 30,
		Penalty:         model.Penalty{Kind: model.PenaltyPercentage, Value: dec("5")},
	}

	t.Run("within grace period no penalty accrues", func(t *testing.T) {
		now := creation.Add(10 * 24 * time.Hour)
		res, err := ComputePenalty(creation, now, base, pct30)
		require.NoError(t, err)
		assert.Equal(t, 10, res.ElapsedDays)
		assert.Equal(t, 0, res.PeriodsElapsed)
		assert.True(t, res.PenaltyAmount.IsZero())
		assert.True(t, res.TotalAmount.Equal(base))
	})

	t.Run("any started day counts as a full day", func(t *testing.T) {
		now := creation.Add(24*time.Hour + time.Minute)
		res, err := ComputePenalty(creation, now, base, pct30)
		require.NoError(t, err)
		assert.Equal(t, 2, res.ElapsedDays)
	})

	t.Run("one percentage increment per elapsed period", func(t *testing.T) {
		now := creation.Add(65 * 24 * time.Hour) // two periods of 30 days
		res, err := ComputePenalty(creation, now, base, pct30)
		require.NoError(t, err)
		assert.Equal(t, 65, res.ElapsedDays)
		assert.Equal(t, 2, res.PeriodsElapsed)
		assert.True(t, res.PenaltyAmount.Equal(dec("20.00")), "got %s", res.PenaltyAmount)
		assert.True(t, res.TotalAmount.Equal(dec("220.00")), "got %s", res.TotalAmount)
	})

	t.Run("fixed penalty accrues per period", func(t *testing.T) {
		rule := model.PenaltyRule{
			GracePeriodDays: 15,
			Penalty:         model.Penalty{Kind: model.PenaltyFixed, Value: dec("12.50")},
		}
		now := creation.Add(46 * 24 * time.Hour) // 3 periods of 15 days
		res, err := ComputePenalty(creation, now, base, rule)
		require.NoError(t, err)
		assert.Equal(t, 3, res.PeriodsElapsed)
		assert.True(t, res.PenaltyAmount.Equal(dec("37.50")), "got %s", res.PenaltyAmount)
	})

	t.Run("creation in the future clamps elapsed to zero", func(t *testing.T) {
		res, err := ComputePenalty(creation, creation.Add(-48*time.Hour), base, pct30)
		require.NoError(t, err)
		assert.Equal(t, 0, res.ElapsedDays)
		assert.True(t, res.TotalAmount.Equal(base))
	})

	t.Run("total is non-decreasing over time", func(t *testing.T) {
		prev := decimal.Zero
		for days := 0; days <= 120; days += 7 {
			res, err := ComputePenalty(creation, creation.Add(time.Duration(days)*24*time.Hour), base, pct30)
			require.NoError(t, err)
			assert.True(t, res.TotalAmount.GreaterThanOrEqual(prev),
				"total decreased at day %d: %s < %s", days, res.TotalAmount, prev)
			prev = res.TotalAmount
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ComputePenalty(creation, creation, base, model.PenaltyRule{GracePeriodDays: 0, Penalty: pct30.Penalty})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = ComputePenalty(creation, creation, base, model.PenaltyRule{GracePeriodDays: 30})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = ComputePenalty(creation, creation, dec("-1"), pct30)
		assert.ErrorIs(t, err, ErrValidation)
	})
}
