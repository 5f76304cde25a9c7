package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPlateLabel(t *testing.T) {
	assert.Equal(t, "AB 007", PlateLabel("AB", 7))
	assert.Equal(t, "KN 001", PlateLabel("KN", 1))
	assert.Equal(t, "ZZ 999", PlateLabel("ZZ", 999))
	assert.Equal(t, "AB 042", PlateLabel("AB", 42))
}

func TestValidSeriesCode(t *testing.T) {
	for _, code := range []string{"AB", "KN", "ZZ"} {
		assert.True(t, ValidSeriesCode(code), "code %q", code)
	}
	for _, code := range []string{"", "A", "ABC", "ab", "A1", "1B", "A B", " AB"} {
		assert.False(t, ValidSeriesCode(code), "code %q", code)
	}
}

func TestValidSeriesRange(t *testing.T) {
	valid := []struct{ start, end uint16 }{
		{1, 1}, {1, 999}, {500, 500}, {100, 200},
	}
	for _, c := range valid {
		assert.True(t, ValidSeriesRange(c.start, c.end), "range [%d, %d]", c.start, c.end)
	}
	invalid := []struct{ start, end uint16 }{
		{0, 10}, {0, 0}, {2, 1}, {500, 100}, {1, 1000}, {1000, 1000},
	}
	for _, c := range invalid {
		assert.False(t, ValidSeriesRange(c.start, c.end), "range [%d, %d]", c.start, c.end)
	}
}

func TestSeriesSize(t *testing.T) {
	s := Series{RangeStart: 1, RangeEnd: 999}
	assert.Equal(t, 999, s.Size())
	s = Series{RangeStart: 10, RangeEnd: 10}
	assert.Equal(t, 1, s.Size())
}

func TestDiscountValid(t *testing.T) {
	ten := decimal.NewFromInt(10)

	assert.True(t, Discount{Kind: DiscountNone}.Valid())
	assert.True(t, Discount{Kind: DiscountPercentage, Value: ten}.Valid())
	assert.True(t, Discount{Kind: DiscountFixedPerUnit, Value: ten}.Valid())

	assert.False(t, Discount{Kind: "BOTH"}.Valid())
	assert.False(t, Discount{Kind: DiscountPercentage, Value: decimal.NewFromInt(101)}.Valid())
	assert.False(t, Discount{Kind: DiscountPercentage, Value: decimal.NewFromInt(-1)}.Valid())
	assert.False(t, Discount{Kind: DiscountFixedPerUnit, Value: decimal.NewFromInt(-1)}.Valid())
}

func TestPenaltyValid(t *testing.T) {
	five := decimal.NewFromInt(5)

	assert.True(t, Penalty{Kind: PenaltyPercentage, Value: five}.Valid())
	assert.True(t, Penalty{Kind: PenaltyFixed, Value: five}.Valid())

	assert.False(t, Penalty{}.Valid())
	assert.False(t, Penalty{Kind: PenaltyFixed, Value: decimal.NewFromInt(-5)}.Valid())
}

func TestShareValid(t *testing.T) {
	assert.True(t, Share{Kind: SharePercentage, Value: decimal.NewFromInt(100)}.Valid())
	assert.True(t, Share{Kind: ShareFixed, Value: decimal.NewFromInt(0)}.Valid())

	assert.False(t, Share{}.Valid())
	assert.False(t, Share{Kind: SharePercentage, Value: decimal.NewFromInt(101)}.Valid())
	assert.False(t, Share{Kind: ShareFixed, Value: decimal.NewFromInt(-1)}.Valid())
}
