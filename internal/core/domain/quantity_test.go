package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceQuantity(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{3, 3},
		{int64(4), 4},
		{2.9, 2},
		{"5", 5},
		{" 2.7 ", 2},
		{"1e1", 10},
		{"-2", -2},
		{"two", 1},
		{"", 1},
		{nil, 1},
		{dec("6.5"), 6},
		{struct{}{}, 1},
		{"18446744073709551617", math.MaxInt},
		{"1e30", math.MaxInt},
		{"-1e30", math.MinInt},
		{1e30, math.MaxInt},
		{-1e30, math.MinInt},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{uint64(math.MaxUint64), math.MaxInt},
		{dec("1e40"), math.MaxInt},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceQuantity(tc.in), "input %#v", tc.in)
	}
}

func TestPurchaseQuantity_OversizedRequestBuysAllStock(t *testing.T) {
	for _, in := range []any{"18446744073709551617", "1e30", 1e30} {
		inv := NewInventory()
		inv.AddItem(NewItem("chips", dec("1.00"), 10))
		m := NewVendingMachine(inv)
		m.InsertMoney(dec("100"))

		res := m.PurchaseQuantity("chips", in)
		assert.True(t, res.Success, "input %#v", in)
		assert.Equal(t, math.MaxInt, res.Requested, "input %#v", in)
		assert.Equal(t, 10, res.Bought, "input %#v", in)
		assert.True(t, m.Balance().Equal(dec("90")), "input %#v", in)
	}
}
