package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const defaultQuantity = 1

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt)
	minQuantity = decimal.NewFromInt(math.MinInt)
)

// CoerceQuantity converts loosely typed input to a unit count. Fractions are truncated,
// values beyond the int range saturate, and anything that cannot be read as a number becomes 1.
func CoerceQuantity(v any) int {
	switch q := v.(type) {
	case nil:
		return defaultQuantity
	case int:
		return q
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(q))
		if err != nil {
			return defaultQuantity
		}
		return decimalQuantity(d)
	case decimal.Decimal:
		return decimalQuantity(q)
	case float64:
		return floatQuantity(q)
	case float32:
		return floatQuantity(float64(q))
	case uint64:
		if q > math.MaxInt {
			return math.MaxInt
		}
		return int(q)
	case uint:
		if q > math.MaxInt {
			return math.MaxInt
		}
		return int(q)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return defaultQuantity
	}
	return n
}

func decimalQuantity(d decimal.Decimal) int {
	switch {
	case d.GreaterThan(maxQuantity):
		return math.MaxInt
	case d.LessThan(minQuantity):
		return math.MinInt
	}
	return int(d.IntPart())
}

func floatQuantity(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return defaultQuantity
	}
	f = math.Trunc(f)
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f < float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}
