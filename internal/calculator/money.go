package calculator

import "github.com/shopspring/decimal"

// Scales of stored values. Amounts, payments and totals are kept in cents;
// discounts are percentages with up to six places.
const (
	MoneyPlaces   = 2
	PercentPlaces = 6
)

// DisplayPlaces is the number of decimal places amounts are presented with.
const DisplayPlaces = MoneyPlaces

var (
	hundred = decimal.NewFromInt(100)

	// maxMoney is the first value that no longer fits DECIMAL(20,6).
	maxMoney = decimal.New(1, 14)
)

// DiscountedTotal returns amount - amount*discount/100 rounded to MoneyPlaces.
// A missing discount is treated as zero.
func DiscountedTotal(amount decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if !discount.Valid {
		return amount.Round(MoneyPlaces)
	}
	return amount.Sub(amount.Mul(discount.Decimal).Div(hundred)).Round(MoneyPlaces)
}

// Sum adds the given amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Pending returns total minus everything already paid.
// The result is negative only if the inputs violate the admission rule.
func Pending(total decimal.Decimal, paid ...decimal.Decimal) decimal.Decimal {
	return total.Sub(Sum(paid...))
}

// Round rounds to DisplayPlaces for presentation.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// FloorZero returns d, or zero when d is negative.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// HasPlaces reports whether d is exact at the given number of decimal places.
// Trailing zeros do not count: 1.500 has one place.
func HasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// IsMoney reports whether d can be stored as a money value without rounding.
func IsMoney(d decimal.Decimal) bool {
	return HasPlaces(d, MoneyPlaces) && d.Abs().LessThan(maxMoney)
}

// InPercentRange reports whether d lies in [0, 100].
func InPercentRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
