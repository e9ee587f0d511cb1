package coupon

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeDiscount returns the unrounded monetary discount a coupon yields on
// the given cart value. FLAT discounts are clamped to the cart value so the
// final total can never go negative; PERCENT discounts honour the optional
// cap. An unrecognised discount type computes to zero, which the selector
// and apply paths then discard as non-applicable.
func ComputeDiscount(c Coupon, cartValue decimal.Decimal) decimal.Decimal {
	if cartValue.Sign() <= 0 {
		return decimal.Zero
	}
	switch c.DiscountType {
	case DiscountFlat:
		return decimal.Min(c.DiscountValue, cartValue)
	case DiscountPercent:
		raw := cartValue.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscountAmount != nil {
			raw = decimal.Min(raw, *c.MaxDiscountAmount)
		}
		if raw.Sign() < 0 {
			return decimal.Zero
		}
		return raw
	default:
		return decimal.Zero
	}
}

// FinalAmount computes the payable total after a discount, floored at zero
// and rounded to two decimal places for exposure.
func FinalAmount(cartValue, discount decimal.Decimal) decimal.Decimal {
	final := cartValue.Sub(discount)
	if final.Sign() < 0 {
		final = decimal.Zero
	}
	return final.Round(2)
}
