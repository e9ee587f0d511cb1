package coupon_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/offerlab/coupon-api/internal/coupon"
)

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeDiscountFlat(t *testing.T) {
	c := coupon.Coupon{DiscountType: coupon.DiscountFlat, DiscountValue: dec("100")}

	require.True(t, coupon.ComputeDiscount(c, dec("500")).Equal(dec("100")))
	// flat discounts never exceed the cart value
	require.True(t, coupon.ComputeDiscount(c, dec("60")).Equal(dec("60")))
	require.True(t, coupon.ComputeDiscount(c, decimal.Zero).IsZero())
}

func TestComputeDiscountPercent(t *testing.T) {
	c := coupon.Coupon{
		DiscountType:      coupon.DiscountPercent,
		DiscountValue:     dec("50"),
		MaxDiscountAmount: decPtr("500"),
	}

	// 50% of 2000 is 1000, capped at 500
	require.True(t, coupon.ComputeDiscount(c, dec("2000")).Equal(dec("500")))
	// 50% of 600 is 300, below the cap
	require.True(t, coupon.ComputeDiscount(c, dec("600")).Equal(dec("300")))

	uncapped := coupon.Coupon{DiscountType: coupon.DiscountPercent, DiscountValue: dec("10")}
	require.True(t, coupon.ComputeDiscount(uncapped, dec("1500")).Equal(dec("150")))
}

func TestComputeDiscountUnknownTypeIsZero(t *testing.T) {
	c := coupon.Coupon{DiscountType: "BOGO", DiscountValue: dec("100")}
	require.True(t, coupon.ComputeDiscount(c, dec("1000")).IsZero())
}

func TestFinalAmount(t *testing.T) {
	require.True(t, coupon.FinalAmount(dec("1500"), dec("150")).Equal(dec("1350")))
	require.True(t, coupon.FinalAmount(dec("100"), dec("250")).IsZero(), "final total floors at zero")
	require.Equal(t, "1349.99", coupon.FinalAmount(dec("1499.994"), dec("150")).StringFixed(2))
}
