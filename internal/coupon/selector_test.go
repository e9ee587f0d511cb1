package coupon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/offerlab/coupon-api/internal/coupon"
)

func TestSelectBestPrefersLargestDiscount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start, end := activeWindow(now)

	coupons := []coupon.Coupon{
		{Code: "FLAT50", DiscountType: coupon.DiscountFlat, DiscountValue: dec("50"), StartDate: start, EndDate: end},
		{Code: "TEN-PCT", DiscountType: coupon.DiscountPercent, DiscountValue: dec("10"), StartDate: start, EndDate: end},
	}
	facts := coupon.CalculateFacts(coupon.Cart{Items: coupon.ItemList{
		{Category: "books", UnitPrice: dec("1000"), Quantity: 1},
	}})

	// 10% of 1000 beats the flat 50
	winner, ok := coupon.SelectBest(coupons, nil, facts, nil, now)
	require.True(t, ok)
	require.Equal(t, "TEN-PCT", winner.Coupon.Code)
	require.True(t, winner.Discount.Equal(dec("100")))
}

func TestSelectBestTieBreaks(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	soon := ptr(now.Add(24 * time.Hour))
	later := ptr(now.Add(48 * time.Hour))

	flat := func(code string, end *time.Time) coupon.Coupon {
		return coupon.Coupon{Code: code, DiscountType: coupon.DiscountFlat,
			DiscountValue: dec("100"), StartDate: start, EndDate: end}
	}
	facts := coupon.CalculateFacts(coupon.Cart{Items: coupon.ItemList{
		{UnitPrice: dec("500"), Quantity: 1},
	}})

	t.Run("earlier end date wins on equal discount", func(t *testing.T) {
		winner, ok := coupon.SelectBest([]coupon.Coupon{flat("B", later), flat("A", soon)}, nil, facts, nil, now)
		require.True(t, ok)
		require.Equal(t, "A", winner.Coupon.Code)
	})

	t.Run("missing end date sorts last", func(t *testing.T) {
		winner, ok := coupon.SelectBest([]coupon.Coupon{flat("A", nil), flat("B", later)}, nil, facts, nil, now)
		require.True(t, ok)
		require.Equal(t, "B", winner.Coupon.Code)
	})

	t.Run("code breaks the final tie", func(t *testing.T) {
		winner, ok := coupon.SelectBest([]coupon.Coupon{flat("ZETA", soon), flat("ALPHA", soon)}, nil, facts, nil, now)
		require.True(t, ok)
		require.Equal(t, "ALPHA", winner.Coupon.Code)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		forward, _ := coupon.SelectBest([]coupon.Coupon{flat("ALPHA", soon), flat("ZETA", soon)}, nil, facts, nil, now)
		reversed, _ := coupon.SelectBest([]coupon.Coupon{flat("ZETA", soon), flat("ALPHA", soon)}, nil, facts, nil, now)
		require.Equal(t, forward.Coupon.Code, reversed.Coupon.Code)
	})
}

func TestSelectBestSkipsIneligibleAndZeroDiscount(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start, end := activeWindow(now)

	coupons := []coupon.Coupon{
		{Code: "GOLDONLY", DiscountType: coupon.DiscountFlat, DiscountValue: dec("500"),
			StartDate: start, EndDate: end,
			Eligibility: coupon.Eligibility{AllowedUserTiers: []string{"GOLD"}}},
		{Code: "MYSTERY", DiscountType: "BOGO", DiscountValue: dec("500"),
			StartDate: start, EndDate: end},
		{Code: "SMALL", DiscountType: coupon.DiscountFlat, DiscountValue: dec("10"),
			StartDate: start, EndDate: end},
	}
	facts := coupon.CalculateFacts(coupon.Cart{Items: coupon.ItemList{
		{UnitPrice: dec("300"), Quantity: 1},
	}})

	winner, ok := coupon.SelectBest(coupons, &coupon.User{UserID: "u-1", UserTier: "SILVER"}, facts, nil, now)
	require.True(t, ok)
	require.Equal(t, "SMALL", winner.Coupon.Code)
}

func TestSelectBestUsageCounts(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start, end := activeWindow(now)

	coupons := []coupon.Coupon{
		{Code: "CAPPED", DiscountType: coupon.DiscountFlat, DiscountValue: dec("100"),
			StartDate: start, EndDate: end, UsageLimitPerUser: ptr(1)},
		{Code: "OPEN", DiscountType: coupon.DiscountFlat, DiscountValue: dec("50"),
			StartDate: start, EndDate: end},
	}
	facts := coupon.CalculateFacts(coupon.Cart{Items: coupon.ItemList{
		{UnitPrice: dec("400"), Quantity: 1},
	}})
	user := &coupon.User{UserID: "u-1"}

	winner, ok := coupon.SelectBest(coupons, user, facts, nil, now)
	require.True(t, ok)
	require.Equal(t, "CAPPED", winner.Coupon.Code)

	winner, ok = coupon.SelectBest(coupons, user, facts, map[string]int64{"CAPPED": 1}, now)
	require.True(t, ok)
	require.Equal(t, "OPEN", winner.Coupon.Code)
}

func TestSelectBestEmptyOutcome(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	_, ok := coupon.SelectBest(nil, nil, coupon.Facts{}, nil, now)
	require.False(t, ok)

	// an empty cart produces a zero discount for every coupon
	start, end := activeWindow(now)
	coupons := []coupon.Coupon{
		{Code: "FLAT50", DiscountType: coupon.DiscountFlat, DiscountValue: dec("50"), StartDate: start, EndDate: end},
	}
	_, ok = coupon.SelectBest(coupons, nil, coupon.CalculateFacts(coupon.Cart{}), nil, now)
	require.False(t, ok)
}
