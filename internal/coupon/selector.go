package coupon

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate pairs an eligible coupon with its unrounded discount amount.
type Candidate struct {
	Coupon   Coupon
	Discount decimal.Decimal
}

// SelectBest evaluates every coupon against the user and cart facts, keeps
// the eligible ones with a positive discount, and orders them by the
// deterministic tie-break rule: larger discount first, then earlier end date
// (a missing end date sorts last), then lexicographically smaller code.
// usage maps normalized coupon codes to the user's redemption counts; pass
// nil for anonymous callers. The second return is false when no coupon
// qualifies, which is a valid empty outcome rather than an error.
func SelectBest(coupons []Coupon, user *User, facts Facts, usage map[string]int64, now time.Time) (Candidate, bool) {
	candidates := make([]Candidate, 0, len(coupons))
	for _, c := range coupons {
		if err := Evaluate(c, user, facts, usage[c.Code], now); err != nil {
			continue
		}
		discount := ComputeDiscount(c, facts.CartValue)
		if discount.Sign() <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{Coupon: c, Discount: discount})
	}
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return lessCandidate(candidates[i], candidates[j])
	})
	return candidates[0], true
}

func lessCandidate(a, b Candidate) bool {
	if cmp := a.Discount.Cmp(b.Discount); cmp != 0 {
		return cmp > 0
	}
	if cmp := compareEndDates(a.Coupon.EndDate, b.Coupon.EndDate); cmp != 0 {
		return cmp < 0
	}
	return a.Coupon.Code < b.Coupon.Code
}

// compareEndDates orders by end date ascending with nil treated as the
// maximum possible date.
func compareEndDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
