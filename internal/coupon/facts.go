package coupon

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Facts holds the scalar values derived once from a cart and shared by every
// eligibility evaluation in a request.
type Facts struct {
	CartValue  decimal.Decimal
	ItemsCount int
	Categories map[string]struct{}
}

// CalculateFacts derives cart facts from the raw cart payload. Lines with a
// non-positive quantity are ignored, and a missing item list yields zero
// facts with an empty category set.
func CalculateFacts(cart Cart) Facts {
	facts := Facts{
		CartValue:  decimal.Zero,
		Categories: make(map[string]struct{}),
	}
	for _, item := range cart.Items {
		if item.Quantity <= 0 {
			continue
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		facts.CartValue = facts.CartValue.Add(line)
		facts.ItemsCount += item.Quantity
		if category := strings.ToLower(strings.TrimSpace(item.Category)); category != "" {
			facts.Categories[category] = struct{}{}
		}
	}
	return facts
}

// HasCategory reports whether the cart contains at least one item from the set.
func (f Facts) HasCategory(categories []string) bool {
	for _, category := range categories {
		if _, ok := f.Categories[strings.ToLower(strings.TrimSpace(category))]; ok {
			return true
		}
	}
	return false
}
