package coupon

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seed loads the demo coupon set into the store. State is volatile, so the
// seed runs on every start; codes that already exist are left untouched.
func Seed(s *Store, now time.Time) error {
	start := now.AddDate(0, 0, -1)
	end := now.AddDate(1, 0, 0)

	demo := []Coupon{
		{
			Code:          "WELCOME100",
			Description:   "Flat 100 off the first order",
			DiscountType:  DiscountFlat,
			DiscountValue: decimal.NewFromInt(100),
			Eligibility: Eligibility{
				FirstOrderOnly: boolPtr(true),
				MinCartValue:   decimalPtr(decimal.NewFromInt(500)),
			},
		},
		{
			Code:              "FESTIVE50P",
			Description:       "Festive 50% off, capped at 500",
			DiscountType:      DiscountPercent,
			DiscountValue:     decimal.NewFromInt(50),
			MaxDiscountAmount: decimalPtr(decimal.NewFromInt(500)),
			Eligibility: Eligibility{
				MinCartValue: decimalPtr(decimal.NewFromInt(1000)),
			},
		},
		{
			Code:          "ELECTRO10",
			Description:   "10% off electronics",
			DiscountType:  DiscountPercent,
			DiscountValue: decimal.NewFromInt(10),
			Eligibility: Eligibility{
				MinCartValue:         decimalPtr(decimal.NewFromInt(1000)),
				ApplicableCategories: []string{"electronics"},
			},
		},
		{
			Code:          "EXCLUDE-FASHION",
			Description:   "Flat 75 off carts without fashion items",
			DiscountType:  DiscountFlat,
			DiscountValue: decimal.NewFromInt(75),
			Eligibility: Eligibility{
				MinCartValue:       decimalPtr(decimal.NewFromInt(500)),
				ExcludedCategories: []string{"fashion"},
			},
		},
		{
			Code:              "GOLD20",
			Description:       "20% off for gold and platinum members, capped at 300",
			DiscountType:      DiscountPercent,
			DiscountValue:     decimal.NewFromInt(20),
			MaxDiscountAmount: decimalPtr(decimal.NewFromInt(300)),
			Eligibility: Eligibility{
				AllowedUserTiers: []string{"GOLD", "PLATINUM"},
			},
		},
		{
			Code:              "IN-FREEDEL",
			Description:       "Flat 49 delivery credit for India, up to 3 uses",
			DiscountType:      DiscountFlat,
			DiscountValue:     decimal.NewFromInt(49),
			UsageLimitPerUser: intPtr(3),
			Eligibility: Eligibility{
				AllowedCountries: []string{"IN"},
				MinItemsCount:    intPtr(2),
			},
		},
	}

	for _, c := range demo {
		c.ID = uuid.NewString()
		c.StartDate = start
		c.EndDate = timePtr(end)
		c.CreatedAt = now
		if err := s.Create(c); err != nil && err != ErrDuplicateCode {
			return err
		}
	}
	return nil
}

func boolPtr(v bool) *bool                        { return &v }
func intPtr(v int) *int                           { return &v }
func timePtr(v time.Time) *time.Time              { return &v }
func decimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }
