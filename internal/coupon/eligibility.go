package coupon

import (
	"errors"
	"strings"
	"time"
)

// Eligibility failure reasons. The message text is part of the API contract:
// apply responses surface it verbatim as the rejection reason.
var (
	ErrNotStarted         = errors.New("not started")
	ErrExpired            = errors.New("expired")
	ErrUsageLimitReached  = errors.New("usage limit reached")
	ErrTierNotAllowed     = errors.New("user tier not allowed")
	ErrLifetimeSpendUnmet = errors.New("minimum lifetime spend not met")
	ErrOrdersPlacedUnmet  = errors.New("minimum orders placed not met")
	ErrNotFirstOrder      = errors.New("first order only")
	ErrCountryNotAllowed  = errors.New("country not allowed")
	ErrMinCartValueUnmet  = errors.New("minimum cart value not met")
	ErrCategoryNotInCart  = errors.New("no applicable category in cart")
	ErrExcludedCategory   = errors.New("cart contains excluded category")
	ErrMinItemsCountUnmet = errors.New("minimum items count not met")
)

// IsIneligible reports whether err is one of the eligibility failure reasons.
func IsIneligible(err error) bool {
	for _, reason := range []error{
		ErrNotStarted, ErrExpired, ErrUsageLimitReached, ErrTierNotAllowed,
		ErrLifetimeSpendUnmet, ErrOrdersPlacedUnmet, ErrNotFirstOrder,
		ErrCountryNotAllowed, ErrMinCartValueUnmet, ErrCategoryNotInCart,
		ErrExcludedCategory, ErrMinItemsCountUnmet,
	} {
		if errors.Is(err, reason) {
			return true
		}
	}
	return false
}

// Evaluate runs every eligibility predicate for one coupon against the user
// and cart facts, returning nil when all pass. Predicates run in a fixed
// order and stop at the first failure, so the returned reason is always the
// earliest violated constraint. used is the caller's redemption count for
// this coupon; pass zero for anonymous users (the cap cannot be checked
// without an identity, matching the read path of the usage ledger).
func Evaluate(c Coupon, user *User, facts Facts, used int64, now time.Time) error {
	if now.Before(c.StartDate) {
		return ErrNotStarted
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return ErrExpired
	}
	if c.UsageLimitPerUser != nil && user != nil && user.UserID != "" {
		if used >= int64(*c.UsageLimitPerUser) {
			return ErrUsageLimitReached
		}
	}

	rules := c.Eligibility
	if len(rules.AllowedUserTiers) > 0 {
		if user == nil || !containsFold(rules.AllowedUserTiers, user.UserTier) {
			return ErrTierNotAllowed
		}
	}
	if rules.MinLifetimeSpend != nil {
		if user == nil || user.LifetimeSpend.LessThan(*rules.MinLifetimeSpend) {
			return ErrLifetimeSpendUnmet
		}
	}
	if rules.MinOrdersPlaced != nil {
		if user == nil || user.OrdersPlaced < *rules.MinOrdersPlaced {
			return ErrOrdersPlacedUnmet
		}
	}
	if rules.FirstOrderOnly != nil && *rules.FirstOrderOnly {
		if user == nil || user.OrdersPlaced != 0 {
			return ErrNotFirstOrder
		}
	}
	if len(rules.AllowedCountries) > 0 {
		if user == nil || !containsFold(rules.AllowedCountries, user.Country) {
			return ErrCountryNotAllowed
		}
	}
	if rules.MinCartValue != nil && facts.CartValue.LessThan(*rules.MinCartValue) {
		return ErrMinCartValueUnmet
	}
	if len(rules.ApplicableCategories) > 0 && !facts.HasCategory(rules.ApplicableCategories) {
		return ErrCategoryNotInCart
	}
	if len(rules.ExcludedCategories) > 0 && facts.HasCategory(rules.ExcludedCategories) {
		return ErrExcludedCategory
	}
	if rules.MinItemsCount != nil && facts.ItemsCount < *rules.MinItemsCount {
		return ErrMinItemsCountUnmet
	}
	return nil
}

func containsFold(values []string, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), candidate) {
			return true
		}
	}
	return false
}
