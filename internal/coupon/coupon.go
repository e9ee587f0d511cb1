package coupon

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the requested coupon code is unknown.
	ErrNotFound = errors.New("coupon not found")
	// ErrDuplicateCode is returned when creating a coupon whose normalized code already exists.
	ErrDuplicateCode = errors.New("coupon code already exists")
	// ErrInvalidInput is returned when a creation payload fails validation.
	ErrInvalidInput = errors.New("invalid coupon input")
)

// DiscountType is the closed set of supported discount models.
type DiscountType string

const (
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)

// Valid reports whether the discount type is a known member of the enum.
func (t DiscountType) Valid() bool {
	return t == DiscountFlat || t == DiscountPercent
}

// Eligibility is the optional predicate bundle attached to a coupon. Every
// field is independently optional; an absent field places no constraint.
type Eligibility struct {
	AllowedUserTiers     []string         `json:"allowedUserTiers,omitempty"`
	MinLifetimeSpend     *decimal.Decimal `json:"minLifetimeSpend,omitempty"`
	MinOrdersPlaced      *int             `json:"minOrdersPlaced,omitempty"`
	FirstOrderOnly       *bool            `json:"firstOrderOnly,omitempty"`
	AllowedCountries     []string         `json:"allowedCountries,omitempty"`
	MinCartValue         *decimal.Decimal `json:"minCartValue,omitempty"`
	ApplicableCategories []string         `json:"applicableCategories,omitempty"`
	ExcludedCategories   []string         `json:"excludedCategories,omitempty"`
	MinItemsCount        *int             `json:"minItemsCount,omitempty"`
}

// Coupon is an immutable discount rule. Codes are stored normalized
// (uppercase, trimmed) and matched case-insensitively.
type Coupon struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	DiscountType      DiscountType     `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	StartDate         time.Time        `json:"startDate"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	UsageLimitPerUser *int             `json:"usageLimitPerUser,omitempty"`
	Eligibility       Eligibility      `json:"eligibility"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// User is the profile evaluated against coupon eligibility. Evaluation calls
// receive a nil *User for anonymous requests; any predicate that needs a user
// attribute then fails.
type User struct {
	UserID        string          `json:"userId"`
	UserTier      string          `json:"userTier"`
	Country       string          `json:"country"`
	LifetimeSpend decimal.Decimal `json:"lifetimeSpend"`
	OrdersPlaced  int             `json:"ordersPlaced"`
}

// CartItem is a single cart line supplied by the caller.
type CartItem struct {
	ProductID string          `json:"productId"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Cart is the untrusted cart payload. Items tolerates malformed input: a
// missing or non-array items field decodes to an empty cart rather than a
// request failure.
type Cart struct {
	Items ItemList `json:"items"`
}

// ItemList decodes leniently so a garbage items field degrades to zero facts.
type ItemList []CartItem

// UnmarshalJSON swallows malformed item payloads instead of failing the request.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	*l = items
	return nil
}

// NormalizeCode canonicalises a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
