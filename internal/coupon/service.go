package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsageLedger captures the redemption-count store consulted during
// evaluation and mutated only by a confirmed apply.
type UsageLedger interface {
	Count(ctx context.Context, userID, code string) (int64, error)
	Counts(ctx context.Context, userID string) (map[string]int64, error)
	Increment(ctx context.Context, userID, code string) (int64, error)
}

// Locker serialises the apply re-check and increment for one (user, code)
// pair so concurrent applies cannot both pass the usage-cap check.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Service orchestrates the coupon store, usage ledger and evaluation engine.
type Service struct {
	Store   *Store
	Ledger  UsageLedger
	Locker  Locker
	Now     func() time.Time
	LockTTL time.Duration
}

// CreateInput is the normalized coupon creation request.
type CreateInput struct {
	Code              string
	Description       string
	DiscountType      string
	DiscountValue     *decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	StartDate         *time.Time
	EndDate           *time.Time
	UsageLimitPerUser *int
	Eligibility       Eligibility
}

// BestResult is the winning coupon for a best-coupon query with amounts
// rounded for exposure.
type BestResult struct {
	Code           string          `json:"code"`
	Description    string          `json:"description,omitempty"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	CartValue      decimal.Decimal `json:"cartValue"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// AppliedResult reports a confirmed redemption.
type AppliedResult struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	CartValue      decimal.Decimal `json:"cartValue"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) lockTTL() time.Duration {
	if s == nil || s.LockTTL <= 0 {
		return 5 * time.Second
	}
	return s.LockTTL
}

// Create validates, normalizes and stores a new coupon. The duplicate check
// and insert are atomic with respect to concurrent creators.
func (s *Service) Create(_ context.Context, input CreateInput) (Coupon, error) {
	if s == nil || s.Store == nil {
		return Coupon{}, errors.New("coupon service not configured")
	}
	code := NormalizeCode(input.Code)
	if code == "" {
		return Coupon{}, fmt.Errorf("code is required: %w", ErrInvalidInput)
	}
	kind := DiscountType(input.DiscountType)
	if !kind.Valid() {
		return Coupon{}, fmt.Errorf("unknown discount type %q: %w", input.DiscountType, ErrInvalidInput)
	}
	if input.DiscountValue == nil {
		return Coupon{}, fmt.Errorf("discountValue is required: %w", ErrInvalidInput)
	}
	if input.DiscountValue.Sign() < 0 {
		return Coupon{}, fmt.Errorf("discountValue must be non-negative: %w", ErrInvalidInput)
	}
	if kind == DiscountPercent && input.DiscountValue.GreaterThan(hundred) {
		return Coupon{}, fmt.Errorf("percent discount cannot exceed 100: %w", ErrInvalidInput)
	}
	if input.MaxDiscountAmount != nil && input.MaxDiscountAmount.Sign() < 0 {
		return Coupon{}, fmt.Errorf("maxDiscountAmount must be non-negative: %w", ErrInvalidInput)
	}
	if input.StartDate == nil {
		return Coupon{}, fmt.Errorf("startDate is required: %w", ErrInvalidInput)
	}
	if input.EndDate == nil {
		return Coupon{}, fmt.Errorf("endDate is required: %w", ErrInvalidInput)
	}
	if input.UsageLimitPerUser != nil && *input.UsageLimitPerUser <= 0 {
		return Coupon{}, fmt.Errorf("usageLimitPerUser must be positive: %w", ErrInvalidInput)
	}

	c := Coupon{
		ID:                uuid.NewString(),
		Code:              code,
		Description:       input.Description,
		DiscountType:      kind,
		DiscountValue:     *input.DiscountValue,
		MaxDiscountAmount: input.MaxDiscountAmount,
		StartDate:         *input.StartDate,
		EndDate:           input.EndDate,
		UsageLimitPerUser: input.UsageLimitPerUser,
		Eligibility:       input.Eligibility,
		CreatedAt:         s.now(),
	}
	if err := s.Store.Create(c); err != nil {
		return Coupon{}, err
	}
	return c, nil
}

// List returns all coupons ordered by code.
func (s *Service) List(_ context.Context) []Coupon {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.List()
}

// Best selects the single best applicable coupon for the user and cart. It
// never mutates the usage ledger; the per-user counts are read in one shot
// and fed into the evaluation. A nil result with a nil error means no coupon
// qualifies.
func (s *Service) Best(ctx context.Context, user *User, cart Cart) (*BestResult, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("coupon service not configured")
	}
	facts := CalculateFacts(cart)

	var usage map[string]int64
	if user != nil && user.UserID != "" && s.Ledger != nil {
		counts, err := s.Ledger.Counts(ctx, user.UserID)
		if err != nil {
			return nil, fmt.Errorf("read usage ledger: %w", err)
		}
		usage = counts
	}

	winner, ok := SelectBest(s.Store.List(), user, facts, usage, s.now())
	if !ok {
		return nil, nil
	}
	return &BestResult{
		Code:           winner.Coupon.Code,
		Description:    winner.Coupon.Description,
		DiscountType:   winner.Coupon.DiscountType,
		DiscountAmount: winner.Discount.Round(2),
		CartValue:      facts.CartValue.Round(2),
		FinalAmount:    FinalAmount(facts.CartValue, winner.Discount),
	}, nil
}

// Apply re-validates eligibility for the named coupon and, on success,
// records the redemption for the supplied user. The re-check and increment
// run under a per-(user, code) lock; anonymous applies skip the ledger
// entirely and are not tracked.
func (s *Service) Apply(ctx context.Context, user *User, cart Cart, code string) (*AppliedResult, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("coupon service not configured")
	}
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, fmt.Errorf("code is required: %w", ErrInvalidInput)
	}
	c, ok := s.Store.Get(normalized)
	if !ok {
		return nil, ErrNotFound
	}
	facts := CalculateFacts(cart)
	now := s.now()

	if user == nil || user.UserID == "" {
		if err := Evaluate(c, user, facts, 0, now); err != nil {
			return nil, err
		}
		return s.applied(c, facts), nil
	}

	var result *AppliedResult
	redeem := func(ctx context.Context) error {
		var used int64
		if s.Ledger != nil {
			count, err := s.Ledger.Count(ctx, user.UserID, c.Code)
			if err != nil {
				return fmt.Errorf("read usage ledger: %w", err)
			}
			used = count
		}
		if err := Evaluate(c, user, facts, used, now); err != nil {
			return err
		}
		if s.Ledger != nil {
			if _, err := s.Ledger.Increment(ctx, user.UserID, c.Code); err != nil {
				return fmt.Errorf("record redemption: %w", err)
			}
		}
		result = s.applied(c, facts)
		return nil
	}

	if s.Locker != nil {
		key := fmt.Sprintf("coupon:apply:%s:%s", user.UserID, c.Code)
		if err := s.Locker.WithLock(ctx, key, s.lockTTL(), redeem); err != nil {
			return nil, err
		}
	} else if err := redeem(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) applied(c Coupon, facts Facts) *AppliedResult {
	discount := ComputeDiscount(c, facts.CartValue)
	return &AppliedResult{
		Code:           c.Code,
		DiscountAmount: discount.Round(2),
		CartValue:      facts.CartValue.Round(2),
		FinalAmount:    FinalAmount(facts.CartValue, discount),
	}
}
