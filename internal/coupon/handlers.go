package coupon

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/offerlab/coupon-api/internal/common"
	"github.com/offerlab/coupon-api/internal/obs"
)

// Handler exposes the coupon HTTP surface.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createRequest struct {
	Code              string           `json:"code" validate:"required"`
	Description       string           `json:"description"`
	DiscountType      string           `json:"discountType" validate:"required,oneof=FLAT PERCENT"`
	DiscountValue     *decimal.Decimal `json:"discountValue" validate:"required"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount"`
	StartDate         *time.Time       `json:"startDate" validate:"required"`
	EndDate           *time.Time       `json:"endDate" validate:"required"`
	UsageLimitPerUser *int             `json:"usageLimitPerUser"`
	Eligibility       Eligibility      `json:"eligibility"`
}

type evaluateRequest struct {
	User *User  `json:"user"`
	Cart Cart   `json:"cart"`
	Code string `json:"code"`
}

// Create registers a new coupon definition.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
	}
	created, err := h.Svc.Create(r.Context(), CreateInput{
		Code:              payload.Code,
		Description:       payload.Description,
		DiscountType:      payload.DiscountType,
		DiscountValue:     payload.DiscountValue,
		MaxDiscountAmount: payload.MaxDiscountAmount,
		StartDate:         payload.StartDate,
		EndDate:           payload.EndDate,
		UsageLimitPerUser: payload.UsageLimitPerUser,
		Eligibility:       payload.Eligibility,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateCode):
			obs.CouponCreateTotal.WithLabelValues("duplicate").Inc()
			common.JSONError(w, http.StatusConflict, "DUPLICATE_CODE", "coupon code already exists", nil)
		case errors.Is(err, ErrInvalidInput):
			obs.CouponCreateTotal.WithLabelValues("invalid").Inc()
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			obs.CouponCreateTotal.WithLabelValues("error").Inc()
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create coupon", nil)
		}
		return
	}
	obs.CouponCreateTotal.WithLabelValues("created").Inc()
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// List returns every known coupon ordered by code.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.List(r.Context())})
}

// Best evaluates the coupon collection and returns the single best
// applicable coupon, or an explicit empty result. The endpoint is read-only.
func (h *Handler) Best(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return
	}
	started := time.Now()
	result, err := h.Svc.Best(r.Context(), req.User, req.Cart)
	obs.CouponEvalDuration.Observe(obs.DurationMillis(time.Since(started)))
	if err != nil {
		obs.CouponBestTotal.WithLabelValues("error").Inc()
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to evaluate coupons", nil)
		return
	}
	if result == nil {
		obs.CouponBestTotal.WithLabelValues("none").Inc()
		common.JSON(w, http.StatusOK, map[string]any{"data": nil, "message": "no applicable coupon"})
		return
	}
	obs.CouponBestTotal.WithLabelValues("selected").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

// Apply redeems a coupon after a full eligibility re-check.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return
	}
	result, err := h.Svc.Apply(r.Context(), req.User, req.Cart, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			obs.CouponApplyTotal.WithLabelValues("not_found").Inc()
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "coupon not found", nil)
		case errors.Is(err, ErrInvalidInput):
			obs.CouponApplyTotal.WithLabelValues("invalid").Inc()
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		case IsIneligible(err):
			obs.CouponApplyTotal.WithLabelValues("ineligible").Inc()
			common.JSONError(w, http.StatusUnprocessableEntity, "NOT_ELIGIBLE", err.Error(), nil)
		default:
			obs.CouponApplyTotal.WithLabelValues("error").Inc()
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to apply coupon", nil)
		}
		return
	}
	obs.CouponApplyTotal.WithLabelValues("applied").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}
