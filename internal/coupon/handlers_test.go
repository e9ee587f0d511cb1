package coupon_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/offerlab/coupon-api/internal/coupon"
	"github.com/offerlab/coupon-api/internal/obs"
)

func TestMain(m *testing.M) {
	obs.MustRegisterDomainMetrics("coupon_test", prometheus.NewRegistry())
	os.Exit(m.Run())
}

func newTestHandler(t *testing.T) *coupon.Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	return &coupon.Handler{Svc: svc, Validate: validator.New()}
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestHandlerCreate(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"code": "spring25",
		"discountType": "PERCENT",
		"discountValue": 25,
		"maxDiscountAmount": 200,
		"startDate": "2026-03-01T00:00:00Z",
		"endDate": "2026-04-01T00:00:00Z",
		"eligibility": {"minCartValue": 300}
	}`

	rr := doJSON(t, h.Create, http.MethodPost, "/api/v1/coupons", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Data coupon.Coupon `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "SPRING25", resp.Data.Code)
	require.NotEmpty(t, resp.Data.ID)

	rr = doJSON(t, h.Create, http.MethodPost, "/api/v1/coupons", body)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Contains(t, rr.Body.String(), "DUPLICATE_CODE")
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newTestHandler(t)

	cases := map[string]string{
		"malformed json":    `{`,
		"missing code":      `{"discountType":"FLAT","discountValue":10,"startDate":"2026-03-01T00:00:00Z","endDate":"2026-04-01T00:00:00Z"}`,
		"bad discount type": `{"code":"X1","discountType":"BOGO","discountValue":10,"startDate":"2026-03-01T00:00:00Z","endDate":"2026-04-01T00:00:00Z"}`,
		"missing dates":     `{"code":"X2","discountType":"FLAT","discountValue":10}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := doJSON(t, h.Create, http.MethodPost, "/api/v1/coupons", body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Contains(t, rr.Body.String(), "VALIDATION")
		})
	}
}

func TestHandlerList(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data []coupon.Coupon `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 6)
	require.Equal(t, "ELECTRO10", resp.Data[0].Code, "list is ordered by code")
}

func TestHandlerBest(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"user": {"userId": "u-1", "userTier": "SILVER", "country": "IN", "ordersPlaced": 4},
		"cart": {"items": [
			{"productId": "tv-1", "category": "electronics", "unitPrice": 1500, "quantity": 1}
		]}
	}`

	rr := doJSON(t, h.Best, http.MethodPost, "/api/v1/coupons/best", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data *coupon.BestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	require.Equal(t, "FESTIVE50P", resp.Data.Code)
	require.Equal(t, "500.00", resp.Data.DiscountAmount.StringFixed(2))
	require.Equal(t, "1000.00", resp.Data.FinalAmount.StringFixed(2))
}

func TestHandlerBestNoWinner(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h.Best, http.MethodPost, "/api/v1/coupons/best", `{"cart":{"items":[]}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Nil(t, resp["data"])
	require.Equal(t, "no applicable coupon", resp["message"])
}

func TestHandlerBestMalformedItemsDegrade(t *testing.T) {
	h := newTestHandler(t)

	rr := doJSON(t, h.Best, http.MethodPost, "/api/v1/coupons/best", `{"cart":{"items":"garbage"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "no applicable coupon")
}

func TestHandlerApply(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"user": {"userId": "u-9", "country": "IN"},
		"cart": {"items": [
			{"productId": "rice", "category": "grocery", "unitPrice": 120, "quantity": 2}
		]},
		"code": "in-freedel"
	}`

	rr := doJSON(t, h.Apply, http.MethodPost, "/api/v1/coupons/apply", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data *coupon.AppliedResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	require.Equal(t, "IN-FREEDEL", resp.Data.Code)
	require.Equal(t, "191.00", resp.Data.FinalAmount.StringFixed(2))
}

func TestHandlerApplyErrorMapping(t *testing.T) {
	h := newTestHandler(t)

	t.Run("unknown code", func(t *testing.T) {
		rr := doJSON(t, h.Apply, http.MethodPost, "/api/v1/coupons/apply", `{"code":"NOPE","cart":{"items":[]}}`)
		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Contains(t, rr.Body.String(), "NOT_FOUND")
	})

	t.Run("missing code", func(t *testing.T) {
		rr := doJSON(t, h.Apply, http.MethodPost, "/api/v1/coupons/apply", `{"cart":{"items":[]}}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Contains(t, rr.Body.String(), "VALIDATION")
	})

	t.Run("ineligible carries the reason", func(t *testing.T) {
		body := `{
			"user": {"userId": "u-9", "ordersPlaced": 3},
			"cart": {"items": [{"category": "books", "unitPrice": 700, "quantity": 1}]},
			"code": "WELCOME100"
		}`
		rr := doJSON(t, h.Apply, http.MethodPost, "/api/v1/coupons/apply", body)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		require.Contains(t, rr.Body.String(), "NOT_ELIGIBLE")
		require.Contains(t, rr.Body.String(), "first order only")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doJSON(t, h.Apply, http.MethodPost, "/api/v1/coupons/apply", `{`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
