// Command seeder posts a set of demo coupons to a running API instance. The
// server normally seeds itself on start; this tool targets instances started
// with SEED_DEMO_COUPONS=false or remote environments.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type couponPayload struct {
	Code              string         `json:"code"`
	Description       string         `json:"description,omitempty"`
	DiscountType      string         `json:"discountType"`
	DiscountValue     float64        `json:"discountValue"`
	MaxDiscountAmount *float64       `json:"maxDiscountAmount,omitempty"`
	StartDate         time.Time      `json:"startDate"`
	EndDate           time.Time      `json:"endDate"`
	UsageLimitPerUser *int           `json:"usageLimitPerUser,omitempty"`
	Eligibility       map[string]any `json:"eligibility,omitempty"`
}

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	baseURL := strings.TrimRight(envOrDefault("SEED_TARGET_URL", "http://localhost:8080"), "/")
	now := time.Now()
	start := now.AddDate(0, 0, -1)
	end := now.AddDate(1, 0, 0)

	coupons := []couponPayload{
		{
			Code:          "WELCOME100",
			Description:   "Flat 100 off the first order",
			DiscountType:  "FLAT",
			DiscountValue: 100,
			Eligibility:   map[string]any{"firstOrderOnly": true, "minCartValue": 500},
		},
		{
			Code:              "FESTIVE50P",
			Description:       "Festive 50% off, capped at 500",
			DiscountType:      "PERCENT",
			DiscountValue:     50,
			MaxDiscountAmount: floatPtr(500),
			Eligibility:       map[string]any{"minCartValue": 1000},
		},
		{
			Code:          "ELECTRO10",
			Description:   "10% off electronics",
			DiscountType:  "PERCENT",
			DiscountValue: 10,
			Eligibility:   map[string]any{"minCartValue": 1000, "applicableCategories": []string{"electronics"}},
		},
		{
			Code:          "EXCLUDE-FASHION",
			Description:   "Flat 75 off carts without fashion items",
			DiscountType:  "FLAT",
			DiscountValue: 75,
			Eligibility:   map[string]any{"minCartValue": 500, "excludedCategories": []string{"fashion"}},
		},
		{
			Code:              "GOLD20",
			Description:       "20% off for gold and platinum members, capped at 300",
			DiscountType:      "PERCENT",
			DiscountValue:     20,
			MaxDiscountAmount: floatPtr(300),
			Eligibility:       map[string]any{"allowedUserTiers": []string{"GOLD", "PLATINUM"}},
		},
		{
			Code:              "IN-FREEDEL",
			Description:       "Flat 49 delivery credit for India, up to 3 uses",
			DiscountType:      "FLAT",
			DiscountValue:     49,
			UsageLimitPerUser: intPtr(3),
			Eligibility:       map[string]any{"allowedCountries": []string{"IN"}, "minItemsCount": 2},
		},
	}

	client := &http.Client{Timeout: 10 * time.Second}
	var created, skipped, failed int
	for i := range coupons {
		coupons[i].StartDate = start
		coupons[i].EndDate = end
		status, err := post(client, baseURL+"/api/v1/coupons", coupons[i])
		switch {
		case err != nil:
			failed++
			logger.Error().Err(err).Str("code", coupons[i].Code).Msg("seed coupon")
		case status == http.StatusCreated:
			created++
			logger.Info().Str("code", coupons[i].Code).Msg("created")
		case status == http.StatusConflict:
			skipped++
			logger.Info().Str("code", coupons[i].Code).Msg("already exists")
		default:
			failed++
			logger.Error().Int("status", status).Str("code", coupons[i].Code).Msg("unexpected response")
		}
	}

	logger.Info().Int("created", created).Int("skipped", skipped).Int("failed", failed).Msg("seeding finished")
	if failed > 0 {
		os.Exit(1)
	}
}

func post(client *http.Client, url string, payload couponPayload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", payload.Code, err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func envOrDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
