package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CouponCreateTotal counts coupon creation outcomes.
	CouponCreateTotal *prometheus.CounterVec
	// CouponBestTotal counts best-coupon query outcomes (selected, none, error).
	CouponBestTotal *prometheus.CounterVec
	// CouponApplyTotal counts apply outcomes (applied, ineligible, not_found, invalid, error).
	CouponApplyTotal *prometheus.CounterVec
	// CouponEvalDuration records best-coupon evaluation latency in milliseconds.
	CouponEvalDuration prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers the coupon domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CouponCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_create_total",
			Help:      "Count of coupon creation outcomes.",
		}, []string{"result"})
		CouponBestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_best_requests_total",
			Help:      "Count of best-coupon query outcomes.",
		}, []string{"outcome"})
		CouponApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_apply_total",
			Help:      "Count of coupon apply outcomes.",
		}, []string{"result"})
		CouponEvalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "coupon_eval_duration_ms",
			Help:      "Latency of best-coupon evaluation in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})

		mustRegisterCollector(reg, CouponCreateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponCreateTotal = v
			}
		})
		mustRegisterCollector(reg, CouponBestTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponBestTotal = v
			}
		})
		mustRegisterCollector(reg, CouponApplyTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponApplyTotal = v
			}
		})
		mustRegisterCollector(reg, CouponEvalDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CouponEvalDuration = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
