package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// ready gates the readiness probe so shutdown can drain traffic before the
// listener closes.
var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the readiness gate.
func SetReady(v bool) { ready.Store(v) }

// Checker probes the dependencies readiness cares about. The only stateful
// dependency here is the ledger's redis store.
type Checker interface {
	PingLedger(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker       Checker
	LedgerTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !ready.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	ledgerStatus := "ok"
	if err := h.Checker.PingLedger(r.Context(), h.ledgerTimeout()); err != nil {
		ledgerStatus = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	if ledgerStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"ledger": ledgerStatus})
}

func (h Handler) ledgerTimeout() time.Duration {
	if h.LedgerTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.LedgerTimeout
}
