package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Checker verifies readiness of a backing dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

// Ping calls the wrapped function.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handlers exposes liveness and readiness probes.
type Handlers struct {
	DB      Checker
	Redis   Checker
	Timeout time.Duration
}

// Live reports process liveness.
func (h Handlers) Live(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness of the database and redis dependencies.
func (h Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	common.JSON(w, status, map[string]any{
		"status": overall,
		"checks": checks,
	})
}
