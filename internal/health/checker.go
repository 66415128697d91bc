package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pinger is satisfied by *pgxpool.Pool directly; other clients can be
// adapted with PingFunc.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to the Pinger interface.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult is the top-level health response.
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker verifies that the platform's dependencies are reachable. Redis is
// optional; when absent only postgres is checked.
type Checker struct {
	db     Pinger
	redis  Pinger
	logger *slog.Logger
	gauge  *prometheus.GaugeVec
}

func NewChecker(db, redis Pinger, logger *slog.Logger, reg prometheus.Registerer) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "invoicefin",
		Name:      "health_check_up",
		Help:      "Whether a dependency is reachable. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		db:     db,
		redis:  redis,
		logger: logger.With("component", "health"),
		gauge:  gauge,
	}
}

// Liveness returns a simple "up" response if the process is running.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness pings every configured dependency and reports per-check status.
// A redis outage does not mark the service down: the rate limiter fails
// open, so redis is reported but not required.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	result := HealthResult{
		Status: "up",
		Checks: make(map[string]CheckResult),
	}

	if err := c.db.Ping(checkCtx); err != nil {
		c.logger.Warn("postgres health check failed", "error", err)
		result.Status = "down"
		result.Checks["postgres"] = CheckResult{Status: "down", Error: err.Error()}
		c.gauge.WithLabelValues("postgres").Set(0)
	} else {
		result.Checks["postgres"] = CheckResult{Status: "up"}
		c.gauge.WithLabelValues("postgres").Set(1)
	}

	if c.redis != nil {
		if err := c.redis.Ping(checkCtx); err != nil {
			c.logger.Warn("redis health check failed", "error", err)
			result.Checks["redis"] = CheckResult{Status: "down", Error: err.Error()}
			c.gauge.WithLabelValues("redis").Set(0)
		} else {
			result.Checks["redis"] = CheckResult{Status: "up"}
			c.gauge.WithLabelValues("redis").Set(1)
		}
	}

	return result
}
