// Package integration holds the outbound HTTP clients for downstream
// platform services (kernel attribute store, email service) and the
// resilience policy that wraps every call: bounded retry with exponential
// backoff inside a circuit breaker, with a named fallback per call site.
package integration

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker"
)

// PolicyConfig tunes one downstream's retry and circuit-breaker behavior.
type PolicyConfig struct {
	// Attempts is the total number of tries per call, including the first.
	Attempts int
	// InitialDelay is the backoff before the first retry; it doubles per
	// attempt, capped at MaxDelay.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// FailureThreshold is how many consecutive failures trip the breaker.
	FailureThreshold uint32
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// DefaultPolicyConfig matches the platform-wide resilience defaults: three
// attempts, 200ms initial backoff, breaker trips after five consecutive
// failures and cools down for 30s.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		Attempts:         3,
		InitialDelay:     200 * time.Millisecond,
		MaxDelay:         2 * time.Second,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
	}
}

func (c PolicyConfig) withDefaults() PolicyConfig {
	d := DefaultPolicyConfig()
	if c.Attempts <= 0 {
		c.Attempts = d.Attempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	return c
}

// Policy wraps downstream calls in retry + circuit breaking. One Policy per
// downstream so failure isolation is independent.
type Policy struct {
	name    string
	cfg     PolicyConfig
	breaker *gobreaker.CircuitBreaker
}

// NewPolicy builds a Policy named after its downstream.
func NewPolicy(name string, cfg PolicyConfig) *Policy {
	cfg = cfg.withDefaults()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				"downstream", name, "from", from.String(), "to", to.String())
		},
	})
	return &Policy{name: name, cfg: cfg, breaker: cb}
}

// Do runs op under the policy. The retry loop executes inside the breaker so
// a whole exhausted-retries cycle counts as one breaker failure, and an open
// breaker short-circuits without calling op at all. On failure the fallback
// runs (when non-nil) and the original error is returned; call sites decide
// whether to absorb it.
func (p *Policy) Do(ctx context.Context, op func(context.Context) error, fallback func(error)) error {
	_, err := p.breaker.Execute(func() (any, error) {
		var lastErr error
		for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
			lastErr = op(ctx)
			if lastErr == nil {
				return nil, nil
			}
			if attempt == p.cfg.Attempts {
				break
			}
			select {
			case <-time.After(p.delay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return nil, lastErr
	})
	if err != nil {
		if fallback != nil {
			fallback(err)
		}
		return err
	}
	return nil
}

// delay returns InitialDelay * 2^(attempt-1), capped at MaxDelay.
func (p *Policy) delay(attempt int) time.Duration {
	d := time.Duration(float64(p.cfg.InitialDelay) * math.Pow(2, float64(attempt-1)))
	if d > p.cfg.MaxDelay {
		d = p.cfg.MaxDelay
	}
	return d
}

// Open reports whether the breaker is currently short-circuiting calls.
func (p *Policy) Open() bool {
	return p.breaker.State() == gobreaker.StateOpen
}

// IsCircuitOpen reports whether err came from an open or saturated breaker
// rather than from the downstream itself.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
