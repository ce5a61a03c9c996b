// Package retry implements the backoff policy used for remote index fetches.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/javadocref/internal/foundation/normalization"
)

// BackoffMode selects how the delay grows between attempts.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

var modeNormalizer = normalization.NewNormalizer(map[string]BackoffMode{
	"fixed":       BackoffFixed,
	"linear":      BackoffLinear,
	"exponential": BackoffExponential,
	"exp":         BackoffExponential,
}, BackoffLinear)

// ParseMode normalizes a configured backoff mode; unknown values yield linear.
func ParseMode(raw string) (BackoffMode, bool) {
	m, ok := modeNormalizer.Lookup(raw)
	if !ok {
		return modeNormalizer.Default(), false
	}
	return m, true
}

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       BackoffMode
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // maximum retry attempts after the first failure
}

// DefaultPolicy returns linear backoff from 250ms capped at 5s with 2 retries.
func DefaultPolicy() Policy {
	return Policy{Mode: BackoffLinear, Initial: 250 * time.Millisecond, Max: 5 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode BackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case BackoffFixed, BackoffLinear, BackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case BackoffFixed:
		return p.Initial
	case BackoffExponential:
		if retryCount > 30 {
			return p.Max
		}
		d = p.Initial * (1 << (retryCount - 1))
	default:
		d = time.Duration(retryCount) * p.Initial
	}
	if d > p.Max {
		return p.Max
	}
	return d
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do runs fn until it succeeds, returns a non-retryable error, the retry
// budget is spent, or ctx is done. retryable decides which errors are transient.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
