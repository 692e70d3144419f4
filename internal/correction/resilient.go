package correction

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

type ResilienceConfig struct {
	Attempts     int
	InitialDelay time.Duration
	Timeout      time.Duration
}

// ResilientDetector retries a remote detector and bounds each call.
type ResilientDetector struct {
	inner IssueDetector
	cfg   ResilienceConfig
}

func NewResilientDetector(inner IssueDetector, cfg ResilienceConfig) *ResilientDetector {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ResilientDetector{inner: inner, cfg: cfg}
}

func (d *ResilientDetector) Detect(ctx context.Context, text string) ([]CorrectionIssue, error) {
	r := retry.New[[]CorrectionIssue](retry.Config{
		MaxAttempts:   d.cfg.Attempts,
		InitialDelay:  d.cfg.InitialDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	t := timeout.New[[]CorrectionIssue](timeout.Config{
		DefaultTimeout: d.cfg.Timeout,
	})
	return t.Execute(ctx, d.cfg.Timeout, func(ctx context.Context) ([]CorrectionIssue, error) {
		return r.Do(ctx, func(ctx context.Context) ([]CorrectionIssue, error) {
			return d.inner.Detect(ctx, text)
		})
	})
}
