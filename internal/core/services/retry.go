package services

import (
	"context"
	"errors"
	"time"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

// withBackoff runs fn, retrying only domain.ErrUpstreamUnavailable with
// bounded exponential backoff. Other errors, including
// domain.ErrInvalidInput, return immediately. attempts counts total calls.
func withBackoff(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := base
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrUpstreamUnavailable) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Warn("Upstream unavailable (attempt %d/%d), retrying in %s: %v", attempt, attempts, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}
