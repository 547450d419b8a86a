// Package retry retries store operations with exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/txnflow/internal/infrastructure/metrics"
)

// Config bounds how long and how often an operation is retried.
type Config struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConfig is used by the store backends.
var DefaultConfig = Config{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     1 * time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Classifier reports whether err is transient.
type Classifier func(err error) bool

// Retrier implements usecase.Retrier for one backend.
type Retrier struct {
	cfg       Config
	backend   string
	retryable Classifier
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// New creates a Retrier that retries errors accepted by retryable and counts
// retries under the backend label.
func New(backend string, retryable Classifier, cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Retrier {
	return &Retrier{
		cfg:       cfg,
		backend:   backend,
		retryable: retryable,
		logger:    logger.With().Str("backend", backend).Logger(),
		metrics:   m,
	}
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !r.retryable(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.cfg.MaxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.StoreRetries.WithLabelValues(r.backend).Inc()
		}
		r.logger.Warn().Err(err).Int("retry", retryCount).Msg("retryable store error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
