package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// RetrierConfig tunes the backoff of a Retrier. Zero fields take defaults.
type RetrierConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	onRetry         func()
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithRetryHook registers fn to run before every retry.
func WithRetryHook(fn func()) RetrierOption {
	return func(r *Retrier) {
		r.onRetry = fn
	}
}

// NewRetrier creates a new PostgreSQL retrier.
func NewRetrier(cfg RetrierConfig, logger zerolog.Logger, opts ...RetrierOption) *Retrier {
	r := &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}

	if cfg.MaxRetries > 0 {
		r.maxRetries = cfg.MaxRetries
	}
	if cfg.InitialInterval > 0 {
		r.initialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		r.maxInterval = cfg.MaxInterval
	}
	if cfg.MaxElapsedTime > 0 {
		r.maxElapsedTime = cfg.MaxElapsedTime
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Retry executes an operation with exponential backoff on retryable errors.
// Any other error, business errors included, stops immediately.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		if r.onRetry != nil {
			r.onRetry()
		}

		r.logger.Warn().
			Str("code", pgErrorCode(err)).
			Int("retry", retryCount).
			Msg("retryable database error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// isRetryableError checks if a PostgreSQL error should trigger a retry.
func isRetryableError(err error) bool {
	switch pgErrorCode(err) {
	case pgErrDeadlock, pgErrSerializationFailure:
		return true
	}

	return false
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
