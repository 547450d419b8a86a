package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/txnflow/internal/infrastructure/metrics"
	retrypkg "github.com/iho/txnflow/internal/infrastructure/retry"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
)

// NewRetrier creates a retrier for deadlocks, serialization failures and
// server restarts.
func NewRetrier(logger zerolog.Logger, m *metrics.Metrics) *retrypkg.Retrier {
	return retrypkg.New("postgres", isRetryableError, retrypkg.DefaultConfig, logger, m)
}

// isRetryableError checks if a PostgreSQL error should trigger a retry.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrAdminShutdown, pgErrCannotConnectNow:
			return true
		}
	}
	return false
}
