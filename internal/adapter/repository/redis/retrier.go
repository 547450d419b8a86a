package redis

import (
	"errors"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/txnflow/internal/infrastructure/metrics"
	retrypkg "github.com/iho/txnflow/internal/infrastructure/retry"
)

// NewRetrier creates a retrier for transient Redis failures.
func NewRetrier(logger zerolog.Logger, m *metrics.Metrics) *retrypkg.Retrier {
	return retrypkg.New("redis", isRetryableError, retrypkg.DefaultConfig, logger, m)
}

// isRetryableError reports whether err is a dropped connection, a timeout or
// a server that is still loading its dataset.
func isRetryableError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "LOADING") || strings.HasPrefix(msg, "TRYAGAIN")
}
