package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// RetryPolicy bounds how often a failed store call is attempted.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// IsTransient reports whether err may succeed on a later attempt: serialization failures and
// deadlocks (class 40), connection exceptions (class 08), too many connections, and broken
// connections. Missing rows and context errors never are.
func IsTransient(err error) bool {
	if err == nil ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "40") ||
			strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "53300"
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

func retry[T any](ctx context.Context, p RetryPolicy, op func() (T, error)) (T, error) {
	tries := p.MaxTries
	if tries == 0 {
		tries = 1
	}
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(p.backOff()), backoff.WithMaxTries(tries))
}

func retryExec(ctx context.Context, p RetryPolicy, op func() error) error {
	_, err := retry(ctx, p, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
