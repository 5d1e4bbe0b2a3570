package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"shelfwise/internal/domain"
)

// defaultAcquireWait bounds how long a single acquire attempt may wait
// for a pooled connection.
const defaultAcquireWait = 2 * time.Second

// Pool wraps the database/sql connection pool with bounded acquire
// semantics: a checkout beyond capacity waits at most the configured
// window per attempt instead of blocking indefinitely, and exhaustion
// surfaces as domain.ErrPoolExhausted so handlers can answer 503.
//
// Release is conn.Close(): callers must close the connection on every
// exit path (defer immediately after a successful Acquire).
type Pool struct {
	db    *sqlx.DB
	wait  time.Duration
	retry RetryPolicy
}

func NewPool(db *sqlx.DB) *Pool {
	return NewPoolWithWait(db, defaultAcquireWait)
}

// NewPoolWithWait is NewPool with a custom per-attempt wait window.
func NewPoolWithWait(db *sqlx.DB, wait time.Duration) *Pool {
	return &Pool{
		db:   db,
		wait: wait,
		retry: RetryPolicy{
			Attempts:  3,
			Delay:     wait,
			Retryable: func(err error) bool { return errors.Is(err, domain.ErrPoolExhausted) },
		},
	}
}

// Acquire checks a connection out of the pool. Per attempt it waits at
// most the pool's window; attempts follow the bounded retry policy.
// After the budget it fails with domain.ErrPoolExhausted, or with
// domain.ErrConnection for non-capacity failures.
func (p *Pool) Acquire() (*sqlx.Conn, error) {
	var conn *sqlx.Conn
	err := p.retry.Do(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), p.wait)
		defer cancel()
		c, err := p.db.Connx(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return domain.ErrPoolExhausted
			}
			return fmt.Errorf("%w: %v", domain.ErrConnection, err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// WithConn checks a connection out through Acquire, runs fn on it and
// releases it on return. Repository methods use this so every query
// waits on pool capacity within the bounded retry budget.
func (p *Pool) WithConn(fn func(*sqlx.Conn) error) error {
	conn, err := p.Acquire()
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// Ping reports whether the database answers within one wait window.
func (p *Pool) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.wait)
	defer cancel()
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return nil
}
