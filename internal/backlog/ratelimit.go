package backlog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval keeps the store at 5 calls per second.
const DefaultMinInterval = 200 * time.Millisecond

// RateLimiter enforces a minimum interval between store calls.
// It is safe for concurrent use; every Run shares one instance.
type RateLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewRateLimiter returns a limiter that admits one call per interval.
// interval defaults to DefaultMinInterval if zero or negative.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the enforced minimum gap between calls.
func (l *RateLimiter) Interval() time.Duration { return l.interval }

// Wait blocks until the next call is allowed or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// limitedStore gates every call of the wrapped Store through a RateLimiter.
type limitedStore struct {
	next    Store
	limiter *RateLimiter
}

// WithRateLimit wraps s so each call first waits on l.
func WithRateLimit(s Store, l *RateLimiter) Store {
	return &limitedStore{next: s, limiter: l}
}

func (s *limitedStore) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Record{}, err
	}
	return s.next.Create(ctx, table, fields)
}

func (s *limitedStore) List(ctx context.Context, table string) ([]Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.List(ctx, table)
}

func (s *limitedStore) Update(ctx context.Context, table, id string, fields Fields, replace bool) (Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Record{}, err
	}
	return s.next.Update(ctx, table, id, fields, replace)
}

func (s *limitedStore) Delete(ctx context.Context, table, id string) (DeleteResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return DeleteResult{}, err
	}
	return s.next.Delete(ctx, table, id)
}
