// Package ratelimit implements the fixed-window counters gating sensitive
// operations.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
)

// Kind selects which limit applies to a counter.
type Kind string

const (
	KindRequest Kind = "request"
	KindEmail   Kind = "email"
)

const window = 60 * time.Second

// Result carries what the edge needs for the X-RateLimit-* headers.
type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
}

type Limiter struct {
	store  kvstore.Store
	limits map[Kind]int64
}

func NewLimiter(store kvstore.Store, requestLimit, emailLimit int64) *Limiter {
	return &Limiter{
		store: store,
		limits: map[Kind]int64{
			KindRequest: requestLimit,
			KindEmail:   emailLimit,
		},
	}
}

// Check increments the (identifier, kind) counter and reports whether the
// call is allowed. Denied calls still increment, so continued abuse within an
// over-limit window keeps being recorded. The window starts at the first call
// and resets 60 seconds later via key expiry.
func (l *Limiter) Check(ctx context.Context, identifier string, kind Kind) (Result, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", kind, identifier)

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return Result{}, err
	}
	// Unconditional so a counter orphaned without a TTL (crash between the
	// increment and the expiry) self-heals on the next check.
	if err := l.store.ExpireNX(ctx, key, window); err != nil {
		return Result{}, err
	}

	limit := l.limits[kind]
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}
