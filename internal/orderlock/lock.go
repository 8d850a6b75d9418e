package orderlock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/redis"
)

const defaultTTL = 30 * time.Second

// Store defines the redis operations the locker needs.
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Locker serializes order submissions: every reconcile-then-aggregate
// sequence for one order runs under the order's key, so two concurrent
// submissions for the same customer+address(+date) cannot interleave.
type Locker struct {
	store Store
	ttl   time.Duration
}

// New constructs a redis-backed order locker.
func New(store Store, ttl time.Duration) (*Locker, error) {
	if store == nil {
		return nil, errors.New("redis store required for order locks")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Locker{store: store, ttl: ttl}, nil
}

// StandingKey scopes a standing-order submission.
func StandingKey(adminID, customerID, addressID uuid.UUID) string {
	return redis.OrderLockKey(adminID.String(), customerID.String(), addressID.String())
}

// CartKey scopes a dated cart submission.
func CartKey(adminID, customerID, addressID uuid.UUID, date time.Time) string {
	return redis.OrderLockKey(adminID.String(), customerID.String(), addressID.String(), date.Format("2006-01-02"))
}

// WithLock runs fn while holding the key. A held lock surfaces as a conflict
// so the caller retries rather than racing.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire order lock")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "order is being modified, try again")
	}
	defer l.release(ctx, key, owner)

	return fn(ctx)
}

// release frees the lock only if the owner value still matches; an expired
// lock reacquired by another submission is left alone.
func (l *Locker) release(ctx context.Context, key, owner string) {
	value, err := l.store.Get(ctx, key)
	if err != nil {
		return
	}
	if value != owner {
		return
	}
	_ = l.store.Del(ctx, key)
}
