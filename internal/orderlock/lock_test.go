package orderlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
)

type fakeStore struct {
	values map[string]string
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return value, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestWithLockRunsAndReleases(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	locker, err := New(store, time.Second)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ran := false
	err = locker.WithLock(context.Background(), "k", func(context.Context) error {
		ran = true
		if _, held := store.values["k"]; !held {
			t.Fatal("lock must be held while fn runs")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock failed: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
	if _, held := store.values["k"]; held {
		t.Fatal("lock must be released after fn")
	}
}

func TestWithLockHeldByAnother(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.values["k"] = "someone-else"
	locker, _ := New(store, time.Second)

	err := locker.WithLock(context.Background(), "k", func(context.Context) error {
		t.Fatal("fn must not run when lock is held")
		return nil
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if store.values["k"] != "someone-else" {
		t.Fatal("foreign lock must not be released")
	}
}

func TestWithLockPropagatesFnError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	locker, _ := New(store, time.Second)

	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "k", func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, held := store.values["k"]; held {
		t.Fatal("lock must be released even when fn fails")
	}
}

func TestWithLockStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.setErr = errors.New("redis down")
	locker, _ := New(store, time.Second)

	err := locker.WithLock(context.Background(), "k", func(context.Context) error { return nil })
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLockKeys(t *testing.T) {
	t.Parallel()

	admin, customer, address := uuid.New(), uuid.New(), uuid.New()
	standing := StandingKey(admin, customer, address)
	cart := CartKey(admin, customer, address, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	if standing == cart {
		t.Fatal("standing and cart keys must differ")
	}
	if want := standing + ":2026-09-01"; cart != want {
		t.Fatalf("unexpected cart key %q", cart)
	}
}
