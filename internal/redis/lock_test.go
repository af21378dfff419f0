package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (Locker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSlotLocker(client, 5*time.Second), mr, client
}

func TestWithSlotLockRunsSection(t *testing.T) {
	locker, mr, _ := newTestLocker(t)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ran := false
	err := locker.WithSlotLock(context.Background(), doctorID, date, "10:00", func(ctx context.Context) error {
		ran = true
		if !mr.Exists(slotLockKey(doctorID, date, "10:00")) {
			t.Error("lock key should be held inside the critical section")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with slot lock: %v", err)
	}
	if !ran {
		t.Fatal("critical section never ran")
	}

	if mr.Exists(slotLockKey(doctorID, date, "10:00")) {
		t.Error("lock key should be released afterwards")
	}
}

func TestWithSlotLockContention(t *testing.T) {
	locker, _, _ := newTestLocker(t)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	err := locker.WithSlotLock(context.Background(), doctorID, date, "10:00", func(ctx context.Context) error {
		// A second attempt for the same slot while we hold the lock.
		inner := locker.WithSlotLock(ctx, doctorID, date, "10:00", func(context.Context) error {
			t.Error("contending section must not run")
			return nil
		})
		if !errors.Is(inner, ErrLockNotAcquired) {
			t.Errorf("expected ErrLockNotAcquired, got %v", inner)
		}

		// A different slot is independent.
		return locker.WithSlotLock(ctx, doctorID, date, "10:30", func(context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("with slot lock: %v", err)
	}
}

func TestWithSlotLockPropagatesSectionError(t *testing.T) {
	locker, mr, _ := newTestLocker(t)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	boom := errors.New("insert failed")
	err := locker.WithSlotLock(context.Background(), doctorID, date, "10:00", func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected section error, got %v", err)
	}

	// A failed section still releases the lock.
	if mr.Exists(slotLockKey(doctorID, date, "10:00")) {
		t.Error("lock key should be released after a failing section")
	}
}

func TestReleaseOnlyDeletesOwnToken(t *testing.T) {
	locker, mr, client := newTestLocker(t)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	key := slotLockKey(doctorID, date, "10:00")

	err := locker.WithSlotLock(context.Background(), doctorID, date, "10:00", func(ctx context.Context) error {
		// Simulate TTL expiry followed by another instance grabbing
		// the same slot.
		mr.FastForward(10 * time.Second)
		if err := client.Set(ctx, key, "someone-else", time.Minute).Err(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with slot lock: %v", err)
	}

	// The deferred release must not remove the other holder's lock.
	val, err := mr.Get(key)
	if err != nil {
		t.Fatalf("lock key vanished: %v", err)
	}
	if val != "someone-else" {
		t.Errorf("expected foreign token to survive, got %q", val)
	}
}
