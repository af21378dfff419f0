package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// Locker guards the check-then-create critical section of a booking.
// The lock key identifies one bookable slot: a doctor, a calendar date
// and a time-of-day token, so concurrent bookings for different slots
// never contend.
type Locker interface {
	WithSlotLock(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker creates a locker that uses a per slot Redis key.
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func slotLockKey(doctorID uuid.UUID, date time.Time, timeSlot string) string {
	return fmt.Sprintf("lock:slot:%s:%s:%s", doctorID.String(), date.Format("2006-01-02"), timeSlot)
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string, fn func(ctx context.Context) error) error {
	key := slotLockKey(doctorID, date, timeSlot)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// release deletes the lock key only if it still holds our token, so an
// expired lock re-acquired by another booking is never released by us.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}
