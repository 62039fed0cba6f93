package redisstore

import (
	"context"
	"fmt"
	"time"

	"tpts/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so an instance whose
// lock expired mid-run cannot release the lock of the instance that took over.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	c      *redis.Client
	prefix string
}

func NewLocker(c *redis.Client) *Locker {
	return &Locker{c: c, prefix: "tpts:lock:"}
}

// TryLock takes the named lock for at most ttl. It returns ok=false without error when
// another holder has it. release is safe to call after the lock expired.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, ok bool, err error) {
	key := l.prefix + name
	token := kernel.NewUUID().String()

	ok, err = l.c.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.c, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("redis unlock %s: %w", name, err)
		}
		return nil
	}
	return release, true, nil
}
