package redisstore

import (
	"context"
	"fmt"
	"time"

	"tpts/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// OtpLimiter counts OTP verification attempts per parcel in a fixed window.
type OtpLimiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
}

func NewOtpLimiter(c *redis.Client, limit int64, window time.Duration) *OtpLimiter {
	return &OtpLimiter{c: c, limit: limit, window: window}
}

func (l *OtpLimiter) key(parcelID kernel.UUID) string {
	return "tpts:otp:" + parcelID.String()
}

// Allow records one attempt and reports whether it is within the limit. Every attempt
// pushes the window out again, so a caller hammering the endpoint stays locked out.
func (l *OtpLimiter) Allow(ctx context.Context, parcelID kernel.UUID) (bool, error) {
	key := l.key(parcelID)
	pipe := l.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis otp limiter: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// Reset clears the counter after a successful verification.
func (l *OtpLimiter) Reset(ctx context.Context, parcelID kernel.UUID) error {
	if err := l.c.Del(ctx, l.key(parcelID)).Err(); err != nil {
		return fmt.Errorf("redis otp limiter reset: %w", err)
	}
	return nil
}
