package service

import (
	"context"
	"time"

	"github.com/gestio-app/gestio/internal/constants"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gestio-app/gestio/pkg/logger"
	"github.com/gestio-app/gestio/pkg/redis"
)

// ThrottleService counts sensitive-endpoint attempts per email and per
// client IP in Redis. Counters use INCR with an EXPIRE set on the first
// hit, so each key is a fixed window. With Redis disabled the service is a
// no-op: availability wins over throttling.
type ThrottleService struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewThrottleService(client *redis.Client, max int, window time.Duration) *ThrottleService {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &ThrottleService{client: client, max: max, window: window}
}

// Allow records one attempt for the email/IP pair and reports whether it is
// within budget. Either dimension tripping blocks the attempt.
func (s *ThrottleService) Allow(ctx context.Context, email, ip string) error {
	if s.client == nil || !s.client.IsEnabled() {
		return nil
	}
	ctx = ctxutil.WithScope(ctx, "throttle", "Allow")

	keys := make([]string, 0, 2)
	if email != "" {
		keys = append(keys, constants.ThrottleKeyEmail+email)
	}
	if ip != "" {
		keys = append(keys, constants.ThrottleKeyIP+ip)
	}

	for _, key := range keys {
		count, err := s.client.Redis().Incr(ctx, key).Result()
		if err != nil {
			// Redis trouble must not lock users out.
			logger.WarnWithContext(ctx, "Throttle counter unavailable").
				String("key", key).
				Err(err).
				Log()
			return nil
		}
		if count == 1 {
			if err := s.client.Redis().Expire(ctx, key, s.window).Err(); err != nil {
				logger.WarnWithContext(ctx, "Throttle expiry not set").
					String("key", key).
					Err(err).
					Log()
			}
		}
		if count > int64(s.max) {
			logger.WarnWithContext(ctx, "Throttle limit exceeded").
				String("key", key).
				Int64("count", count).
				Log()
			return apperrors.ErrTooManyAttempts
		}
	}

	return nil
}

// Reset clears the email counter, called after a successful login so a user
// who finally remembers their password is not still penalized.
func (s *ThrottleService) Reset(ctx context.Context, email string) {
	if s.client == nil || !s.client.IsEnabled() || email == "" {
		return
	}
	ctx = ctxutil.WithScope(ctx, "throttle", "Reset")

	if err := s.client.Redis().Del(ctx, constants.ThrottleKeyEmail+email).Err(); err != nil {
		logger.WarnWithContext(ctx, "Throttle counter reset failed").
			Err(err).
			Log()
	}
}
