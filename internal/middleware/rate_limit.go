package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiter builds an IP limiter from a formatted rate such as "5-M".
// Counters live in redis when a client is given so every API instance
// shares them, and in process memory otherwise.
func NewLimiter(formatted string, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	if client == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "pos:limiter",
		MaxRetry: 3,
	})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

// RateLimit rejects a client IP once it exceeds the limiter's rate.
func RateLimit(l *limiter.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		lctx, err := l.Get(c.UserContext(), ip)
		if err != nil {
			LoggerFrom(c).Error().Err(err).Str("ip", ip).Msg("rate limit check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error during rate limit check"})
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))

		if lctx.Reached {
			LoggerFrom(c).Warn().Str("ip", ip).Int64("limit", lctx.Limit).Msg("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests. Please try again later."})
		}

		return c.Next()
	}
}
