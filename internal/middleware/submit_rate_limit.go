package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SubmitRateLimit caps operation submissions per source owner per minute,
// falling back to the client IP when no owner can be read from the body.
// Without Redis the limiter is a no-op.
func SubmitRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Owner string `json:"owner"`
		}
		_ = c.BodyParser(&req)
		subject := strings.TrimSpace(req.Owner)
		if subject == "" {
			subject = c.IP()
		}
		key := "rl:submit:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err == nil && cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many submissions, slow down")
		}
		return c.Next()
	}
}
