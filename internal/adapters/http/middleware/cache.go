package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PublicCache caches successful GET responses in shared caches for maxAge
func PublicCache(maxAge time.Duration) fiber.Handler {
	return cacheAfter("public", maxAge)
}

// PrivateCacheHeaders caches successful GET responses in the client only
func PrivateCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheAfter("private", maxAge)
}

// NoCacheHeaders marks balance and queue responses as never cacheable
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}

func cacheAfter(scope string, maxAge time.Duration) fiber.Handler {
	value := formatCacheControl(scope, maxAge)
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return err
	}
}

func formatCacheControl(scope string, maxAge time.Duration) string {
	return scope + ", max-age=" + strconv.Itoa(int(maxAge.Seconds()))
}
