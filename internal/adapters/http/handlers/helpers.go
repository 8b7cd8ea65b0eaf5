package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/adapters/http/middleware"
	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/response"
)

// ReasonRequest is the optional body of reject endpoints
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// actorOrAbort returns the caller or writes a 401 and reports false
func actorOrAbort(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		_ = response.Unauthorized(c, "Unauthorized")
	}
	return actor, ok
}

func queryLimit(c *fiber.Ctx, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return def
	}
	return limit
}

// parseOptionalBody accepts an empty body as the zero value
func parseOptionalBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
