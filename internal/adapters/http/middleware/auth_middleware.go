package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"somity-ledger/internal/core/domain"
	"somity-ledger/internal/pkg/jwt"
	"somity-ledger/internal/pkg/response"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalPhone  = "phone"
	LocalName   = "name"
	LocalRole   = "role"
)

// AuthMiddleware requires a valid access token from the access_token cookie
// or a Bearer Authorization header
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFrom(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth sets the caller's identity when a valid token is present
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := tokenFrom(c); accessToken != "" {
			if claims, err := jwt.ValidateAccessToken(accessToken, secret); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// RoleMiddleware allows only the listed roles
func RoleMiddleware(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, r := range allowed {
			if domain.Role(role) == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// StaffOnly allows admins and cashiers
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin, domain.RoleCashier)
}

// AdminOnly allows admins
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// ActorFrom returns the authenticated caller set by AuthMiddleware
func ActorFrom(c *fiber.Ctx) (domain.Actor, bool) {
	id, ok := c.Locals(LocalUserID).(string)
	if !ok || id == "" {
		return domain.Actor{}, false
	}
	name, _ := c.Locals(LocalName).(string)
	role, _ := c.Locals(LocalRole).(string)
	return domain.Actor{ID: id, Name: name, Role: domain.Role(role)}, true
}

func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalPhone, claims.Phone)
	c.Locals(LocalName, claims.Name)
	c.Locals(LocalRole, claims.Role)
}
