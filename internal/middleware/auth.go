package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

const (
	// Locals keys populated by Authenticate.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// Authenticate parses a Bearer token when one is present and stashes the
// subject and role in request locals. It never rejects on its own; the
// Require* guards do that.
func Authenticate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return c.Next()
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}

		if sub, ok := claims["sub"].(string); ok && sub != "" {
			c.Locals(UserIDKey, sub)
		}
		if role, ok := claims["role"].(string); ok && role != "" {
			c.Locals(UserRoleKey, role)
		}

		return c.Next()
	}
}

// RequireUser rejects requests that carry no authenticated subject.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose role is not admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		if role, _ := c.Locals(UserRoleKey).(string); role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated subject or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
