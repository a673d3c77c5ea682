package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

// userIDKey is the fiber locals key holding the authenticated user id.
const userIDKey = "userID"

// RequireAuth returns a middleware that resolves the Authorization bearer
// token to a user id and stores it in the request locals. Requests without
// a valid token are rejected with 401.
func RequireAuth(auth *service.AuthService) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Missing auth token")
		}

		userID, err := auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
			}
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server error")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// AuthedUserID returns the user id stored by RequireAuth, or "" when the
// request was not authenticated.
func AuthedUserID(c fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok {
		return id
	}
	return ""
}
