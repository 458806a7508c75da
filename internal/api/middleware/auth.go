package middleware

import (
	"strings"

	"github.com/esign-lab/esign-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// JWTAuthenticator validates bearer tokens (JWKS or shared secret)
	JWTAuthenticator *utils.JwtAuthenticator
	// TokenValidator is a fallback validator used when no
	// JWTAuthenticator is configured. It should return the
	// authenticated user or an error.
	TokenValidator func(token string) (*utils.AuthenticatedUser, error)
}

// AuthMiddleware returns a Fiber middleware for Bearer token
// authentication. The authenticated user is stored in the request
// context under "user".
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var token string

		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		if token == "" {
			c.Set("WWW-Authenticate", `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid Bearer token",
			})
		}

		var user *utils.AuthenticatedUser
		var err error
		switch {
		case cfg.JWTAuthenticator != nil:
			user, err = cfg.JWTAuthenticator.ValidateToken(token)
		case cfg.TokenValidator != nil:
			user, err = cfg.TokenValidator(token)
		default:
			err = fiber.NewError(fiber.StatusUnauthorized, "no token validator configured")
		}

		if err != nil || user == nil {
			c.Set("WWW-Authenticate", `Bearer realm="Access to protected resource"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// GetAuthenticatedUser retrieves the authenticated user from Fiber context.
// Returns nil if no user is found or if user is not of correct type
func GetAuthenticatedUser(c *fiber.Ctx) *utils.AuthenticatedUser {
	userInterface := c.Locals("user")
	if userInterface == nil {
		return nil
	}

	user, ok := userInterface.(*utils.AuthenticatedUser)
	if !ok {
		return nil
	}

	return user
}
