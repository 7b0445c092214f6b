package middleware

import (
	"errors"
	"log"
	"strings"

	"mentormatch/internal/models"
	"mentormatch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the fiber Locals key holding the authenticated *models.User.
const CurrentUserKey = "currentUser"

// AuthRequired is a Fiber middleware that validates the bearer token and
// resolves the backing user record. The user is stored in Locals for
// subsequent handlers. An expired token and a tampered one both come back
// as 401; the difference only shows up in the logs.
func AuthRequired(authService *services.AuthService, userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			if errors.Is(err, services.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"detail": "Token has expired",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid token",
			})
		}

		// A valid token may outlive its user record.
		user, err := userService.GetByID(claims.UserID)
		if err != nil {
			log.Printf("Token subject %s has no user record", claims.UserID)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "User not found",
			})
		}

		c.Locals(CurrentUserKey, user)

		// Continue to the next handler
		return c.Next()
	}
}

// RequireRole guards mentor-only and mentee-only routes. It must run after
// AuthRequired.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(CurrentUserKey).(*models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication required",
			})
		}
		if user.Role != role {
			detail := "Access denied. Mentee role required."
			if role == models.RoleMentor {
				detail = "Access denied. Mentor role required."
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": detail,
			})
		}
		return c.Next()
	}
}

// CurrentUser extracts the authenticated user placed in Locals by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}
