package handlers

import (
	"errors"
	"fmt"
	"log"

	"mentormatch/internal/middleware"
	"mentormatch/internal/models"
	"mentormatch/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Placeholder images served when a user has no (decodable) profile image.
const (
	mentorPlaceholderURL = "https://placehold.co/500x500.jpg?text=MENTOR"
	menteePlaceholderURL = "https://placehold.co/500x500.jpg?text=MENTEE"
)

// UserHandler handles HTTP requests for the current user's profile and
// profile images.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authenticated profile routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/me", h.HandleGetMe)
	router.Put("/profile", h.HandleUpdateProfile)
}

// RegisterPublicRoutes registers the unauthenticated image route.
func (h *UserHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/images/:role/:id", h.HandleGetProfileImage)
}

// profilePayload builds the profile JSON shared by /me, /profile and
// /mentors. Mentor profiles carry skills, mentee profiles do not.
func profilePayload(user *models.User) fiber.Map {
	profile := fiber.Map{
		"name":     user.Name,
		"bio":      user.Bio,
		"imageUrl": fmt.Sprintf("/images/%s/%s", user.Role, user.ID),
	}
	if user.Role == models.RoleMentor {
		profile["skills"] = user.SkillList()
	}
	return fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"profile": profile,
	}
}

// HandleGetMe returns the authenticated user's identity and profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(profilePayload(user))
}

// UpdateProfileRequest represents the request body for profile updates.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateProfileRequest struct {
	Name   string    `json:"name" validate:"required"`
	Bio    *string   `json:"bio"`
	Image  *string   `json:"image"` // Base64 encoded image
	Skills *[]string `json:"skills"`
}

// HandleUpdateProfile updates the authenticated user's own profile.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Validation failed",
			"errors": errorMessages,
		})
	}

	updated, err := h.userService.UpdateProfile(user.ID, services.ProfileUpdate{
		Name:   req.Name,
		Bio:    req.Bio,
		Image:  req.Image,
		Skills: req.Skills,
	})
	if err != nil {
		log.Printf("Error updating profile for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Failed to update profile",
		})
	}

	return c.JSON(profilePayload(updated))
}

// HandleGetProfileImage serves the stored image decoded, or redirects to the
// role placeholder when the user has none.
func (h *UserHandler) HandleGetProfileImage(c *fiber.Ctx) error {
	role := models.UserRole(c.Params("role"))
	id := c.Params("id")

	imageData, err := h.userService.ProfileImage(role, id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "User not found",
			})
		}
		log.Printf("Error loading profile image for %s/%s: %v", role, id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Internal server error",
		})
	}

	if imageData == nil {
		placeholder := menteePlaceholderURL
		if role == models.RoleMentor {
			placeholder = mentorPlaceholderURL
		}
		return c.Redirect(placeholder, fiber.StatusFound)
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(imageData)
}
