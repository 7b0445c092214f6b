package handlers

import (
	"log"

	"mentormatch/internal/middleware"
	"mentormatch/internal/models"
	"mentormatch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MentorHandler handles HTTP requests for the mentor directory.
type MentorHandler struct {
	mentorService *services.MentorService
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(mentorService *services.MentorService) *MentorHandler {
	return &MentorHandler{
		mentorService: mentorService,
	}
}

// RegisterRoutes registers the mentor directory routes. The listing is
// mentee-only.
func (h *MentorHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/mentors", middleware.RequireRole(models.RoleMentee), h.HandleListMentors)
}

// HandleListMentors returns the mentor directory, optionally filtered by
// `skill` and ordered by `order_by` (name, skill, or id by default).
func (h *MentorHandler) HandleListMentors(c *fiber.Ctx) error {
	skill := c.Query("skill")
	orderBy := c.Query("order_by")

	mentors, err := h.mentorService.ListMentors(skill, orderBy)
	if err != nil {
		log.Printf("Error listing mentors: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve mentors",
		})
	}

	result := make([]fiber.Map, 0, len(mentors))
	for i := range mentors {
		result = append(result, profilePayload(&mentors[i]))
	}
	return c.JSON(result)
}
