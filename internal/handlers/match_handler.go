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

// MatchHandler handles HTTP requests for the match request workflow.
type MatchHandler struct {
	matchService *services.MatchService
	validate     *validator.Validate
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the match request routes. Creation, listing of
// outgoing requests and cancellation are mentee-only; incoming listing,
// accept and reject are mentor-only.
func (h *MatchHandler) RegisterRoutes(router fiber.Router) {
	requests := router.Group("/match-requests")
	requests.Post("/", middleware.RequireRole(models.RoleMentee), h.HandleCreate)
	requests.Get("/incoming", middleware.RequireRole(models.RoleMentor), h.HandleListIncoming)
	requests.Get("/outgoing", middleware.RequireRole(models.RoleMentee), h.HandleListOutgoing)
	requests.Put("/:id/accept", middleware.RequireRole(models.RoleMentor), h.HandleAccept)
	requests.Put("/:id/reject", middleware.RequireRole(models.RoleMentor), h.HandleReject)
	requests.Delete("/:id", middleware.RequireRole(models.RoleMentee), h.HandleCancel)
}

// matchRequestPayload is the request JSON returned by the mutating endpoints
// and the incoming listing.
func matchRequestPayload(request *models.MatchRequest) fiber.Map {
	return fiber.Map{
		"id":       request.ID,
		"mentorId": request.MentorID,
		"menteeId": request.MenteeID,
		"message":  request.Message,
		"status":   request.Status,
	}
}

// CreateMatchRequest represents the request body for creating a match request.
// menteeId is carried in the body but must match the token subject.
type CreateMatchRequest struct {
	MentorID string `json:"mentorId" validate:"required"`
	MenteeID string `json:"menteeId" validate:"required"`
	Message  string `json:"message"`
}

// HandleCreate creates a new pending match request from the authenticated
// mentee to a mentor.
func (h *MatchHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing match request body: %v", err)
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

	// The body carries menteeId but the token decides who is acting.
	if req.MenteeID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"detail": "Cannot create request for another user",
		})
	}

	request, err := h.matchService.Create(user.ID, req.MentorID, req.Message)
	if err != nil {
		log.Printf("Error creating match request for mentee %s: %v", user.ID, err)
		switch {
		case errors.Is(err, services.ErrMentorNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "Mentor not found",
			})
		case errors.Is(err, services.ErrDuplicatePendingRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "You already have a pending match request",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": "Unable to create match request",
			})
		}
	}

	return c.JSON(matchRequestPayload(request))
}

// HandleListIncoming lists every request addressed to the authenticated
// mentor, any status, including the message.
func (h *MatchHandler) HandleListIncoming(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	requests, err := h.matchService.ListIncoming(user.ID)
	if err != nil {
		log.Printf("Error listing incoming requests for mentor %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve match requests",
		})
	}

	result := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		result = append(result, matchRequestPayload(&requests[i]))
	}
	return c.JSON(result)
}

// HandleListOutgoing lists every request sent by the authenticated mentee.
// The message is omitted from this view.
func (h *MatchHandler) HandleListOutgoing(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	requests, err := h.matchService.ListOutgoing(user.ID)
	if err != nil {
		log.Printf("Error listing outgoing requests for mentee %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Could not retrieve match requests",
		})
	}

	result := make([]fiber.Map, 0, len(requests))
	for _, request := range requests {
		result = append(result, fiber.Map{
			"id":       request.ID,
			"mentorId": request.MentorID,
			"menteeId": request.MenteeID,
			"status":   request.Status,
		})
	}
	return c.JSON(result)
}

// HandleAccept accepts a pending request addressed to the authenticated mentor.
func (h *MatchHandler) HandleAccept(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requestID := c.Params("id")

	request, err := h.matchService.Accept(requestID, user.ID)
	if err != nil {
		log.Printf("Error accepting match request %s for mentor %s: %v", requestID, user.ID, err)
		if errors.Is(err, services.ErrMentorSlotTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"detail": "You already have an accepted mentee",
			})
		}
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "Match request not found or already processed",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Unable to accept match request",
		})
	}

	return c.JSON(matchRequestPayload(request))
}

// HandleReject rejects a pending request addressed to the authenticated mentor.
func (h *MatchHandler) HandleReject(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requestID := c.Params("id")

	request, err := h.matchService.Reject(requestID, user.ID)
	if err != nil {
		log.Printf("Error rejecting match request %s for mentor %s: %v", requestID, user.ID, err)
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "Match request not found or already processed",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Unable to reject match request",
		})
	}

	return c.JSON(matchRequestPayload(request))
}

// HandleCancel cancels a request sent by the authenticated mentee.
func (h *MatchHandler) HandleCancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requestID := c.Params("id")

	request, err := h.matchService.Cancel(requestID, user.ID)
	if err != nil {
		log.Printf("Error cancelling match request %s for mentee %s: %v", requestID, user.ID, err)
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"detail": "Match request not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Unable to cancel match request",
		})
	}

	return c.JSON(matchRequestPayload(request))
}
