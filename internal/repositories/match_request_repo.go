package repositories

import (
	"mentormatch/internal/models"
)

// MatchRequestRepository defines the interface for match request data access.
// Requests are never deleted, so there is no Delete; terminal statuses are
// reached through UpdateStatus.
type MatchRequestRepository interface {
	Create(request *models.MatchRequest) error
	// GetPendingForMentor looks up a pending request owned by the given
	// mentor. A missing id, a different owner and a non-pending status all
	// come back as the same not-found error.
	GetPendingForMentor(id, mentorID string) (*models.MatchRequest, error)
	// GetForMentee looks up a request owned by the given mentee, any status.
	GetForMentee(id, menteeID string) (*models.MatchRequest, error)
	ListByMentor(mentorID string) ([]models.MatchRequest, error)
	ListByMentee(menteeID string) ([]models.MatchRequest, error)
	HasPendingForMentee(menteeID string) (bool, error)
	HasAcceptedForMentor(mentorID string) (bool, error)
	UpdateStatus(id string, status models.MatchRequestStatus) error
}
