package repositories

import (
	"fmt"

	"mentormatch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMatchRequestRepository is a GORM implementation of MatchRequestRepository.
type GORMMatchRequestRepository struct {
	db *gorm.DB
}

// NewGORMMatchRequestRepository creates a new instance of GORMMatchRequestRepository.
func NewGORMMatchRequestRepository(db *gorm.DB) *GORMMatchRequestRepository {
	return &GORMMatchRequestRepository{
		db: db,
	}
}

// Create inserts a new match request.
func (r *GORMMatchRequestRepository) Create(request *models.MatchRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create match request: %w", err)
	}
	return nil
}

// GetPendingForMentor retrieves a pending request addressed to the mentor.
func (r *GORMMatchRequestRepository) GetPendingForMentor(id, mentorID string) (*models.MatchRequest, error) {
	var request models.MatchRequest
	err := r.db.First(&request, "id = ? AND mentor_id = ? AND status = ?",
		id, mentorID, models.StatusPending).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match request with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get match request %s: %w", id, err)
	}
	return &request, nil
}

// GetForMentee retrieves a request sent by the mentee, regardless of status.
func (r *GORMMatchRequestRepository) GetForMentee(id, menteeID string) (*models.MatchRequest, error) {
	var request models.MatchRequest
	err := r.db.First(&request, "id = ? AND mentee_id = ?", id, menteeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("match request with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get match request %s: %w", id, err)
	}
	return &request, nil
}

// ListByMentor returns every request addressed to the mentor, any status,
// in insertion order.
func (r *GORMMatchRequestRepository) ListByMentor(mentorID string) ([]models.MatchRequest, error) {
	var requests []models.MatchRequest
	err := r.db.Where("mentor_id = ?", mentorID).Order("created_at").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list match requests for mentor %s: %w", mentorID, err)
	}
	return requests, nil
}

// ListByMentee returns every request sent by the mentee, any status,
// in insertion order.
func (r *GORMMatchRequestRepository) ListByMentee(menteeID string) ([]models.MatchRequest, error) {
	var requests []models.MatchRequest
	err := r.db.Where("mentee_id = ?", menteeID).Order("created_at").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list match requests for mentee %s: %w", menteeID, err)
	}
	return requests, nil
}

// HasPendingForMentee reports whether the mentee has a pending request to any mentor.
func (r *GORMMatchRequestRepository) HasPendingForMentee(menteeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.MatchRequest{}).
		Where("mentee_id = ? AND status = ?", menteeID, models.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pending requests for mentee %s: %w", menteeID, err)
	}
	return count > 0, nil
}

// HasAcceptedForMentor reports whether the mentor already has an accepted request.
func (r *GORMMatchRequestRepository) HasAcceptedForMentor(mentorID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.MatchRequest{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check accepted requests for mentor %s: %w", mentorID, err)
	}
	return count > 0, nil
}

// UpdateStatus sets the status of an existing request.
func (r *GORMMatchRequestRepository) UpdateStatus(id string, status models.MatchRequestStatus) error {
	result := r.db.Model(&models.MatchRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update match request %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("match request with ID %s not found for status update", id)
	}
	return nil
}
