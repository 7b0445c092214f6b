package repositories

import (
	"fmt"
	"sync"
	"time"

	"mentormatch/internal/models"

	"github.com/google/uuid"
)

// MockMatchRequestRepository is an in-memory implementation of
// MatchRequestRepository. Requests are kept in insertion order.
type MockMatchRequestRepository struct {
	requests []models.MatchRequest
	mu       sync.RWMutex
}

// NewMockMatchRequestRepository creates a new instance of MockMatchRequestRepository.
func NewMockMatchRequestRepository() *MockMatchRequestRepository {
	return &MockMatchRequestRepository{}
}

// Create adds a new match request.
func (r *MockMatchRequestRepository) Create(request *models.MatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	r.requests = append(r.requests, *request)
	return nil
}

// GetPendingForMentor returns a pending request addressed to the mentor.
func (r *MockMatchRequestRepository) GetPendingForMentor(id, mentorID string) (*models.MatchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.ID == id && req.MentorID == mentorID && req.Status == models.StatusPending {
			request := req
			return &request, nil
		}
	}
	return nil, fmt.Errorf("match request with ID %s not found", id)
}

// GetForMentee returns a request sent by the mentee, regardless of status.
func (r *MockMatchRequestRepository) GetForMentee(id, menteeID string) (*models.MatchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.ID == id && req.MenteeID == menteeID {
			request := req
			return &request, nil
		}
	}
	return nil, fmt.Errorf("match request with ID %s not found", id)
}

// ListByMentor returns every request addressed to the mentor.
func (r *MockMatchRequestRepository) ListByMentor(mentorID string) ([]models.MatchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.MatchRequest, 0)
	for _, req := range r.requests {
		if req.MentorID == mentorID {
			result = append(result, req)
		}
	}
	return result, nil
}

// ListByMentee returns every request sent by the mentee.
func (r *MockMatchRequestRepository) ListByMentee(menteeID string) ([]models.MatchRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.MatchRequest, 0)
	for _, req := range r.requests {
		if req.MenteeID == menteeID {
			result = append(result, req)
		}
	}
	return result, nil
}

// HasPendingForMentee reports whether the mentee has any pending request.
func (r *MockMatchRequestRepository) HasPendingForMentee(menteeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.MenteeID == menteeID && req.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

// HasAcceptedForMentor reports whether the mentor has an accepted request.
func (r *MockMatchRequestRepository) HasAcceptedForMentor(mentorID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.MentorID == mentorID && req.Status == models.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus sets the status of an existing request.
func (r *MockMatchRequestRepository) UpdateStatus(id string, status models.MatchRequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, req := range r.requests {
		if req.ID == id {
			r.requests[i].Status = status
			r.requests[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("match request with ID %s not found for status update", id)
}
