package services

import (
	"fmt"
	"log"
	"sync"

	"mentormatch/internal/models"
	"mentormatch/internal/repositories"
	"mentormatch/pkg/rabbitmq"
)

// MatchService handles the match request lifecycle:
// pending -> accepted | rejected | cancelled.
type MatchService struct {
	matchRepo repositories.MatchRequestRepository
	userRepo  repositories.UserRepository
	mqClient  *rabbitmq.Client // RabbitMQ client, may be nil
	locks     sync.Map         // per-entity mutexes for check-then-act sections
}

// NewMatchService creates a new MatchService. mqClient may be nil, in which
// case lifecycle events are not published.
func NewMatchService(matchRepo repositories.MatchRequestRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		userRepo:  userRepo,
		mqClient:  mqClient,
	}
}

// lock serializes the check-then-act sequence for one entity. Two concurrent
// Creates for the same mentee (or Accepts for the same mentor) must not both
// observe a clean state and both write.
func (s *MatchService) lock(key string) func() {
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create inserts a new pending request from the mentee to the mentor.
// The mentor must exist and hold the mentor role, and a mentee may have at
// most one pending request at a time, across all mentors.
func (s *MatchService) Create(menteeID, mentorID, message string) (*models.MatchRequest, error) {
	unlock := s.lock("mentee:" + menteeID)
	defer unlock()

	if _, err := s.userRepo.GetByIDAndRole(mentorID, models.RoleMentor); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMentorNotFound, mentorID)
	}

	hasPending, err := s.matchRepo.HasPendingForMentee(menteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if hasPending {
		return nil, ErrDuplicatePendingRequest
	}

	request := &models.MatchRequest{
		MentorID: mentorID,
		MenteeID: menteeID,
		Message:  message,
		Status:   models.StatusPending,
	}
	if err := s.matchRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	s.publishEvent("match_request.created", request)
	return request, nil
}

// Accept transitions a pending request addressed to the mentor to accepted.
// A mentor may hold at most one accepted request at a time.
func (s *MatchService) Accept(requestID, mentorID string) (*models.MatchRequest, error) {
	unlock := s.lock("mentor:" + mentorID)
	defer unlock()

	hasAccepted, err := s.matchRepo.HasAcceptedForMentor(mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check accepted requests: %w", err)
	}
	if hasAccepted {
		return nil, ErrMentorSlotTaken
	}

	request, err := s.matchRepo.GetPendingForMentor(requestID, mentorID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	if err := s.matchRepo.UpdateStatus(request.ID, models.StatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept match request: %w", err)
	}
	request.Status = models.StatusAccepted

	s.publishEvent("match_request.accepted", request)
	return request, nil
}

// Reject transitions a pending request addressed to the mentor to rejected.
func (s *MatchService) Reject(requestID, mentorID string) (*models.MatchRequest, error) {
	request, err := s.matchRepo.GetPendingForMentor(requestID, mentorID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	if err := s.matchRepo.UpdateStatus(request.ID, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("failed to reject match request: %w", err)
	}
	request.Status = models.StatusRejected

	s.publishEvent("match_request.rejected", request)
	return request, nil
}

// Cancel transitions a request sent by the mentee to cancelled. The lookup is
// not restricted to pending: a mentee may cancel an already-decided request.
func (s *MatchService) Cancel(requestID, menteeID string) (*models.MatchRequest, error) {
	request, err := s.matchRepo.GetForMentee(requestID, menteeID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	if err := s.matchRepo.UpdateStatus(request.ID, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel match request: %w", err)
	}
	request.Status = models.StatusCancelled

	s.publishEvent("match_request.cancelled", request)
	return request, nil
}

// ListIncoming returns every request addressed to the mentor, any status.
func (s *MatchService) ListIncoming(mentorID string) ([]models.MatchRequest, error) {
	return s.matchRepo.ListByMentor(mentorID)
}

// ListOutgoing returns every request sent by the mentee, any status.
func (s *MatchService) ListOutgoing(menteeID string) ([]models.MatchRequest, error) {
	return s.matchRepo.ListByMentee(menteeID)
}

// publishEvent emits a lifecycle event to the match queue. Publish failures
// are logged and never fail the operation that triggered them.
func (s *MatchService) publishEvent(event string, request *models.MatchRequest) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	payload := map[string]interface{}{
		"requestID": request.ID,
		"mentorID":  request.MentorID,
		"menteeID":  request.MenteeID,
		"status":    string(request.Status),
	}
	if err := s.mqClient.PublishMatchEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for request %s: %v", event, request.ID, err)
	} else {
		log.Printf("Successfully published %s event for request %s", event, request.ID)
	}
}
