package services

import (
	"mentormatch/internal/models"
	"mentormatch/internal/repositories"
)

// MentorService handles business logic for the mentor directory.
type MentorService struct {
	userRepo repositories.UserRepository
}

// NewMentorService creates a new MentorService.
func NewMentorService(userRepo repositories.UserRepository) *MentorService {
	return &MentorService{
		userRepo: userRepo,
	}
}

// ListMentors returns the mentor directory. skill filters by substring
// containment against the serialized skills text; orderBy is "name", "skill"
// or anything else for the id default. Unknown orderBy values are not an
// error, they fall through to the default.
func (s *MentorService) ListMentors(skill, orderBy string) ([]models.User, error) {
	return s.userRepo.ListMentors(skill, orderBy)
}
