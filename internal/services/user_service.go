package services

import (
	"encoding/base64"
	"fmt"

	"mentormatch/internal/models"
	"mentormatch/internal/repositories"
)

// ProfileUpdate carries a partial profile update. Name is always overwritten;
// nil optional fields are left unchanged. Skills only apply to mentors and
// are silently ignored for mentees.
type ProfileUpdate struct {
	Name   string
	Bio    *string
	Image  *string // Base64 encoded image
	Skills *[]string
}

// UserService handles business logic for user profiles.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the updated user.
func (s *UserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	user.Name = update.Name
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Image != nil {
		user.ProfileImage = *update.Image
	}
	if update.Skills != nil && user.Role == models.RoleMentor {
		if err := user.SetSkillList(*update.Skills); err != nil {
			return nil, fmt.Errorf("failed to encode skills: %w", err)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ProfileImage returns the decoded image bytes for the user with the given
// role and id. A nil byte slice with a nil error means the caller should fall
// back to the role placeholder: the user has no image, or the stored base64
// is undecodable.
func (s *UserService) ProfileImage(role models.UserRole, id string) ([]byte, error) {
	user, err := s.userRepo.GetByIDAndRole(id, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	if user.ProfileImage == "" {
		return nil, nil
	}

	imageData, err := base64.StdEncoding.DecodeString(user.ProfileImage)
	if err != nil {
		// Undecodable image falls back to the placeholder rather than erroring.
		return nil, nil
	}
	return imageData, nil
}
