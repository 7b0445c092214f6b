package repositories

import "mentormatch/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByIDAndRole(id string, role models.UserRole) (*models.User, error)
	Update(user *models.User) error
	// ListMentors returns mentors, optionally filtered by a substring of the
	// serialized skills field and ordered by "name", "skill" or id (default).
	ListMentors(skill, orderBy string) ([]models.User, error)
}
