package repositories

import (
	"fmt"

	"mentormatch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
// The match is case-sensitive and exact.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByIDAndRole retrieves a user only when they hold the given role.
func (r *GORMUserRepository) GetByIDAndRole(id string, role models.UserRole) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ? AND role = ?", id, role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%s with ID %s not found", role, id)
		}
		return nil, fmt.Errorf("failed to get %s by ID %s: %w", role, id, err)
	}
	return &user, nil
}

// Update persists changes to an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// ListMentors returns all users with the mentor role. When skill is set, only
// mentors whose serialized skills text contains it are returned (substring
// containment, not tag membership). Ordering is by name, by the serialized
// skills text, or by id; id ascending breaks ties.
func (r *GORMUserRepository) ListMentors(skill, orderBy string) ([]models.User, error) {
	query := r.db.Where("role = ?", models.RoleMentor)

	if skill != "" {
		query = query.Where("skills LIKE ?", "%"+skill+"%")
	}

	switch orderBy {
	case "name":
		query = query.Order("name").Order("id")
	case "skill":
		query = query.Order("skills").Order("id")
	default:
		query = query.Order("id")
	}

	var mentors []models.User
	if err := query.Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	return mentors, nil
}
