package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"mentormatch/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// Users are kept in insertion order.
type MockUserRepository struct {
	users []models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
	}
	r.users = append(r.users, *user)
	return nil
}

// GetByEmail returns a user by their email (exact, case-sensitive).
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID returns a user by their ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with ID %s not found", id)
}

// GetByIDAndRole returns a user only when they hold the given role.
func (r *MockUserRepository) GetByIDAndRole(id string, role models.UserRole) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id && u.Role == role {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%s with ID %s not found", role, id)
}

// Update modifies an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return fmt.Errorf("user with ID %s not found for update", user.ID)
}

// ListMentors mirrors the GORM implementation: substring skill filter over
// the serialized skills text, ordered by name, skills or id.
func (r *MockUserRepository) ListMentors(skill, orderBy string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mentors := make([]models.User, 0)
	for _, u := range r.users {
		if u.Role != models.RoleMentor {
			continue
		}
		if skill != "" && !strings.Contains(u.Skills, skill) {
			continue
		}
		mentors = append(mentors, u)
	}

	switch orderBy {
	case "name":
		sort.SliceStable(mentors, func(i, j int) bool {
			if mentors[i].Name != mentors[j].Name {
				return mentors[i].Name < mentors[j].Name
			}
			return mentors[i].ID < mentors[j].ID
		})
	case "skill":
		sort.SliceStable(mentors, func(i, j int) bool {
			if mentors[i].Skills != mentors[j].Skills {
				return mentors[i].Skills < mentors[j].Skills
			}
			return mentors[i].ID < mentors[j].ID
		})
	default:
		sort.SliceStable(mentors, func(i, j int) bool {
			return mentors[i].ID < mentors[j].ID
		})
	}

	return mentors, nil
}
