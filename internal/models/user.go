package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// UserRole distinguishes the two kinds of accounts. It is fixed at signup
// and never changes afterwards.
type UserRole string

const (
	RoleMentor UserRole = "mentor"
	RoleMentee UserRole = "mentee"
)

// Valid reports whether the role is one of the two known values.
func (r UserRole) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// User represents an account on the platform, either a mentor or a mentee.
type User struct {
	ID           string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email        string   `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string   `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Name         string   `json:"name" validate:"required,min=1,max=100"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);index" validate:"required,oneof=mentor mentee"`
	Bio          string   `json:"bio" gorm:"type:text"`
	ProfileImage string   `json:"-" gorm:"type:text"` // Base64 encoded image
	Skills       string   `json:"-" gorm:"type:text"` // JSON encoded string list, mentors only
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// SkillList decodes the serialized skills field. An empty or undecodable
// field comes back as an empty list, preserving the stored order otherwise.
func (u *User) SkillList() []string {
	if u.Skills == "" {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal([]byte(u.Skills), &skills); err != nil {
		return []string{}
	}
	return skills
}

// SetSkillList serializes the list into the skills field.
func (u *User) SetSkillList(skills []string) error {
	encoded, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	u.Skills = string(encoded)
	return nil
}
