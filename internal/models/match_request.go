package models

import "time"

// MatchRequestStatus is the lifecycle state of a match request.
// Only "pending" may transition further.
type MatchRequestStatus string

const (
	StatusPending   MatchRequestStatus = "pending"
	StatusAccepted  MatchRequestStatus = "accepted"
	StatusRejected  MatchRequestStatus = "rejected"
	StatusCancelled MatchRequestStatus = "cancelled"
)

// MatchRequest is a mentee's proposal to be mentored by a specific mentor.
// Requests are never deleted; rejection and cancellation are terminal
// statuses, not removals. The User rows are related by id only, the request
// does not own them.
type MatchRequest struct {
	ID        string             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MentorID  string             `json:"mentorId" gorm:"type:varchar(36);index;not null"`
	MenteeID  string             `json:"menteeId" gorm:"type:varchar(36);index;not null"`
	Message   string             `json:"message"`
	Status    MatchRequestStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
