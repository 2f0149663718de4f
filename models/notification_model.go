package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTutorApplication    = "TUTOR_APPLICATION"
	NotificationProfileApproved     = "PROFILE_APPROVED"
	NotificationNewApplication      = "NEW_APPLICATION"
	NotificationApplicationAccepted = "APPLICATION_ACCEPTED"
	NotificationTuitionStarted      = "TUITION_STARTED"
	NotificationNewReview           = "NEW_REVIEW"
)

// Notification is a best-effort side-channel write; nothing in the core waits
// on it or rolls back because of it.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserEmail string    `gorm:"size:255;not null;index" json:"user_email"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Link      string    `gorm:"size:255" json:"link"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
