package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a one-time rating tied 1:1 to a completed tuition. The tuition's
// reviewed flag, checked-and-set in the same transaction as the insert, is
// the guard; the unique index backs it up.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TuitionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tuition_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`

	Rating int    `gorm:"not null" json:"rating"`
	Review string `gorm:"type:text" json:"review"`

	StudentName  string   `gorm:"size:255" json:"student_name"`
	StudentPhoto string   `gorm:"size:255" json:"student_photo"`
	TutorName    string   `gorm:"size:255" json:"tutor_name"`
	TutorPhoto   string   `gorm:"size:255" json:"tutor_photo"`
	Subjects     []string `gorm:"serializer:json;type:jsonb" json:"subjects"`

	PostedAt  time.Time `gorm:"not null" json:"posted_at"`
	CreatedAt time.Time `json:"-"`
}
