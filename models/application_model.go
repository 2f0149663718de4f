package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Application is a tutor's bid on one open tuition. The composite unique
// index is the race guard against duplicate concurrent submissions by the
// same tutor. Tutor and tuition fields are denormalized snapshots so listings
// render without joins; the Tutor record stays authoritative.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TuitionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_applications_tuition_tutor,priority:1" json:"tuition_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_applications_tuition_tutor,priority:2" json:"tutor_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`

	Salary      float64 `gorm:"type:numeric(10,2);not null" json:"salary"`
	CoverLetter string  `gorm:"type:text" json:"cover_letter"`
	Location    string  `gorm:"size:255" json:"location"`

	TutorName        string `gorm:"size:255" json:"tutor_name"`
	TutorPhoto       string `gorm:"size:255" json:"tutor_photo"`
	Qualification    string `gorm:"size:255" json:"qualification"`
	Institution      string `gorm:"size:255" json:"institution"`
	ExperienceYears  int    `gorm:"default:0" json:"experience_years"`
	ExperienceMonths int    `gorm:"default:0" json:"experience_months"`

	TuitionTime string   `gorm:"size:100" json:"tuition_time"`
	Days        string   `gorm:"size:100" json:"days"`
	ClassLevel  string   `gorm:"size:100" json:"class_level"`
	Subjects    []string `gorm:"serializer:json;type:jsonb" json:"subjects"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
	UpdatedAt time.Time `json:"-"`
}
