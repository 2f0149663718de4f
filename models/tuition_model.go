package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TuitionStatusOpen      = "open"
	TuitionStatusAssigned  = "assigned"
	TuitionStatusOngoing   = "ongoing"
	TuitionStatusCompleted = "completed"
	TuitionStatusClosed    = "closed"
)

// tuitionTransitions is the full lifecycle table. "completed" and "closed"
// are terminal.
var tuitionTransitions = map[string][]string{
	TuitionStatusOpen:     {TuitionStatusAssigned, TuitionStatusClosed},
	TuitionStatusAssigned: {TuitionStatusOngoing},
	TuitionStatusOngoing:  {TuitionStatusCompleted},
}

// CanTransitionTuition reports whether a tuition may move from one status to
// another. Every status mutation in the system goes through this table.
func CanTransitionTuition(from, to string) bool {
	for _, next := range tuitionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Tuition is a student's posted request for tutoring. Its Status is the
// single source of truth for which operations are legal; other records
// re-check it at the point of mutation.
type Tuition struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`

	StudentName  string `gorm:"size:255" json:"student_name"`
	StudentEmail string `gorm:"size:255;not null;index" json:"student_email"`
	StudentPhone string `gorm:"size:30" json:"student_phone"`
	StudentPhoto string `gorm:"size:255" json:"student_photo"`

	ClassLevel  string   `gorm:"size:100;not null" json:"class_level"`
	Subjects    []string `gorm:"serializer:json;type:jsonb" json:"subjects"`
	District    string   `gorm:"size:100;not null" json:"district"`
	Location    string   `gorm:"size:255" json:"location"`
	Days        string   `gorm:"size:100" json:"days"`
	Time        string   `gorm:"size:100" json:"time"`
	Duration    string   `gorm:"size:100" json:"duration"`
	MinBudget   float64  `gorm:"type:numeric(10,2)" json:"min_budget"`
	MaxBudget   float64  `gorm:"type:numeric(10,2)" json:"max_budget"`
	Mode        string   `gorm:"size:30;not null" json:"mode"`
	Description string   `gorm:"type:text" json:"description"`

	Status string `gorm:"size:20;not null;default:'open';index" json:"status"`

	// Duplicate POSTs with the same key resolve to the same tuition; the
	// unique index is the authoritative guard against a create race.
	IdempotencyKey string `gorm:"size:128;not null;unique" json:"-"`

	// Set by the matching engine when an application is accepted.
	TutorID               *uuid.UUID `gorm:"type:uuid;index" json:"tutor_id"`
	TutorName             *string    `gorm:"size:255" json:"tutor_name"`
	TutorEmail            *string    `gorm:"size:255;index" json:"tutor_email"`
	TutorPhone            *string    `gorm:"size:30" json:"tutor_phone"`
	TutorPhoto            *string    `gorm:"size:255" json:"tutor_photo"`
	Salary                *float64   `gorm:"type:numeric(10,2)" json:"salary"`
	AssignedApplicationID *uuid.UUID `gorm:"type:uuid" json:"assigned_application_id"`

	Reviewed bool       `gorm:"not null;default:false" json:"reviewed"`
	ReviewID *uuid.UUID `gorm:"type:uuid" json:"review_id"`

	PostedAt    time.Time  `gorm:"not null" json:"posted_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
