package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TutorStatusPending  = "pending"
	TutorStatusApproved = "approved"
	TutorStatusRejected = "rejected"
)

// Tutor is the service-provider profile created when a user applies to teach.
// The rating aggregate (RatingSum/RatingCount) is mutated only by the review
// finalizer, and only via atomic increments.
type Tutor struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null;unique" json:"email"`
	Phone    string `gorm:"size:30" json:"phone"`
	PhotoURL string `gorm:"size:255" json:"photo_url"`

	Qualification    string   `gorm:"size:255" json:"qualification"`
	Institution      string   `gorm:"size:255" json:"institution"`
	IDCardURL        string   `gorm:"size:255" json:"id_card_url"`
	ExperienceYears  int      `gorm:"default:0" json:"experience_years"`
	ExperienceMonths int      `gorm:"default:0" json:"experience_months"`
	Subjects         []string `gorm:"serializer:json;type:jsonb" json:"subjects"`

	District string `gorm:"size:100;not null" json:"district"`
	Location string `gorm:"size:255" json:"location"`
	Time     string `gorm:"size:100" json:"time"`
	Mode     string `gorm:"size:30" json:"mode"`

	ExpectedSalary float64 `gorm:"type:numeric(10,2);default:0" json:"expected_salary"`
	Bio            string  `gorm:"type:text" json:"bio"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	RatingSum   int `gorm:"default:0" json:"rating_sum"`
	RatingCount int `gorm:"default:0" json:"rating_count"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"-"`
}

// AverageRating is the display value; the stored aggregate stays raw so
// concurrent reviews can increment it without read-modify-write.
func (t *Tutor) AverageRating() float64 {
	if t.RatingCount == 0 {
		return 0
	}
	return float64(t.RatingSum) / float64(t.RatingCount)
}
