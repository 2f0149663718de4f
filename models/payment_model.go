package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment is an immutable settlement record. TransactionID is the processor's
// natural idempotency key: the unique index plus set-on-insert upsert
// guarantees exactly one row per transaction no matter how many times a
// confirmation is retried.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TuitionID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"tuition_id"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null" json:"student_id"`
	TutorID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"tutor_id"`
	ApplicationID *uuid.UUID `gorm:"type:uuid" json:"application_id"`

	TransactionID string `gorm:"size:255;not null;uniqueIndex" json:"transaction_id"`

	Amount      float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	PlatformFee float64 `gorm:"type:numeric(10,2);not null" json:"platform_fee"`
	Salary      float64 `gorm:"type:numeric(10,2);not null" json:"salary"`

	StudentEmail  string `gorm:"size:255;index" json:"student_email"`
	TutorEmail    string `gorm:"size:255;index" json:"tutor_email"`
	PaymentStatus string `gorm:"size:30;not null" json:"payment_status"`

	ReceiptURL *string `gorm:"size:255" json:"receipt_url"`

	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time `json:"-"`
}
