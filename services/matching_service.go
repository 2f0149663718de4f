package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplyInput struct {
	TuitionID   uuid.UUID
	Salary      float64
	CoverLetter string
}

// ApplyToTuition records a tutor's bid on an open tuition. Every precondition
// fails distinctly; the composite unique index is the final word on duplicate
// submissions racing each other.
func ApplyToTuition(db *gorm.DB, tutor *models.Tutor, input ApplyInput) (*models.Application, *models.Tuition, error) {
	var tuition models.Tuition
	if err := db.First(&tuition, "id = ?", input.TuitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: tuition not found", ErrNotFound)
		}
		return nil, nil, err
	}

	if tuition.Status != models.TuitionStatusOpen {
		return nil, nil, fmt.Errorf("%w: tuition is not open for application", ErrInvalidState)
	}
	if tuition.StudentEmail == tutor.Email {
		return nil, nil, fmt.Errorf("%w: you cannot apply to your own tuition", ErrForbidden)
	}
	if tuition.District != tutor.District {
		return nil, nil, fmt.Errorf("%w: you can only apply to tuitions within your district (%s)",
			ErrForbidden, tutor.District)
	}
	if input.Salary < tuition.MinBudget || input.Salary > tuition.MaxBudget {
		return nil, nil, fmt.Errorf("%w: salary must be between %.0f and %.0f",
			ErrInvalidArgument, tuition.MinBudget, tuition.MaxBudget)
	}

	application := models.Application{
		TuitionID:        tuition.ID,
		TutorID:          tutor.ID,
		StudentID:        tuition.StudentID,
		Salary:           input.Salary,
		CoverLetter:      input.CoverLetter,
		Location:         tuition.Location,
		TutorName:        tutor.Name,
		TutorPhoto:       tutor.PhotoURL,
		Qualification:    tutor.Qualification,
		Institution:      tutor.Institution,
		ExperienceYears:  tutor.ExperienceYears,
		ExperienceMonths: tutor.ExperienceMonths,
		TuitionTime:      tuition.Time,
		Days:             tuition.Days,
		ClassLevel:       tuition.ClassLevel,
		Subjects:         tuition.Subjects,
		Status:           models.ApplicationStatusPending,
		AppliedAt:        time.Now(),
	}

	if err := db.Create(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, fmt.Errorf("%w: you have already applied for this tuition", ErrConflict)
		}
		return nil, nil, err
	}

	return &application, &tuition, nil
}

// AcceptApplication performs the three-way matching write as one transaction:
// the target application becomes accepted, every competing pending bid is
// rejected, and the tuition moves to assigned with the tutor snapshot copied
// on. The tuition row is locked first and its status re-checked under the
// lock, so of two concurrent accepts exactly one commits and the other sees
// Conflict. A crash anywhere aborts the whole unit.
func AcceptApplication(db *gorm.DB, applicationID uuid.UUID) (*models.Application, *models.Tuition, *models.Tutor, error) {
	var application models.Application
	if err := db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: application not found", ErrNotFound)
		}
		return nil, nil, nil, err
	}

	var tuition models.Tuition
	var tutor models.Tutor

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tuition, "id = ?", application.TuitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tuition not found", ErrNotFound)
			}
			return err
		}

		if tuition.Status == models.TuitionStatusAssigned {
			return fmt.Errorf("%w: tuition already assigned", ErrConflict)
		}
		if tuition.Status != models.TuitionStatusOpen {
			return fmt.Errorf("%w: tuition is not open", ErrInvalidState)
		}
		if application.Status != models.ApplicationStatusPending {
			return fmt.Errorf("%w: application is no longer pending", ErrConflict)
		}

		if err := tx.First(&tutor, "id = ?", application.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor not found", ErrNotFound)
			}
			return err
		}

		// The pending check above was made against a read taken before the
		// transaction, so the bid may have been cancelled since. Conditioning
		// the update on pending re-validates it under the tuition lock; zero
		// rows means the bid vanished and nothing may be assigned.
		accept := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", application.ID, models.ApplicationStatusPending).
			Update("status", models.ApplicationStatusAccepted)
		if accept.Error != nil {
			return accept.Error
		}
		if accept.RowsAffected == 0 {
			return fmt.Errorf("%w: application is no longer pending", ErrConflict)
		}

		if err := tx.Model(&models.Application{}).
			Where("tuition_id = ? AND status = ? AND id <> ?",
				application.TuitionID, models.ApplicationStatusPending, application.ID).
			Update("status", models.ApplicationStatusRejected).Error; err != nil {
			return err
		}

		now := time.Now()
		result := tx.Model(&models.Tuition{}).
			Where("id = ? AND status = ?", tuition.ID, models.TuitionStatusOpen).
			Updates(map[string]interface{}{
				"status":                  models.TuitionStatusAssigned,
				"tutor_id":                tutor.ID,
				"tutor_name":              application.TutorName,
				"tutor_photo":             application.TutorPhoto,
				"tutor_email":             tutor.Email,
				"tutor_phone":             tutor.Phone,
				"salary":                  application.Salary,
				"assigned_application_id": application.ID,
				"assigned_at":             now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: tuition already assigned", ErrConflict)
		}

		application.Status = models.ApplicationStatusAccepted
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return &application, &tuition, &tutor, nil
}

// RejectApplication marks a single bid rejected; nothing else moves.
func RejectApplication(db *gorm.DB, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: application not found", ErrNotFound)
		}
		return nil, err
	}

	if err := db.Model(&models.Application{}).
		Where("id = ?", application.ID).
		Update("status", models.ApplicationStatusRejected).Error; err != nil {
		return nil, err
	}
	application.Status = models.ApplicationStatusRejected
	return &application, nil
}

// CancelApplication deletes a bid, but only for its owner (the bidding tutor
// or the student whose tuition it targets) and only while it is still
// pending or rejected; an accepted application is immutable. Ownership and
// status are part of the delete filter so the check cannot go stale.
func CancelApplication(db *gorm.DB, applicationID uuid.UUID, asTutor bool, ownerID uuid.UUID) error {
	query := db.Where("id = ? AND status IN ?", applicationID,
		[]string{models.ApplicationStatusPending, models.ApplicationStatusRejected})
	if asTutor {
		query = query.Where("tutor_id = ?", ownerID)
	} else {
		query = query.Where("student_id = ?", ownerID)
	}

	result := query.Delete(&models.Application{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: cannot cancel this application", ErrForbidden)
	}
	return nil
}
