package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTuitionInput struct {
	Subjects       []string
	ClassLevel     string
	District       string
	Location       string
	Days           string
	Time           string
	Duration       string
	MinBudget      float64
	MaxBudget      float64
	Description    string
	Mode           string
	IdempotencyKey string
}

// CreateTuition posts a tuition for the student. The operation is idempotent
// on IdempotencyKey: a repeat request returns the original record (created ==
// false) instead of erroring, and the unique index settles the race between
// two concurrent first requests.
func CreateTuition(db *gorm.DB, student *models.User, input CreateTuitionInput) (*models.Tuition, bool, error) {
	if len(input.Subjects) == 0 || input.ClassLevel == "" || input.Mode == "" ||
		input.District == "" || input.IdempotencyKey == "" {
		return nil, false, fmt.Errorf("%w: missing required fields", ErrInvalidArgument)
	}
	if input.MinBudget > input.MaxBudget {
		return nil, false, fmt.Errorf("%w: minBudget cannot exceed maxBudget", ErrInvalidArgument)
	}

	var existing models.Tuition
	err := db.Where("idempotency_key = ?", input.IdempotencyKey).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	tuition := models.Tuition{
		StudentID:      student.ID,
		StudentName:    student.Name,
		StudentEmail:   student.Email,
		StudentPhone:   student.Phone,
		StudentPhoto:   student.PhotoURL,
		ClassLevel:     input.ClassLevel,
		Subjects:       input.Subjects,
		District:       input.District,
		Location:       input.Location,
		Days:           input.Days,
		Time:           input.Time,
		Duration:       input.Duration,
		MinBudget:      input.MinBudget,
		MaxBudget:      input.MaxBudget,
		Mode:           input.Mode,
		Description:    input.Description,
		Status:         models.TuitionStatusOpen,
		IdempotencyKey: input.IdempotencyKey,
		PostedAt:       time.Now(),
	}

	if err := db.Create(&tuition).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race; the winner's row is the answer.
			if ferr := db.Where("idempotency_key = ?", input.IdempotencyKey).First(&existing).Error; ferr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &tuition, true, nil
}

type UpdateTuitionInput struct {
	ClassLevel  *string
	Subjects    []string
	Days        *string
	Time        *string
	Duration    *string
	MinBudget   *float64
	MaxBudget   *float64
	Mode        *string
	Description *string
	Status      *string
}

// UpdateTuition applies allow-listed field edits and, optionally, a status
// transition. Only the owning student may update; an illegal transition is
// rejected naming both statuses. The final write is conditioned on the status
// the decision was made against, so a concurrent transition loses cleanly.
func UpdateTuition(db *gorm.DB, id uuid.UUID, requesterEmail string, input UpdateTuitionInput) error {
	var tuition models.Tuition
	if err := db.First(&tuition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: tuition not found", ErrNotFound)
		}
		return err
	}

	if tuition.StudentEmail != requesterEmail {
		return fmt.Errorf("%w: you are not allowed to update this tuition", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if input.ClassLevel != nil {
		updates["class_level"] = *input.ClassLevel
	}
	if input.Subjects != nil {
		updates["subjects"] = input.Subjects
	}
	if input.Days != nil {
		updates["days"] = *input.Days
	}
	if input.Time != nil {
		updates["time"] = *input.Time
	}
	if input.Duration != nil {
		updates["duration"] = *input.Duration
	}
	if input.MinBudget != nil {
		updates["min_budget"] = *input.MinBudget
	}
	if input.MaxBudget != nil {
		updates["max_budget"] = *input.MaxBudget
	}
	if input.Mode != nil {
		updates["mode"] = *input.Mode
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if input.Status != nil {
		if !models.CanTransitionTuition(tuition.Status, *input.Status) {
			return fmt.Errorf("%w: invalid status change from %s to %s",
				ErrInvalidState, tuition.Status, *input.Status)
		}
		updates["status"] = *input.Status
		now := time.Now()
		switch *input.Status {
		case models.TuitionStatusClosed:
			updates["closed_at"] = now
		case models.TuitionStatusCompleted:
			updates["completed_at"] = now
		}
	}

	if len(updates) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrNothingToUpdate)
	}

	result := db.Model(&models.Tuition{}).
		Where("id = ? AND status = ?", tuition.ID, tuition.Status).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: tuition status changed concurrently", ErrConflict)
	}
	return nil
}

// DeleteTuition removes a tuition and every application referencing it, as
// one transaction so a crash cannot orphan applications. The delete is scoped
// to id AND owner in one statement so an ownership check can never go stale
// between read and delete.
func DeleteTuition(db *gorm.DB, id uuid.UUID, requesterEmail string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND student_email = ?", id, requesterEmail).
			Delete(&models.Tuition{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: not authorized or tuition not found", ErrForbidden)
		}

		return tx.Where("tuition_id = ?", id).Delete(&models.Application{}).Error
	})
}

// CompleteTuition lets the assigned tutor close out an ongoing tuition.
func CompleteTuition(db *gorm.DB, id uuid.UUID, tutorEmail string) error {
	var tuition models.Tuition
	if err := db.First(&tuition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: tuition not found", ErrNotFound)
		}
		return err
	}

	if tuition.TutorEmail == nil || *tuition.TutorEmail != tutorEmail {
		return fmt.Errorf("%w: you are not allowed to update this tuition", ErrForbidden)
	}
	if tuition.Status != models.TuitionStatusOngoing {
		return fmt.Errorf("%w: only ongoing tuitions can be closed", ErrInvalidState)
	}

	result := db.Model(&models.Tuition{}).
		Where("id = ? AND status = ?", tuition.ID, models.TuitionStatusOngoing).
		Updates(map[string]interface{}{
			"status":    models.TuitionStatusCompleted,
			"closed_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: tuition status changed concurrently", ErrConflict)
	}
	return nil
}
