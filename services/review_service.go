package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitReviewInput struct {
	TuitionID uuid.UUID
	Rating    int
	Review    string
}

// SubmitReview records the one allowed rating for a completed tuition. The
// reviewed flag is checked-and-set in the same transaction as the insert
// (rows affected is the guard), and the tutor aggregate moves by a single
// SQL increment so concurrent reviews of the same tutor on other tuitions
// never read-modify-write each other.
func SubmitReview(db *gorm.DB, student *models.User, input SubmitReviewInput) (*models.Review, *models.Tutor, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, nil, fmt.Errorf("%w: rating must be between 1 to 5", ErrInvalidArgument)
	}

	var tuition models.Tuition
	if err := db.First(&tuition, "id = ?", input.TuitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: tuition not found", ErrNotFound)
		}
		return nil, nil, err
	}

	if tuition.StudentID != student.ID {
		return nil, nil, fmt.Errorf("%w: unauthorized access", ErrForbidden)
	}
	if tuition.Status != models.TuitionStatusCompleted {
		return nil, nil, fmt.Errorf("%w: tuition must be completed to review", ErrInvalidState)
	}
	if tuition.TutorID == nil {
		return nil, nil, fmt.Errorf("%w: no tutor assigned to this tuition", ErrInvalidState)
	}
	if tuition.Reviewed {
		return nil, nil, fmt.Errorf("%w: review already submitted", ErrConflict)
	}

	review := models.Review{
		ID:           uuid.New(),
		TuitionID:    tuition.ID,
		StudentID:    tuition.StudentID,
		TutorID:      *tuition.TutorID,
		Rating:       input.Rating,
		Review:       strings.TrimSpace(input.Review),
		StudentName:  student.Name,
		StudentPhoto: student.PhotoURL,
		TutorName:    derefString(tuition.TutorName),
		TutorPhoto:   derefString(tuition.TutorPhoto),
		Subjects:     tuition.Subjects,
		PostedAt:     time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Flipping reviewed is the race guard: a concurrent submission that
		// already flipped it leaves zero rows here and the insert rolls back.
		flip := tx.Model(&models.Tuition{}).
			Where("id = ? AND reviewed = ?", tuition.ID, false).
			Updates(map[string]interface{}{
				"reviewed":    true,
				"reviewed_at": time.Now(),
				"review_id":   review.ID,
			})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return fmt.Errorf("%w: review already submitted", ErrConflict)
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: review already submitted", ErrConflict)
			}
			return err
		}

		return tx.Model(&models.Tutor{}).
			Where("id = ?", review.TutorID).
			Updates(map[string]interface{}{
				"rating_count": gorm.Expr("rating_count + ?", 1),
				"rating_sum":   gorm.Expr("rating_sum + ?", input.Rating),
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var tutor models.Tutor
	if err := db.First(&tutor, "id = ?", review.TutorID).Error; err == nil {
		return &review, &tutor, nil
	}
	return &review, nil, nil
}
