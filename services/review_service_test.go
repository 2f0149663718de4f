package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedTuitionRow(id, studentID, tutorID uuid.UUID, reviewed bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "status", "tutor_id", "tutor_name", "reviewed",
	}).AddRow(id.String(), studentID.String(), models.TuitionStatusCompleted, tutorID.String(), "Karim Ahmed", reviewed)
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	db, _ := newTestDB(t)
	student := testStudent()

	for _, rating := range []int{0, -1, 6} {
		_, _, err := SubmitReview(db, student, SubmitReviewInput{TuitionID: uuid.New(), Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestSubmitReviewForbiddenForNonOwner(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(completedTuitionRow(id, uuid.New(), uuid.New(), false))

	_, _, err := SubmitReview(db, testStudent(), SubmitReviewInput{TuitionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitReviewRequiresCompletedTuition(t *testing.T) {
	db, mock := newTestDB(t)

	student := testStudent()
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "status"}).
			AddRow(id.String(), student.ID.String(), models.TuitionStatusOngoing))

	_, _, err := SubmitReview(db, student, SubmitReviewInput{TuitionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitReviewConflictsWhenAlreadyReviewed(t *testing.T) {
	db, mock := newTestDB(t)

	student := testStudent()
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(completedTuitionRow(id, student.ID, uuid.New(), true))

	_, _, err := SubmitReview(db, student, SubmitReviewInput{TuitionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmitReviewLosesFlagRaceCleanly(t *testing.T) {
	db, mock := newTestDB(t)

	student := testStudent()
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(completedTuitionRow(id, student.ID, uuid.New(), false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := SubmitReview(db, student, SubmitReviewInput{TuitionID: id, Rating: 5})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReviewFinalizesAndUpdatesAggregate(t *testing.T) {
	db, mock := newTestDB(t)

	student := testStudent()
	tuitionID := uuid.New()
	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(completedTuitionRow(tuitionID, student.ID, tutorID, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "reviews"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`UPDATE "tutors" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "tutors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "rating_sum", "rating_count"}).
			AddRow(tutorID.String(), "karim@example.com", 9, 2))

	review, tutor, err := SubmitReview(db, student, SubmitReviewInput{
		TuitionID: tuitionID,
		Rating:    4,
		Review:    "  Great teacher.  ",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Great teacher.", review.Review)
	assert.Equal(t, tutorID, review.TutorID)
	require.NotNil(t, tutor)
	assert.InDelta(t, 4.5, tutor.AverageRating(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
