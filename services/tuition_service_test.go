package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testStudent() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Name:  "Rahim Uddin",
		Email: "rahim@example.com",
		Phone: "01711111111",
	}
}

func validCreateInput() CreateTuitionInput {
	return CreateTuitionInput{
		Subjects:       []string{"Math", "Physics"},
		ClassLevel:     "Class 10",
		District:       "Dhaka",
		Location:       "Dhanmondi",
		MinBudget:      3000,
		MaxBudget:      5000,
		Mode:           "offline",
		IdempotencyKey: "key-123",
	}
}

func TestCreateTuitionRejectsBadInput(t *testing.T) {
	db, _ := newTestDB(t)

	input := validCreateInput()
	input.Subjects = nil
	_, _, err := CreateTuition(db, testStudent(), input)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	input = validCreateInput()
	input.MinBudget = 6000
	_, _, err = CreateTuition(db, testStudent(), input)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	input = validCreateInput()
	input.IdempotencyKey = ""
	_, _, err = CreateTuition(db, testStudent(), input)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateTuitionInsertsNewPosting(t *testing.T) {
	db, mock := newTestDB(t)

	newID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "tuitions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID.String()))

	tuition, created, err := CreateTuition(db, testStudent(), validCreateInput())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, newID, tuition.ID)
	assert.Equal(t, models.TuitionStatusOpen, tuition.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTuitionReplayReturnsOriginal(t *testing.T) {
	db, mock := newTestDB(t)

	existingID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "idempotency_key"}).
			AddRow(existingID.String(), models.TuitionStatusOpen, "key-123"))

	tuition, created, err := CreateTuition(db, testStudent(), validCreateInput())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, tuition.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTuitionInsertRaceConvergesOnWinner(t *testing.T) {
	db, mock := newTestDB(t)

	winnerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "tuitions"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE idempotency_key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(winnerID.String(), models.TuitionStatusOpen))

	tuition, created, err := CreateTuition(db, testStudent(), validCreateInput())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winnerID, tuition.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func tuitionRow(id uuid.UUID, studentEmail, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_email", "status"}).
		AddRow(id.String(), studentEmail, status)
}

func TestUpdateTuitionForbiddenForNonOwner(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(tuitionRow(id, "owner@example.com", models.TuitionStatusOpen))

	desc := "updated"
	err := UpdateTuition(db, id, "intruder@example.com", UpdateTuitionInput{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateTuitionRejectsIllegalTransition(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(tuitionRow(id, "owner@example.com", models.TuitionStatusCompleted))

	status := models.TuitionStatusOpen
	err := UpdateTuition(db, id, "owner@example.com", UpdateTuitionInput{Status: &status})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), models.TuitionStatusCompleted)
	assert.Contains(t, err.Error(), models.TuitionStatusOpen)
}

func TestUpdateTuitionNothingToUpdate(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(tuitionRow(id, "owner@example.com", models.TuitionStatusOpen))

	err := UpdateTuition(db, id, "owner@example.com", UpdateTuitionInput{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateTuitionClosesOpenPosting(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(tuitionRow(id, "owner@example.com", models.TuitionStatusOpen))
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := models.TuitionStatusClosed
	err := UpdateTuition(db, id, "owner@example.com", UpdateTuitionInput{Status: &status})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTuitionLosesRaceToConcurrentTransition(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(tuitionRow(id, "owner@example.com", models.TuitionStatusOpen))
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	desc := "new description"
	err := UpdateTuition(db, id, "owner@example.com", UpdateTuitionInput{Description: &desc})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteTuitionForbiddenForNonOwner(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tuitions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := DeleteTuition(db, uuid.New(), "intruder@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTuitionCascadesApplicationsAtomically(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tuitions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := DeleteTuition(db, uuid.New(), "owner@example.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func ongoingTuitionRow(id uuid.UUID, tutorEmail string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "status", "tutor_email"}).
		AddRow(id.String(), models.TuitionStatusOngoing, tutorEmail)
}

func TestCompleteTuitionForbiddenForOtherTutor(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(ongoingTuitionRow(id, "assigned@example.com"))

	err := CompleteTuition(db, id, "other@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteTuitionRequiresOngoing(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "tutor_email"}).
			AddRow(id.String(), models.TuitionStatusAssigned, "tutor@example.com"))

	err := CompleteTuition(db, id, "tutor@example.com")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteTuitionStampsClosure(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(ongoingTuitionRow(id, "tutor@example.com"))
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := CompleteTuition(db, id, "tutor@example.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
