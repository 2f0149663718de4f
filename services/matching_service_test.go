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

func testTutor() *models.Tutor {
	return &models.Tutor{
		ID:       uuid.New(),
		Name:     "Karim Ahmed",
		Email:    "karim@example.com",
		Phone:    "01822222222",
		District: "Dhaka",
		Status:   models.TutorStatusApproved,
	}
}

func openTuitionRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "student_email", "status", "district", "min_budget", "max_budget",
	}).AddRow(id.String(), uuid.New().String(), "student@example.com", models.TuitionStatusOpen, "Dhaka", 3000.0, 5000.0)
}

func TestApplyToTuitionRequiresOpenStatus(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "district"}).
			AddRow(id.String(), models.TuitionStatusAssigned, "Dhaka"))

	_, _, err := ApplyToTuition(db, testTutor(), ApplyInput{TuitionID: id, Salary: 4000})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyToTuitionRejectsOwnPosting(t *testing.T) {
	db, mock := newTestDB(t)

	tutor := testTutor()
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_email", "status", "district"}).
			AddRow(id.String(), tutor.Email, models.TuitionStatusOpen, "Dhaka"))

	_, _, err := ApplyToTuition(db, tutor, ApplyInput{TuitionID: id, Salary: 4000})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApplyToTuitionEnforcesDistrict(t *testing.T) {
	db, mock := newTestDB(t)

	tutor := testTutor()
	tutor.District = "Chattogram"
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(openTuitionRow(id))

	_, _, err := ApplyToTuition(db, tutor, ApplyInput{TuitionID: id, Salary: 4000})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApplyToTuitionEnforcesBudgetRange(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(openTuitionRow(id))

	_, _, err := ApplyToTuition(db, testTutor(), ApplyInput{TuitionID: id, Salary: 9000})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestApplyToTuitionDuplicateBidConflicts(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(openTuitionRow(id))
	mock.ExpectQuery(`INSERT INTO "applications"`).
		WillReturnError(gorm.ErrDuplicatedKey)

	_, _, err := ApplyToTuition(db, testTutor(), ApplyInput{TuitionID: id, Salary: 4000})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApplyToTuitionCreatesSnapshotBid(t *testing.T) {
	db, mock := newTestDB(t)

	id := uuid.New()
	applicationID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1`).
		WillReturnRows(openTuitionRow(id))
	mock.ExpectQuery(`INSERT INTO "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(applicationID.String()))

	application, tuition, err := ApplyToTuition(db, testTutor(), ApplyInput{TuitionID: id, Salary: 4000, CoverLetter: "I can help."})
	require.NoError(t, err)
	assert.Equal(t, applicationID, application.ID)
	assert.Equal(t, models.ApplicationStatusPending, application.Status)
	assert.Equal(t, id, tuition.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pendingApplicationRow(id, tuitionID, tutorID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tuition_id", "tutor_id", "student_id", "salary", "status", "tutor_name", "tutor_photo",
	}).AddRow(id.String(), tuitionID.String(), tutorID.String(), uuid.New().String(), 4000.0, models.ApplicationStatusPending, "Karim Ahmed", "")
}

func TestAcceptApplicationAlreadyAssignedConflicts(t *testing.T) {
	db, mock := newTestDB(t)

	applicationID := uuid.New()
	tuitionID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(pendingApplicationRow(applicationID, tuitionID, uuid.New()))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1(.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(tuitionID.String(), models.TuitionStatusAssigned))
	mock.ExpectRollback()

	_, _, _, err := AcceptApplication(db, applicationID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptApplicationRequiresPendingBid(t *testing.T) {
	db, mock := newTestDB(t)

	applicationID := uuid.New()
	tuitionID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tuition_id", "tutor_id", "status"}).
			AddRow(applicationID.String(), tuitionID.String(), uuid.New().String(), models.ApplicationStatusRejected))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1(.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(tuitionID.String(), models.TuitionStatusOpen))
	mock.ExpectRollback()

	_, _, _, err := AcceptApplication(db, applicationID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAcceptApplicationAbortsWhenBidCancelledMidFlight(t *testing.T) {
	db, mock := newTestDB(t)

	applicationID := uuid.New()
	tuitionID := uuid.New()
	tutorID := uuid.New()

	// The bid is pending when first read, but a concurrent cancel deletes it
	// before the transaction touches the row: the conditioned accept update
	// hits nothing and the tuition must stay open.
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(pendingApplicationRow(applicationID, tuitionID, tutorID))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1(.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(tuitionID.String(), models.TuitionStatusOpen))
	mock.ExpectQuery(`SELECT \* FROM "tutors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(tutorID.String(), "karim@example.com"))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, _, err := AcceptApplication(db, applicationID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptApplicationAssignsTuitionAtomically(t *testing.T) {
	db, mock := newTestDB(t)

	applicationID := uuid.New()
	tuitionID := uuid.New()
	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(pendingApplicationRow(applicationID, tuitionID, tutorID))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1(.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(tuitionID.String(), models.TuitionStatusOpen))
	mock.ExpectQuery(`SELECT \* FROM "tutors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}).
			AddRow(tutorID.String(), "Karim Ahmed", "karim@example.com", "01822222222"))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	application, tuition, tutor, err := AcceptApplication(db, applicationID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, application.Status)
	assert.Equal(t, tuitionID, tuition.ID)
	assert.Equal(t, "karim@example.com", tutor.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptApplicationAbortsWhenGuardedUpdateMisses(t *testing.T) {
	db, mock := newTestDB(t)

	applicationID := uuid.New()
	tuitionID := uuid.New()
	tutorID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(pendingApplicationRow(applicationID, tuitionID, tutorID))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tuitions" WHERE id = \$1(.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(tuitionID.String(), models.TuitionStatusOpen))
	mock.ExpectQuery(`SELECT \* FROM "tutors" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(tutorID.String(), "karim@example.com"))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "tuitions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, _, err := AcceptApplication(db, applicationID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelApplicationForbiddenWhenNoRowMatches(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`DELETE FROM "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := CancelApplication(db, uuid.New(), true, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelApplicationDeletesOwnPendingBid(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`DELETE FROM "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := CancelApplication(db, uuid.New(), true, uuid.New())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
