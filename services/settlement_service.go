package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementResult reports what a confirmation attempt resolved to. Settled
// is false when the transaction id had already been recorded, meaning this
// call applied no side effects.
type SettlementResult struct {
	Payment *models.Payment
	Tuition *models.Tuition
	Fees    FeeBreakdown
	Settled bool
}

// ConfirmPayment converts a processor-confirmed checkout session into a
// durable settlement. It is safe to call any number of times for the same
// session: the payment row is inserted with set-on-insert semantics keyed on
// the processor transaction id, and the tuition transition to ongoing is a
// conditional update that fires at most once.
func ConfirmPayment(db *gorm.DB, session *payments.CheckoutSession, requesterEmail string, feeRate float64) (*SettlementResult, error) {
	if session.CustomerEmail != requesterEmail {
		return nil, fmt.Errorf("%w: forbidden access", ErrForbidden)
	}
	if session.PaymentStatus != "paid" {
		return nil, fmt.Errorf("%w: payment not completed", ErrInvalidState)
	}
	if session.PaymentIntent == "" {
		return nil, fmt.Errorf("%w: session has no transaction id", ErrInvalidArgument)
	}

	transactionID := session.PaymentIntent

	var existing models.Payment
	err := db.Where("transaction_id = ?", transactionID).First(&existing).Error
	if err == nil {
		return &SettlementResult{Payment: &existing, Settled: false}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tuitionID, err := uuid.Parse(session.Metadata["tuitionId"])
	if err != nil {
		return nil, fmt.Errorf("%w: session metadata has no tuition id", ErrInvalidArgument)
	}

	var tuition models.Tuition
	if err := db.First(&tuition, "id = ?", tuitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tuition not found", ErrNotFound)
		}
		return nil, err
	}

	fees := SplitFee(session.AmountTotal, feeRate)

	payment := models.Payment{
		ID:            uuid.New(),
		TuitionID:     tuition.ID,
		StudentID:     tuition.StudentID,
		TutorID:       derefUUID(tuition.TutorID),
		ApplicationID: tuition.AssignedApplicationID,
		TransactionID: transactionID,
		Amount:        fees.Gross,
		PlatformFee:   fees.PlatformFee,
		Salary:        fees.TutorPayout,
		StudentEmail:  session.CustomerEmail,
		TutorEmail:    derefString(tuition.TutorEmail),
		PaymentStatus: session.PaymentStatus,
		PaidAt:        time.Now(),
	}

	settled := false
	err = db.Transaction(func(tx *gorm.DB) error {
		// Set-on-insert upsert: of two racing confirmations exactly one
		// inserts, the other converges on the winner's row.
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).Create(&payment)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		settled = true

		start := tx.Model(&models.Tuition{}).
			Where("id = ? AND status = ?", tuition.ID, models.TuitionStatusAssigned).
			Updates(map[string]interface{}{
				"status":     models.TuitionStatusOngoing,
				"started_at": time.Now(),
			})
		if start.Error != nil {
			return start.Error
		}
		if start.RowsAffected == 0 {
			return fmt.Errorf("%w: payment allowed only for assigned tuition", ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !settled {
		if ferr := db.Where("transaction_id = ?", transactionID).First(&existing).Error; ferr == nil {
			return &SettlementResult{Payment: &existing, Settled: false}, nil
		}
		return nil, fmt.Errorf("%w: settlement raced and no payment record found", ErrConflict)
	}

	return &SettlementResult{Payment: &payment, Tuition: &tuition, Fees: fees, Settled: true}, nil
}

func derefUUID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
