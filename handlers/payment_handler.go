package handlers

import (
	"fmt"
	"math"
	"strings"

	config "github.com/etuitionbd/etuition_backend/configs"
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/notifications"
	"github.com/etuitionbd/etuition_backend/payments"
	"github.com/etuitionbd/etuition_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CheckoutRequest struct {
	TuitionID string `json:"tuitionId" validate:"required,uuid4"`
}

// CreatePaymentCheckoutSession mints a hosted checkout session for an
// assigned tuition's agreed salary. Only the posting student may pay, and
// only while the tuition sits in assigned.
func CreatePaymentCheckoutSession(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	tuitionID, err := uuid.Parse(req.TuitionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	var tuition models.Tuition
	if err := database.DB.First(&tuition, "id = ?", tuitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tuition not found"})
	}
	if tuition.StudentEmail != middleware.TokenEmail(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to pay for this tuition"})
	}
	if tuition.Status != models.TuitionStatusAssigned {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment is only possible for an assigned tuition"})
	}
	if tuition.Salary == nil || *tuition.Salary <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Tuition has no agreed salary"})
	}

	metadata := map[string]string{
		"tuitionId": tuition.ID.String(),
		"studentId": tuition.StudentID.String(),
	}
	if tuition.TutorID != nil {
		metadata["tutorId"] = tuition.TutorID.String()
	}
	if tuition.AssignedApplicationID != nil {
		metadata["assignedApplicationId"] = tuition.AssignedApplicationID.String()
	}

	clientURL := strings.TrimRight(config.Config("CLIENT_URL"), "/")
	session, err := payments.CreateCheckoutSession(payments.CheckoutParams{
		AmountCents:   int64(math.Round(*tuition.Salary * 100)),
		Currency:      "bdt",
		CustomerEmail: tuition.StudentEmail,
		ProductName:   fmt.Sprintf("Tuition: %s", tuition.ClassLevel),
		Description:   fmt.Sprintf("First month tuition fee for %s", strings.Join(tuition.Subjects, ", ")),
		Metadata:      metadata,
		SuccessURL:    fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}", clientURL),
		CancelURL:     fmt.Sprintf("%s/dashboard/my-tuitions", clientURL),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	return c.JSON(fiber.Map{"sessionId": session.ID, "url": session.URL})
}

type PaymentSuccessRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// ConfirmPaymentSuccess verifies a checkout session with the processor and
// settles it. Replays of the same session return 200 with settled=false and
// apply nothing.
func ConfirmPaymentSuccess(c *fiber.Ctx) error {
	var req PaymentSuccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := payments.RetrieveCheckoutSession(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to verify payment session"})
	}

	result, err := services.ConfirmPayment(database.DB, session, middleware.TokenEmail(c), services.PlatformFeeRate())
	if err != nil {
		return serviceError(c, err)
	}

	if result.Settled {
		go notifications.Emit(
			result.Payment.TutorEmail,
			models.NotificationTuitionStarted,
			"Tuition started",
			fmt.Sprintf("Payment of %.2f received (platform fee %.2f, your payout %.2f). The tuition is now ongoing.",
				result.Payment.Amount, result.Payment.PlatformFee, result.Payment.Salary),
			fmt.Sprintf("/dashboard/tutor-tuitions/%s", result.Payment.TuitionID),
		)
		go services.GenerateSettlementReceipt(*result.Payment, *result.Tuition)
	}

	return c.JSON(fiber.Map{
		"message": "Payment confirmed",
		"settled": result.Settled,
		"payment": result.Payment,
	})
}

// GetPayments lists the caller's settlement history: admins see everything,
// everyone else sees rows where they are the payer or the payee.
func GetPayments(c *fiber.Ctx) error {
	email := middleware.TokenEmail(c)

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	query := database.DB.Model(&models.Payment{}).Order("paid_at DESC")
	if user.Role != "admin" {
		query = query.Where("student_email = ? OR tutor_email = ?", email, email)
	}

	var paymentRecords []models.Payment
	if err := query.Find(&paymentRecords).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(paymentRecords)
}
