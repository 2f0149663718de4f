package handlers

import (
	"fmt"

	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/notifications"
	"github.com/etuitionbd/etuition_backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ApplyRequest struct {
	TuitionID   string  `json:"tuitionId" validate:"required,uuid4"`
	Salary      float64 `json:"salary" validate:"required,gt=0"`
	CoverLetter string  `json:"coverLetter"`
}

// ApplyToTuition records a bid by the calling tutor. The approved-tutor gate
// has already resolved the profile into locals.
func ApplyToTuition(c *fiber.Ctx) error {
	tutor := c.Locals("tutor").(*models.Tutor)

	var req ApplyRequest
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

	application, tuition, err := services.ApplyToTuition(database.DB, tutor, services.ApplyInput{
		TuitionID:   tuitionID,
		Salary:      req.Salary,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		return serviceError(c, err)
	}

	go notifications.Emit(
		tuition.StudentEmail,
		models.NotificationNewApplication,
		"New tuition application",
		fmt.Sprintf("%s applied to your %s tuition.", tutor.Name, tuition.ClassLevel),
		fmt.Sprintf("/dashboard/my-tuitions/%s/applications", tuition.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

type DecideApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// DecideApplication lets the posting student accept or reject a bid. Accept
// runs the full matching transaction; ownership is checked against the
// application's student snapshot before anything moves.
func DecideApplication(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application id"})
	}

	var req DecideApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var requester models.User
	if err := database.DB.Where("email = ?", middleware.TokenEmail(c)).First(&requester).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var application models.Application
	if err := database.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}
	if application.StudentID != requester.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to decide this application"})
	}

	if req.Status == models.ApplicationStatusRejected {
		rejected, err := services.RejectApplication(database.DB, applicationID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Application rejected", "application": rejected})
	}

	accepted, tuition, tutor, err := services.AcceptApplication(database.DB, applicationID)
	if err != nil {
		return serviceError(c, err)
	}

	go notifications.Emit(
		tutor.Email,
		models.NotificationApplicationAccepted,
		"Application accepted",
		fmt.Sprintf("Congratulations! Your application for the %s tuition was accepted.", tuition.ClassLevel),
		fmt.Sprintf("/dashboard/my-applications/%s", accepted.ID),
	)
	go notifications.SendEmail(
		tutor.Name,
		tutor.Email,
		"Your tuition application was accepted",
		fmt.Sprintf("<h1>Application Accepted</h1><p>Your bid of %.0f for the %s tuition has been accepted. The engagement begins once the student completes payment.</p>", accepted.Salary, tuition.ClassLevel),
	)

	return c.JSON(fiber.Map{
		"message":     "Application accepted",
		"application": accepted,
		"tuition":     tuition,
	})
}

// CancelApplication withdraws a pending or rejected bid. Tutors cancel their
// own; students cancel bids on their tuitions.
func CancelApplication(c *fiber.Ctx) error {
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application id"})
	}

	email := middleware.TokenEmail(c)

	var tutor models.Tutor
	if err := database.DB.Where("email = ?", email).First(&tutor).Error; err == nil {
		if err := services.CancelApplication(database.DB, applicationID, true, tutor.ID); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Application cancelled"})
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err := services.CancelApplication(database.DB, applicationID, false, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Application cancelled"})
}

// GetTuitionApplications lists bids on one tuition for its posting student.
func GetTuitionApplications(c *fiber.Ctx) error {
	tuitionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	var tuition models.Tuition
	if err := database.DB.First(&tuition, "id = ?", tuitionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tuition not found"})
	}
	if tuition.StudentEmail != middleware.TokenEmail(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to view these applications"})
	}

	var applications []models.Application
	if err := database.DB.
		Where("tuition_id = ?", tuitionID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch applications"})
	}
	return c.JSON(applications)
}

// GetMyApplications lists the calling tutor's bids, newest first.
func GetMyApplications(c *fiber.Ctx) error {
	tutor := c.Locals("tutor").(*models.Tutor)

	var applications []models.Application
	if err := database.DB.
		Where("tutor_id = ?", tutor.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch applications"})
	}
	return c.JSON(applications)
}

// HasApplied tells a tutor whether they already bid on a tuition, so the
// client can disable the apply button up front.
func HasApplied(c *fiber.Ctx) error {
	tutor := c.Locals("tutor").(*models.Tutor)

	tuitionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	var count int64
	if err := database.DB.Model(&models.Application{}).
		Where("tuition_id = ? AND tutor_id = ?", tuitionID, tutor.ID).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check application"})
	}
	return c.JSON(fiber.Map{"hasApplied": count > 0})
}
