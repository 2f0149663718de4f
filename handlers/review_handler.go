package handlers

import (
	"fmt"

	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/notifications"
	"github.com/etuitionbd/etuition_backend/services"
	"github.com/etuitionbd/etuition_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	TuitionID string `json:"tuitionId" validate:"required,uuid4"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Review    string `json:"review"`
}

func SubmitReview(c *fiber.Ctx) error {
	var req SubmitReviewRequest
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

	var student models.User
	if err := database.DB.Where("email = ?", middleware.TokenEmail(c)).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	review, tutor, err := services.SubmitReview(database.DB, &student, services.SubmitReviewInput{
		TuitionID: tuitionID,
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		return serviceError(c, err)
	}

	if tutor != nil {
		go notifications.Emit(
			tutor.Email,
			models.NotificationNewReview,
			"New review received",
			fmt.Sprintf("%s rated you %d out of 5.", student.Name, review.Rating),
			"/dashboard/my-reviews",
		)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func GetLatestReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := database.DB.
		Order("posted_at DESC").
		Limit(6).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}
	return c.JSON(reviews)
}

// GetTutorReviews returns one tutor's reviews with pagination.
func GetTutorReviews(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	pq := utils.ParsePageQuery(c, 10, 50)

	var total int64
	if err := database.DB.Model(&models.Review{}).
		Where("tutor_id = ?", tutorID).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	var reviews []models.Review
	if err := database.DB.
		Where("tutor_id = ?", tutorID).
		Order("posted_at DESC").
		Limit(pq.Limit).Offset(pq.Skip).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	return c.JSON(fiber.Map{
		"reviews":    reviews,
		"total":      total,
		"page":       pq.Page,
		"totalPages": utils.TotalPages(total, pq.Limit),
	})
}
