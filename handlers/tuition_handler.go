package handlers

import (
	"errors"
	"fmt"

	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/services"
	"github.com/etuitionbd/etuition_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTuitionRequest struct {
	Subjects       []string `json:"subjects" validate:"required,min=1"`
	ClassLevel     string   `json:"classLevel" validate:"required"`
	District       string   `json:"district" validate:"required"`
	Location       string   `json:"location"`
	Days           string   `json:"days"`
	Time           string   `json:"time"`
	Duration       string   `json:"duration"`
	MinBudget      float64  `json:"minBudget" validate:"gte=0"`
	MaxBudget      float64  `json:"maxBudget" validate:"gte=0"`
	Mode           string   `json:"mode" validate:"required,oneof=online offline hybrid"`
	Description    string   `json:"description"`
	IdempotencyKey string   `json:"idempotencyKey"`
}

func CreateTuition(c *fiber.Ctx) error {
	var req CreateTuitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Header wins over body; clients retrying a timed-out POST resend the
	// same key and get the original tuition back.
	key := c.Get("Idempotency-Key")
	if key == "" {
		key = req.IdempotencyKey
	}
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Idempotency-Key is required"})
	}

	var student models.User
	if err := database.DB.Where("email = ?", middleware.TokenEmail(c)).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	tuition, created, err := services.CreateTuition(database.DB, &student, services.CreateTuitionInput{
		Subjects:       req.Subjects,
		ClassLevel:     req.ClassLevel,
		District:       req.District,
		Location:       req.Location,
		Days:           req.Days,
		Time:           req.Time,
		Duration:       req.Duration,
		MinBudget:      req.MinBudget,
		MaxBudget:      req.MaxBudget,
		Mode:           req.Mode,
		Description:    req.Description,
		IdempotencyKey: key,
	})
	if err != nil {
		return serviceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"message": "Tuition posted successfully", "tuition": tuition})
}

type UpdateTuitionRequest struct {
	ClassLevel  *string  `json:"classLevel"`
	Subjects    []string `json:"subjects"`
	Days        *string  `json:"days"`
	Time        *string  `json:"time"`
	Duration    *string  `json:"duration"`
	MinBudget   *float64 `json:"minBudget"`
	MaxBudget   *float64 `json:"maxBudget"`
	Mode        *string  `json:"mode"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
}

func UpdateTuition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	var req UpdateTuitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	err = services.UpdateTuition(database.DB, id, middleware.TokenEmail(c), services.UpdateTuitionInput{
		ClassLevel:  req.ClassLevel,
		Subjects:    req.Subjects,
		Days:        req.Days,
		Time:        req.Time,
		Duration:    req.Duration,
		MinBudget:   req.MinBudget,
		MaxBudget:   req.MaxBudget,
		Mode:        req.Mode,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tuition updated successfully"})
}

func DeleteTuition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	if err := services.DeleteTuition(database.DB, id, middleware.TokenEmail(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tuition deleted successfully"})
}

// CompleteTuition is the tutor-side close-out of an ongoing engagement.
func CompleteTuition(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	if err := services.CompleteTuition(database.DB, id, middleware.TokenEmail(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tuition marked as completed"})
}

// GetTuitions lists open tuitions with optional filters and budget sorting.
func GetTuitions(c *fiber.Ctx) error {
	pq := utils.ParsePageQuery(c, 9, 50)

	query := database.DB.Model(&models.Tuition{}).
		Where("status = ?", models.TuitionStatusOpen)

	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if classLevel := c.Query("classLevel"); classLevel != "" {
		query = query.Where("class_level = ?", classLevel)
	}
	if mode := c.Query("mode"); mode != "" {
		query = query.Where("mode = ?", mode)
	}
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subjects::text ILIKE ?", fmt.Sprintf("%%%s%%", subject))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuitions"})
	}

	switch c.Query("sort") {
	case "budget_asc":
		query = query.Order("max_budget ASC")
	case "budget_desc":
		query = query.Order("max_budget DESC")
	default:
		query = query.Order("posted_at DESC")
	}

	var tuitions []models.Tuition
	if err := query.Limit(pq.Limit).Offset(pq.Skip).Find(&tuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuitions"})
	}

	return c.JSON(fiber.Map{
		"tuitions":   tuitions,
		"total":      total,
		"page":       pq.Page,
		"totalPages": utils.TotalPages(total, pq.Limit),
	})
}

func GetLatestTuitions(c *fiber.Ctx) error {
	var tuitions []models.Tuition
	if err := database.DB.
		Where("status = ?", models.TuitionStatusOpen).
		Order("posted_at DESC").
		Limit(6).
		Find(&tuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuitions"})
	}
	return c.JSON(tuitions)
}

func GetTuitionByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tuition id"})
	}

	var tuition models.Tuition
	if err := database.DB.First(&tuition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tuition not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuition"})
	}
	return c.JSON(tuition)
}

// GetMyTuitions returns the caller's own postings, newest first.
func GetMyTuitions(c *fiber.Ctx) error {
	var tuitions []models.Tuition
	if err := database.DB.
		Where("student_email = ?", middleware.TokenEmail(c)).
		Order("posted_at DESC").
		Find(&tuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuitions"})
	}
	return c.JSON(tuitions)
}

// GetTutorTuitions returns engagements assigned to the calling tutor.
func GetTutorTuitions(c *fiber.Ctx) error {
	var tuitions []models.Tuition
	if err := database.DB.
		Where("tutor_email = ?", middleware.TokenEmail(c)).
		Order("assigned_at DESC").
		Find(&tuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tuitions"})
	}
	return c.JSON(tuitions)
}
