package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/notifications"
	"github.com/etuitionbd/etuition_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TutorApplicationRequest struct {
	Qualification    string   `json:"qualification" validate:"required"`
	Institution      string   `json:"institution" validate:"required"`
	IDCardURL        string   `json:"idCardUrl"`
	ExperienceYears  int      `json:"experienceYears" validate:"gte=0"`
	ExperienceMonths int      `json:"experienceMonths" validate:"gte=0,lte=11"`
	Subjects         []string `json:"subjects" validate:"required,min=1"`
	District         string   `json:"district" validate:"required"`
	Location         string   `json:"location"`
	Time             string   `json:"time"`
	Mode             string   `json:"mode"`
	ExpectedSalary   float64  `json:"expectedSalary" validate:"gte=0"`
	Bio              string   `json:"bio"`
}

// ApplyAsTutor creates a pending tutor profile for the calling user and fans
// the application out to every admin for vetting.
func ApplyAsTutor(c *fiber.Ctx) error {
	var req TutorApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("email = ?", middleware.TokenEmail(c)).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	tutor := models.Tutor{
		UserID:           user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Phone:            user.Phone,
		PhotoURL:         user.PhotoURL,
		Qualification:    req.Qualification,
		Institution:      req.Institution,
		IDCardURL:        req.IDCardURL,
		ExperienceYears:  req.ExperienceYears,
		ExperienceMonths: req.ExperienceMonths,
		Subjects:         req.Subjects,
		District:         req.District,
		Location:         req.Location,
		Time:             req.Time,
		Mode:             req.Mode,
		ExpectedSalary:   req.ExpectedSalary,
		Bio:              req.Bio,
		Status:           models.TutorStatusPending,
		SubmittedAt:      time.Now(),
	}
	if err := database.DB.Create(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already applied as a tutor"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit tutor application"})
	}

	go func() {
		var admins []models.User
		if err := database.DB.Where("role = ?", "admin").Find(&admins).Error; err != nil {
			return
		}
		for _, admin := range admins {
			notifications.Emit(
				admin.Email,
				models.NotificationTutorApplication,
				"New tutor application",
				fmt.Sprintf("%s applied to become a tutor.", tutor.Name),
				"/dashboard/admin/tutors",
			)
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tutor application submitted",
		"tutor":   tutor,
	})
}

// GetTutors lists approved tutors with optional filters.
func GetTutors(c *fiber.Ctx) error {
	pq := utils.ParsePageQuery(c, 9, 50)

	query := database.DB.Model(&models.Tutor{}).
		Where("status = ?", models.TutorStatusApproved)

	if district := c.Query("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if mode := c.Query("mode"); mode != "" {
		query = query.Where("mode = ?", mode)
	}
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subjects::text ILIKE ?", fmt.Sprintf("%%%s%%", subject))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}

	var tutors []models.Tutor
	if err := query.Order("rating_sum DESC").Limit(pq.Limit).Offset(pq.Skip).Find(&tutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}

	return c.JSON(fiber.Map{
		"tutors":     tutors,
		"total":      total,
		"page":       pq.Page,
		"totalPages": utils.TotalPages(total, pq.Limit),
	})
}

// GetLatestTutors returns the newest approved profiles for the landing page.
func GetLatestTutors(c *fiber.Ctx) error {
	var tutors []models.Tutor
	if err := database.DB.
		Where("status = ?", models.TutorStatusApproved).
		Order("submitted_at DESC").
		Limit(6).
		Find(&tutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}
	return c.JSON(tutors)
}

func GetTutorByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	var tutor models.Tutor
	if err := database.DB.First(&tutor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutor"})
	}
	return c.JSON(fiber.Map{"tutor": tutor, "averageRating": tutor.AverageRating()})
}

// GetTutorInfo returns the calling user's own tutor profile, whatever its
// vetting status.
func GetTutorInfo(c *fiber.Ctx) error {
	var tutor models.Tutor
	if err := database.DB.Where("email = ?", middleware.TokenEmail(c)).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutor profile"})
	}
	return c.JSON(tutor)
}

// GetPendingTutors is the admin vetting queue.
func GetPendingTutors(c *fiber.Ctx) error {
	var tutors []models.Tutor
	if err := database.DB.
		Where("status = ?", models.TutorStatusPending).
		Order("submitted_at ASC").
		Find(&tutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tutors"})
	}
	return c.JSON(tutors)
}

type VetTutorRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// VetTutor is the admin decision on a pending profile. Approval also promotes
// the underlying user's role so they pass the tutor gates.
func VetTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	var req VetTutorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var tutor models.Tutor
	if err := database.DB.First(&tutor, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tutor{}).
			Where("id = ?", tutor.ID).
			Update("status", req.Status).Error; err != nil {
			return err
		}
		if req.Status == models.TutorStatusApproved {
			return tx.Model(&models.User{}).
				Where("id = ?", tutor.UserID).
				Update("role", "tutor").Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tutor status"})
	}

	if req.Status == models.TutorStatusApproved {
		go notifications.Emit(
			tutor.Email,
			models.NotificationProfileApproved,
			"Tutor profile approved",
			"Your tutor profile has been approved. You can now apply to tuitions.",
			"/dashboard/tutor",
		)
		go notifications.SendEmail(
			tutor.Name,
			tutor.Email,
			"Your tutor profile is approved",
			"<h1>You're in!</h1><p>Your tutor profile has been approved. Browse open tuitions and start applying.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("Tutor %s", req.Status)})
}

// DeleteTutor removes a profile and demotes the user back to student.
func DeleteTutor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	var tutor models.Tutor
	if err := database.DB.First(&tutor, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Tutor{}, "id = ?", tutor.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", tutor.UserID, "tutor").
			Update("role", "student").Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete tutor"})
	}

	return c.JSON(fiber.Map{"message": "Tutor deleted successfully"})
}
