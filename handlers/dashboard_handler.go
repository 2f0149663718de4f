package handlers

import (
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/gofiber/fiber/v2"
)

// GetStudentDashboard aggregates the caller's posting activity and spend.
func GetStudentDashboard(c *fiber.Ctx) error {
	email := middleware.TokenEmail(c)

	var statusCounts []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	if err := database.DB.Model(&models.Tuition{}).
		Select("status, COUNT(*) as count").
		Where("student_email = ?", email).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	var totalSpent float64
	if err := database.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("student_email = ?", email).
		Scan(&totalSpent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	var pendingApplications int64
	if err := database.DB.Model(&models.Application{}).
		Joins("JOIN tuitions ON tuitions.id = applications.tuition_id").
		Where("tuitions.student_email = ? AND applications.status = ?", email, models.ApplicationStatusPending).
		Count(&pendingApplications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(fiber.Map{
		"tuitionsByStatus":    statusCounts,
		"totalSpent":          totalSpent,
		"pendingApplications": pendingApplications,
	})
}

// GetTutorDashboard aggregates the calling tutor's bids, engagements and
// earnings.
func GetTutorDashboard(c *fiber.Ctx) error {
	tutor := c.Locals("tutor").(*models.Tutor)

	var applicationCounts []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	if err := database.DB.Model(&models.Application{}).
		Select("status, COUNT(*) as count").
		Where("tutor_id = ?", tutor.ID).
		Group("status").
		Scan(&applicationCounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	var activeTuitions int64
	if err := database.DB.Model(&models.Tuition{}).
		Where("tutor_id = ? AND status = ?", tutor.ID, models.TuitionStatusOngoing).
		Count(&activeTuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	var totalEarned float64
	if err := database.DB.Model(&models.Payment{}).
		Select("COALESCE(SUM(salary), 0)").
		Where("tutor_id = ?", tutor.ID).
		Scan(&totalEarned).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(fiber.Map{
		"applicationsByStatus": applicationCounts,
		"activeTuitions":       activeTuitions,
		"totalEarned":          totalEarned,
		"averageRating":        tutor.AverageRating(),
		"ratingCount":          tutor.RatingCount,
	})
}

// GetAdminDashboard is the platform-wide overview.
func GetAdminDashboard(c *fiber.Ctx) error {
	var totalUsers, totalTutors, pendingTutors, totalTuitions int64
	var tuitionsByStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var grossVolume, feeRevenue float64
	var monthlyRevenue []struct {
		Month string  `json:"month"`
		Gross float64 `json:"gross"`
		Fees  float64 `json:"fees"`
	}

	db := database.DB
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Tutor{}).Count(&totalTutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Tutor{}).
		Where("status = ?", models.TutorStatusPending).
		Count(&pendingTutors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Tuition{}).Count(&totalTuitions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Tuition{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&tuitionsByStatus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&grossVolume).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(platform_fee), 0)").
		Scan(&feeRevenue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}
	if err := db.Model(&models.Payment{}).
		Select("TO_CHAR(DATE_TRUNC('month', paid_at), 'YYYY-MM') AS month, SUM(amount) AS gross, SUM(platform_fee) AS fees").
		Group("DATE_TRUNC('month', paid_at)").
		Order("DATE_TRUNC('month', paid_at) DESC").
		Limit(12).
		Scan(&monthlyRevenue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(fiber.Map{
		"totalUsers":       totalUsers,
		"totalTutors":      totalTutors,
		"pendingTutors":    pendingTutors,
		"totalTuitions":    totalTuitions,
		"tuitionsByStatus": tuitionsByStatus,
		"grossVolume":      grossVolume,
		"feeRevenue":       feeRevenue,
		"monthlyRevenue":   monthlyRevenue,
	})
}
