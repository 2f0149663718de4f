package handlers

import (
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/models"
	"github.com/etuitionbd/etuition_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *fiber.Ctx) error {
	email := middleware.TokenEmail(c)
	pq := utils.ParsePageQuery(c, 20, 100)

	var total int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_email = ?", email).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var unread int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_email = ? AND is_read = ?", email, false).
		Count(&unread).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	var items []models.Notification
	if err := database.DB.
		Where("user_email = ?", email).
		Order("created_at DESC").
		Limit(pq.Limit).Offset(pq.Skip).
		Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": items,
		"total":         total,
		"unread":        unread,
		"page":          pq.Page,
		"totalPages":    utils.TotalPages(total, pq.Limit),
	})
}

// MarkNotificationRead flips one of the caller's notifications to read.
func MarkNotificationRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_email = ?", id, middleware.TokenEmail(c)).
		Update("is_read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead clears the caller's unread badge in one statement.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := database.DB.Model(&models.Notification{}).
		Where("user_email = ? AND is_read = ?", middleware.TokenEmail(c), false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notifications"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
