package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/etuitionbd/etuition_backend/websocket"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notification := api.Group("/notifications", middleware.Protected())
	notification.Get("", handlers.GetNotifications)
	notification.Patch("/read-all", handlers.MarkAllNotificationsRead)
	notification.Patch("/:id/read", handlers.MarkNotificationRead)

	// Live push channel for the dashboard bell.
	app.Get("/ws/notifications",
		middleware.Protected(),
		func(c *fiber.Ctx) error {
			c.Locals("ws_email", middleware.TokenEmail(c))
			return c.Next()
		},
		websocket.UpgradeRequired(),
		websocket.Serve(),
	)
}
