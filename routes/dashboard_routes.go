package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	dashboard := api.Group("/dashboard", middleware.Protected())
	dashboard.Get("/student", handlers.GetStudentDashboard)
	dashboard.Get("/tutor", middleware.ApprovedTutorRequired(), handlers.GetTutorDashboard)
	dashboard.Get("/admin", middleware.AdminRequired(), handlers.GetAdminDashboard)
}
