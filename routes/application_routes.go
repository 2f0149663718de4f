package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ApplicationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tutorApp := api.Group("/applications", middleware.Protected(), middleware.ApprovedTutorRequired())
	tutorApp.Post("", handlers.ApplyToTuition)
	tutorApp.Get("/me", handlers.GetMyApplications)
	tutorApp.Get("/has-applied/:id", handlers.HasApplied)

	application := api.Group("/applications", middleware.Protected())
	application.Patch("/:id/decision", handlers.DecideApplication)
	application.Delete("/:id", handlers.CancelApplication)
}
