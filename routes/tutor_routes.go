package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Public directory.
	api.Get("/tutors", handlers.GetTutors)
	api.Get("/tutors/latest", handlers.GetLatestTutors)
	api.Get("/tutors/:id", handlers.GetTutorByID)

	api.Post("/tutors", middleware.Protected(), handlers.ApplyAsTutor)
	api.Get("/tutor-info", middleware.Protected(), handlers.GetTutorInfo)

	admin := api.Group("/admin/tutors", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/pending", handlers.GetPendingTutors)
	admin.Patch("/:id", handlers.VetTutor)
	admin.Delete("/:id", handlers.DeleteTutor)
}
