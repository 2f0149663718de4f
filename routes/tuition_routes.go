package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func TuitionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Public listings.
	api.Get("/tuitions", handlers.GetTuitions)
	api.Get("/tuitions/latest", handlers.GetLatestTuitions)
	api.Get("/tuitions/:id", handlers.GetTuitionByID)

	tuition := api.Group("/tuitions", middleware.Protected())
	tuition.Post("", handlers.CreateTuition)
	tuition.Patch("/:id", handlers.UpdateTuition)
	tuition.Delete("/:id", handlers.DeleteTuition)
	tuition.Get("/:id/applications", handlers.GetTuitionApplications)

	api.Get("/my-tuitions", middleware.Protected(), handlers.GetMyTuitions)

	tutorTuition := api.Group("/tutor", middleware.Protected(), middleware.ApprovedTutorRequired())
	tutorTuition.Get("/tuitions", handlers.GetTutorTuitions)
	tutorTuition.Patch("/tuitions/:id/complete", handlers.CompleteTuition)
}
