package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReviewRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/reviews/latest", handlers.GetLatestReviews)
	api.Get("/tutors/:id/reviews", handlers.GetTutorReviews)

	api.Post("/reviews", middleware.Protected(), handlers.SubmitReview)
}
