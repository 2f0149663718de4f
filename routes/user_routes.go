package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/user-role", middleware.Protected(), handlers.GetUserRole)
	api.Patch("/users/:email", middleware.Protected(), handlers.UpdateUser)

	admin := api.Group("/admin/users", middleware.Protected(), middleware.AdminRequired())
	admin.Get("", handlers.GetUsers)
	admin.Patch("/:email/role", handlers.UpdateUserRole)
	admin.Delete("/:email", handlers.DeleteUser)
}
