package routes

import (
	"github.com/etuitionbd/etuition_backend/handlers"
	"github.com/etuitionbd/etuition_backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payment := api.Group("/payments", middleware.Protected())
	payment.Post("/checkout-session", handlers.CreatePaymentCheckoutSession)
	payment.Patch("/success", handlers.ConfirmPaymentSuccess)
	payment.Get("", handlers.GetPayments)
}
