package handlers

import (
	"numyp-backend/middleware"
	"numyp-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notificationService *services.NotificationService, jwtSecret string) {
	// 🔐 The feed is always caller-scoped
	secured := app.Group("/", middleware.AuthMiddleware(jwtSecret))
	secured.Get("/notifications", notificationService.ListNotificationsEndpoint)
	secured.Get("/notifications/counts", notificationService.CountsEndpoint)
	secured.Patch("/notifications/:id/read", notificationService.MarkReadEndpoint)
}
