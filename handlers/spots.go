package handlers

import (
	"numyp-backend/middleware"
	"numyp-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSpotRoutes(app *fiber.App, spotService *services.SpotService, jwtSecret string) {
	// 🔓 Public map/detail views
	app.Get("/spots", spotService.ListSpotsEndpoint)
	app.Get("/spots/:id", spotService.GetSpotEndpoint)

	// 🔐 Author actions
	secured := app.Group("/", middleware.AuthMiddleware(jwtSecret))
	secured.Post("/spots", spotService.CreateSpotEndpoint)
	secured.Put("/spots/:id", spotService.UpdateSpotEndpoint)
	secured.Delete("/spots/:id", spotService.DeleteSpotEndpoint)
}
