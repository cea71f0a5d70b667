package handlers

import (
	"numyp-backend/middleware"
	"numyp-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, skinService *services.SkinService, jwtSecret string) {
	// 🔓 Catalog is public
	app.Get("/shop/items", skinService.ListItemsEndpoint)

	// 🔐 Buying requires auth
	secured := app.Group("/", middleware.AuthMiddleware(jwtSecret))
	secured.Post("/shop/buy", skinService.BuyItemEndpoint)
}
