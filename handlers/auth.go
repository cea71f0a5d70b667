package handlers

import (
	"numyp-backend/middleware"
	"numyp-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, skinService *services.SkinService, jwtSecret string) {
	// 🔓 Public routes
	app.Post("/auth/signup", authService.SignupEndpoint)
	app.Post("/auth/login", authService.LoginEndpoint)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.AuthMiddleware(jwtSecret))
	secured.Get("/users/me", authService.MeEndpoint)
	secured.Put("/users/me/skin", skinService.EquipEndpoint)
}
