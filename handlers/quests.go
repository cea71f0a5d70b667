package handlers

import (
	"numyp-backend/middleware"
	"numyp-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService, jwtSecret string) {
	// 🔓 Board and detail are public
	app.Get("/quests", questService.ListQuestsEndpoint)
	app.Get("/quests/:id", questService.GetQuestEndpoint)

	// 🔐 Lifecycle operations require auth
	secured := app.Group("/", middleware.AuthMiddleware(jwtSecret))
	secured.Post("/quests", questService.CreateQuestEndpoint)
	secured.Post("/quests/:id/accept", questService.AcceptQuestEndpoint)
	secured.Post("/quests/:id/report", questService.SubmitReportEndpoint)
	secured.Get("/quests/:id/completion", questService.GetCompletionReportEndpoint)
	secured.Post("/quests/:id/cancel", questService.CancelQuestEndpoint)
}
