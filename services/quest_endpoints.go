package services

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateQuestEndpoint posts a new quest.
func (s *QuestService) CreateQuestEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Lat         float64    `json:"lat"`
		Lng         float64    `json:"lng"`
		RadiusM     float64    `json:"radius_m"`
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		BountyCoins int        `json:"bounty_coins"`
		ExpiresAt   *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || len(req.Title) > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required (max 50 chars)"})
	}
	if req.BountyCoins < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bounty_coins must be >= 0"})
	}

	quest, err := s.CreateQuest(userID, CreateQuestInput{
		Latitude:    req.Lat,
		Longitude:   req.Lng,
		RadiusM:     req.RadiusM,
		Title:       req.Title,
		Description: req.Description,
		BountyCoins: req.BountyCoins,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quest)
}

// ListQuestsEndpoint serves the quest board.
func (s *QuestService) ListQuestsEndpoint(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	quests, err := s.ListQuests(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quests)
}

// GetQuestEndpoint serves one quest with its full graph.
func (s *QuestService) GetQuestEndpoint(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quest ID"})
	}

	quest, err := s.GetQuestByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quest)
}

// AcceptQuestEndpoint records the caller as a walker on the quest.
func (s *QuestService) AcceptQuestEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quest ID"})
	}

	var req struct {
		DistanceAtAccept float64 `json:"distance_at_accept"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	quest, err := s.AcceptQuest(id, userID, req.DistanceAtAccept)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quest)
}

// SubmitReportEndpoint completes a quest with the caller's report.
func (s *QuestService) SubmitReportEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quest ID"})
	}

	var req struct {
		PhotoURL *string  `json:"photo_url"`
		Comment  *string  `json:"comment"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	quest, err := s.SubmitReport(id, userID, ReportInput{
		PhotoURL:  req.PhotoURL,
		Comment:   req.Comment,
		Latitude:  req.Lat,
		Longitude: req.Lng,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quest)
}

// GetCompletionReportEndpoint serves the requester's view of the
// active walker's report.
func (s *QuestService) GetCompletionReportEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quest ID"})
	}

	report, err := s.GetCompletionReport(id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// CancelQuestEndpoint lets the requester call off a quest.
func (s *QuestService) CancelQuestEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quest ID"})
	}

	quest, err := s.CancelQuest(id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quest)
}
