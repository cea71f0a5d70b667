package services

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListNotificationsEndpoint serves the caller's feed.
// Supports ?unread=true and ?limit=N.
func (s *NotificationService) ListNotificationsEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	unreadOnly := c.QueryBool("unread", false)
	limit := c.QueryInt("limit", 50)

	notifications, err := s.ListNotifications(userID, unreadOnly, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

// CountsEndpoint returns total and unread counts; cheap to poll.
func (s *NotificationService) CountsEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	total, unread, err := s.CountUnread(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total_count":  total,
		"unread_count": unread,
	})
}

// MarkReadEndpoint marks one notification read (idempotent).
func (s *NotificationService) MarkReadEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	notification, err := s.MarkRead(id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notification)
}
