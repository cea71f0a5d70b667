package services

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListItemsEndpoint returns the skin catalog.
func (s *SkinService) ListItemsEndpoint(c *fiber.Ctx) error {
	skins, err := s.ListSkins()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skins)
}

// BuyItemEndpoint runs a purchase and maps the outcome enum to a
// response. Failed purchases are expected branches, not faults.
func (s *SkinService) BuyItemEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, err := uuid.Parse(req.ItemID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	result, remaining, err := s.Purchase(userID, req.ItemID)
	if err != nil {
		return respondError(c, err)
	}

	switch result {
	case PurchaseSuccess:
		return c.JSON(fiber.Map{
			"success":         true,
			"remaining_coins": remaining,
			"message":         fmt.Sprintf("Item %s purchased!", req.ItemID),
		})
	case PurchaseUserNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case PurchaseSkinNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	case PurchaseAlreadyOwned:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already owned"})
	case PurchaseInsufficientCoins:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":           "Not enough coins",
			"remaining_coins": remaining,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Purchase failed"})
}

// EquipEndpoint sets the caller's current skin.
func (s *SkinService) EquipEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		SkinID string `json:"skin_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, err := uuid.Parse(req.SkinID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skin ID"})
	}

	if err := s.SetCurrentSkin(userID, req.SkinID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skin equipped", "skin_id": req.SkinID})
}
