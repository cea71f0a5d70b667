package services

import (
	"encoding/base64"
	"fmt"

	"numyp-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListSpotsEndpoint serves the map view. lat/lng/radius are accepted
// for forward compatibility but not used for filtering.
func (s *SpotService) ListSpotsEndpoint(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	spots, err := s.ListSpots(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(spots)
}

// GetSpotEndpoint serves the detail view for a tapped pin.
func (s *SpotService) GetSpotEndpoint(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid spot ID"})
	}

	spot, err := s.GetSpot(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(spot)
}

// CreateSpotEndpoint creates a spot and grants the posting reward.
// An attached image is uploaded to R2 first; if the upload fails,
// nothing is written.
func (s *SpotService) CreateSpotEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Lat         float64           `json:"lat"`
		Lng         float64           `json:"lng"`
		Title       string            `json:"title"`
		Description *string           `json:"description"`
		ImageBase64 *string           `json:"image_base64"`
		CrowdLevel  models.CrowdLevel `json:"crowd_level"`
		Rating      int               `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || len(req.Title) > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required (max 50 chars)"})
	}

	var imageURL *string
	if req.ImageBase64 != nil && *req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(*req.ImageBase64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid image_base64"})
		}
		key := fmt.Sprintf("spots/%s.jpg", uuid.NewString())
		url, err := s.Storage.Upload(c.Context(), data, key, "image/jpeg")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
		}
		imageURL = &url
	}

	spot, err := s.CreateSpotWithReward(userID, CreateSpotInput{
		Latitude:    req.Lat,
		Longitude:   req.Lng,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		CrowdLevel:  req.CrowdLevel,
		Rating:      req.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(spot)
}

// UpdateSpotEndpoint applies author edits.
func (s *SpotService) UpdateSpotEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid spot ID"})
	}

	var req struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		CrowdLevel  *models.CrowdLevel `json:"crowd_level"`
		Rating      *int               `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	spot, err := s.UpdateSpot(id, userID, UpdateSpotInput{
		Title:       req.Title,
		Description: req.Description,
		CrowdLevel:  req.CrowdLevel,
		Rating:      req.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(spot)
}

// DeleteSpotEndpoint removes the author's spot.
func (s *SpotService) DeleteSpotEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid spot ID"})
	}

	if err := s.DeleteSpot(id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Spot deleted successfully"})
}
