package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// SignupEndpoint registers a new account.
func (s *AuthService) SignupEndpoint(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Username == "" || len(req.Username) > 50 || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	user, err := s.Signup(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username already registered"})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("User %s created successfully", user.Username),
	})
}

// LoginEndpoint exchanges credentials for a bearer token.
func (s *AuthService) LoginEndpoint(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, err := s.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Incorrect username or password"})
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// MeEndpoint returns the authenticated user's profile.
func (s *AuthService) MeEndpoint(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	user, err := s.Me(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"icon_url": user.IconURL,
		"wallet": fiber.Map{
			"coins": user.Coins,
		},
		"current_skin": user.CurrentSkin,
	})
}
