package api

import (
	"log"

	"github.com/esign-lab/esign-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// handleUpdateProfile applies a partial update to the authenticated
// user's profile. Fields absent from the request body are left alone;
// only explicitly sent values (including empty strings) are written.
func (s *APIServer) handleUpdateProfile(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := s.userService.UpdateProfile(user.ID, update)
	if err != nil {
		log.Printf("Error updating profile for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user profile",
		})
	}

	return c.JSON(updated)
}
