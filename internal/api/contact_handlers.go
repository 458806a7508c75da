package api

import (
	"log"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/esign-lab/esign-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CreateContactRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone,omitempty"`
	UserID *uint  `json:"userId,omitempty"`
}

// handleCreateContact inserts a contact-book record and then runs the
// registered after-create hooks (the contact linker among them). Hook
// failures are logged and never fail the insertion.
func (s *APIServer) handleCreateContact(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	var req CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	contact := &models.Contact{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedByID: user.ID,
		UserID:      req.UserID,
	}

	outcome, err := s.contactService.CreateOrGet(contact)
	if err != nil {
		log.Printf("Error creating contact: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create contact",
		})
	}

	if outcome == services.OutcomeCreated {
		if herr := s.hookService.OnContactCreated(user, contact); herr != nil {
			log.Printf("Error running contact hooks for %s: %v", contact.Email, herr)
		}
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"objectId": contact.ID,
		"data":     contact,
	})
}
