package api

import (
	"errors"
	"log"

	"github.com/esign-lab/esign-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// handleCreateDocument materializes a document from a template and
// kicks off the trailing notification and webhook work. Once the
// document is persisted the response is a success regardless of what
// happens to email or webhook delivery.
func (s *APIServer) handleCreateDocument(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	var req services.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.TemplateID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing templateId",
		})
	}

	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	doc, err := s.documentService.CreateFromTemplate(user, req)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Template not found",
			})
		}
		log.Printf("Error creating document: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create document: " + err.Error(),
		})
	}

	if publicURL := c.Get("public_url"); publicURL != "" {
		if nerr := s.notificationService.NotifySigners(doc, publicURL); nerr != nil {
			log.Printf("Error notifying signers for document %s: %v", doc.ID, nerr)
		}
	} else {
		log.Printf("public_url header missing, skipping signer notification for document %s", doc.ID)
	}

	if doc.WebhookURL != "" {
		go func(url, id string) {
			if werr := s.webhookService.NotifySent(url, id); werr != nil {
				log.Printf("Error delivering webhook for document %s: %v", id, werr)
			}
		}(doc.WebhookURL, doc.ID)
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"objectId": doc.ID,
		"data":     doc,
	})
}

func (s *APIServer) handleGetDocument(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	doc, err := s.documentService.GetDocumentByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		log.Printf("Error getting document %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load document",
		})
	}

	if doc.CreatedByID != user.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}

	return c.JSON(doc)
}
