package api

import (
	"errors"
	"log"
	"strconv"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTemplateRequest struct {
	Name               string                 `json:"name" validate:"required"`
	Description        string                 `json:"description,omitempty"`
	Note               string                 `json:"note,omitempty"`
	URL                string                 `json:"url,omitempty"`
	OrganizationID     uint                   `json:"organizationId" validate:"required"`
	SendinOrder        bool                   `json:"sendinOrder,omitempty"`
	AutomaticReminders bool                   `json:"automaticReminders,omitempty"`
	RemindOnceInEvery  int                    `json:"remindOnceInEvery,omitempty"`
	TimeToCompleteDays int                    `json:"timeToCompleteDays,omitempty"`
	IsEnableOTP        bool                   `json:"isEnableOTP,omitempty"`
	IsTourEnabled      bool                   `json:"isTourEnabled,omitempty"`
	AllowModifications bool                   `json:"allowModifications,omitempty"`
	SignatureType      string                 `json:"signatureType,omitempty"`
	NotifyOnSignatures bool                   `json:"notifyOnSignatures,omitempty"`
	Bcc                string                 `json:"bcc,omitempty"`
	RedirectUrl        string                 `json:"redirectUrl,omitempty"`
	Placeholders       models.PlaceholderList `json:"placeholders,omitempty"`
}

func (s *APIServer) handleCreateTemplate(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	var req CreateTemplateRequest
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

	template := &models.Template{
		Name:               req.Name,
		Description:        req.Description,
		Note:               req.Note,
		URL:                req.URL,
		OrganizationID:     req.OrganizationID,
		CreatedByID:        user.ID,
		SendinOrder:        req.SendinOrder,
		AutomaticReminders: req.AutomaticReminders,
		RemindOnceInEvery:  req.RemindOnceInEvery,
		TimeToCompleteDays: req.TimeToCompleteDays,
		IsEnableOTP:        req.IsEnableOTP,
		IsTourEnabled:      req.IsTourEnabled,
		AllowModifications: req.AllowModifications,
		SignatureType:      req.SignatureType,
		NotifyOnSignatures: req.NotifyOnSignatures,
		Bcc:                req.Bcc,
		RedirectUrl:        req.RedirectUrl,
		Placeholders:       req.Placeholders,
	}

	if err := s.templateService.CreateTemplate(template); err != nil {
		log.Printf("Error creating template: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create template",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"objectId": template.ID,
		"data":     template,
	})
}

func (s *APIServer) handleGetTemplate(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template id",
		})
	}

	template, err := s.templateService.GetTemplateByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Template not found",
			})
		}
		log.Printf("Error getting template %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load template",
		})
	}

	return c.JSON(template)
}

func (s *APIServer) handleListTemplates(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	organizationID, _ := strconv.ParseUint(c.Query("organizationId", "0"), 10, 32)
	limit := c.QueryInt("limit", 0)

	templates, err := s.templateService.ListTemplates(uint(organizationID), c.Query("keyword"), limit)
	if err != nil {
		log.Printf("Error listing templates: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list templates",
		})
	}

	return c.JSON(templates)
}
