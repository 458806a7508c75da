package server

import (
	"log"

	"github.com/esign-lab/esign-server/internal/hooks"
	"github.com/esign-lab/esign-server/internal/services"
	"github.com/esign-lab/esign-server/internal/utils"
	"gorm.io/gorm"
)

func InitializeServices(db *gorm.DB, mailer services.Mailer, linkMode utils.SigningLinkMode) (
	services.UserService,
	services.ContactService,
	services.TemplateService,
	services.DocumentService,
	services.NotificationService,
	services.WebhookService,
	services.HookService,
) {
	userService := services.NewUserService(db)
	contactService := services.NewContactService(db)
	templateService := services.NewTemplateService(db)
	hookService := services.NewHookService()
	documentService := services.NewDocumentService(db, contactService, hookService)
	notificationService := services.NewNotificationService(db, mailer, linkMode)
	webhookService := services.NewWebhookService()

	return userService, contactService, templateService, documentService, notificationService, webhookService, hookService
}

func InitializeHooks(db *gorm.DB, userService services.UserService) services.ContactHook {
	return hooks.NewContactLinkerHook(db, userService)
}

func RegisterHooks(hookService services.HookService, contactLinkerHook services.ContactHook) {
	if err := hookService.AddHook(contactLinkerHook); err != nil {
		log.Fatal("Failed to register contact linker hook:", err)
	}
}
