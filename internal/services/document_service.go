package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when the requested template id does
// not resolve to a template.
var ErrTemplateNotFound = errors.New("template not found")

const (
	defaultTimeToCompleteDays = 15
	defaultRemindOnceInEvery  = 5
)

// SignerInput maps a template role to a signer.
type SignerInput struct {
	Role  string `json:"role" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

type CreateDocumentRequest struct {
	TemplateID uint          `json:"templateId" validate:"required"`
	Signers    []SignerInput `json:"signers" validate:"dive"`
	Title      string        `json:"title,omitempty"`
	WebhookURL string        `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// DocumentService materializes documents from templates
type DocumentService interface {
	CreateFromTemplate(creator *models.User, req CreateDocumentRequest) (*models.Document, error)
	GetDocumentByID(id string) (*models.Document, error)
}

type documentService struct {
	db             *gorm.DB
	contactService ContactService
	hookService    HookService
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(db *gorm.DB, contactService ContactService, hookService HookService) DocumentService {
	return &documentService{
		db:             db,
		contactService: contactService,
		hookService:    hookService,
	}
}

// CreateFromTemplate copies the template defaults into a new document,
// binds placeholders to the supplied signers by case-insensitive role
// match (first match wins, unmatched placeholders pass through
// unchanged), resolves or creates a contact per matched signer and
// persists the result. Notification and webhook delivery are the
// caller's trailing concern; a persisted document is never unwound by
// their failures.
func (s *documentService) CreateFromTemplate(creator *models.User, req CreateDocumentRequest) (*models.Document, error) {
	var template models.Template
	err := s.db.Preload("Organization").First(&template, req.TemplateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	name := req.Title
	if name == "" {
		name = template.Name
	}

	doc := &models.Document{
		ID:                 uuid.New().String(),
		Name:               name,
		Description:        template.Description,
		Note:               template.Note,
		URL:                template.URL,
		SignedUrl:          template.URL,
		TemplateID:         template.ID,
		OrganizationID:     template.OrganizationID,
		CreatedByID:        creator.ID,
		SendinOrder:        template.SendinOrder,
		AutomaticReminders: template.AutomaticReminders,
		RemindOnceInEvery:  positiveOrDefault(template.RemindOnceInEvery, defaultRemindOnceInEvery),
		TimeToCompleteDays: positiveOrDefault(template.TimeToCompleteDays, defaultTimeToCompleteDays),
		IsEnableOTP:        template.IsEnableOTP,
		IsTourEnabled:      template.IsTourEnabled,
		AllowModifications: template.AllowModifications,
		SignatureType:      template.SignatureType,
		NotifyOnSignatures: template.NotifyOnSignatures,
		Bcc:                template.Bcc,
		RedirectUrl:        template.RedirectUrl,
		DocSentAt:          time.Now(),
		WebhookURL:         req.WebhookURL,
		Status:             models.DocumentStatusSent,
	}

	placeholders := make(models.PlaceholderList, 0, len(template.Placeholders))
	signerIDs := models.UintList{}
	seen := map[uint]bool{}

	for _, placeholder := range template.Placeholders {
		signer := matchSigner(req.Signers, placeholder.Role)
		if signer == nil {
			placeholders = append(placeholders, placeholder)
			continue
		}

		placeholder.Email = signer.Email
		if contactID := s.resolveContact(creator, signer); contactID != 0 {
			placeholder.SignerObjID = contactID
			if !seen[contactID] {
				seen[contactID] = true
				signerIDs = append(signerIDs, contactID)
			}
		}
		placeholders = append(placeholders, placeholder)
	}

	doc.Placeholders = placeholders
	doc.Signers = signerIDs

	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *documentService) GetDocumentByID(id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.Preload("Organization").Preload("CreatedBy").Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// resolveContact creates or reuses a contact for the signer under the
// creator's ownership. A zero return means no contact could be
// obtained; the placeholder then keeps only the email and link
// generation degrades to the encoded-token form.
func (s *documentService) resolveContact(creator *models.User, signer *SignerInput) uint {
	contactName := signer.Name
	if contactName == "" {
		contactName = signer.Email
	}

	contact := &models.Contact{
		Name:        contactName,
		Email:       signer.Email,
		CreatedByID: creator.ID,
	}

	outcome, err := s.contactService.CreateOrGet(contact)
	if err != nil {
		// One reactive fallback: someone else may have inserted the
		// contact between the check and the create.
		existing, ferr := s.contactService.FindByOwnerAndEmail(creator.ID, signer.Email)
		if ferr != nil {
			log.Printf("document service: could not resolve contact for %s: %v", signer.Email, err)
			return 0
		}
		return existing.ID
	}

	if outcome == OutcomeCreated && s.hookService != nil {
		if herr := s.hookService.OnContactCreated(creator, contact); herr != nil {
			log.Printf("document service: contact hook failed for %s: %v", signer.Email, herr)
		}
	}

	return contact.ID
}

// matchSigner returns the first signer whose role equals the
// placeholder role case-insensitively.
func matchSigner(signers []SignerInput, role string) *SignerInput {
	for i := range signers {
		if strings.EqualFold(signers[i].Role, role) {
			return &signers[i]
		}
	}
	return nil
}

func positiveOrDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
