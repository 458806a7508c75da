package hooks

import (
	"errors"
	"log"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/esign-lab/esign-server/internal/services"
	"gorm.io/gorm"
)

// ContactLinkerHook links a freshly inserted contact to a user account.
// If the contact carries no UserID, an account is looked up by email
// and provisioned when missing. Linking failures are logged and leave
// the contact unlinked; the original insertion is never rolled back.
type ContactLinkerHook struct {
	db          *gorm.DB
	userService services.UserService
}

func NewContactLinkerHook(db *gorm.DB, userService services.UserService) services.ContactHook {
	return &ContactLinkerHook{
		db:          db,
		userService: userService,
	}
}

// Name implements ContactHook.
func (h *ContactLinkerHook) Name() string {
	return "contact-linker"
}

// OnContactCreated implements ContactHook.
func (h *ContactLinkerHook) OnContactCreated(actor *models.User, contact *models.Contact) error {
	if contact.UserID != nil {
		if err := h.grantAccess(actor, contact, *contact.UserID); err != nil {
			return err
		}
		contact.IsDeleted = false
		return h.db.Save(contact).Error
	}

	user, err := h.userService.GetUserByEmail(contact.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if user == nil {
		// Provision an account for the signer. Username and password
		// default to the email, matching the platform this replaces.
		created := &models.User{
			Name:     contact.Name,
			Username: contact.Email,
			Email:    contact.Email,
			Password: contact.Email,
			Phone:    contact.Phone,
		}
		outcome, cerr := h.userService.CreateUser(created)
		if cerr != nil {
			// Degraded but non-fatal: the contact stays unlinked.
			log.Printf("contact linker: failed to create user for %s: %v", contact.Email, cerr)
			return nil
		}
		if outcome == services.OutcomeAlreadyExists {
			log.Printf("contact linker: user for %s created concurrently, linking to existing account %d", contact.Email, created.ID)
		}
		user = created
	}

	contact.UserID = &user.ID
	if err := h.grantAccess(actor, contact, user.ID); err != nil {
		return err
	}
	return h.db.Save(contact).Error
}

// grantAccess records read/write grants on the contact for the acting
// principal and the linked user.
func (h *ContactLinkerHook) grantAccess(actor *models.User, contact *models.Contact, linkedUserID uint) error {
	principals := []uint{linkedUserID}
	if actor != nil && actor.ID != linkedUserID {
		principals = append(principals, actor.ID)
	}

	for _, principalID := range principals {
		grant := &models.AccessGrant{
			ContactID:       contact.ID,
			PrincipalUserID: principalID,
			Read:            true,
			Write:           true,
		}
		if err := h.db.Create(grant).Error; err != nil {
			return err
		}
	}
	return nil
}
