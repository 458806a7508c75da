package services

import (
	"github.com/esign-lab/esign-server/internal/models"
)

// ContactHook is notified after a contact-book record has been
// inserted. Hooks run on inserts only, never on updates. A hook error
// must not undo the insertion; callers log it and move on.
type ContactHook interface {
	Name() string
	OnContactCreated(actor *models.User, contact *models.Contact) error
}
