package services

import (
	"errors"

	"github.com/esign-lab/esign-server/internal/models"
	"gorm.io/gorm"
)

// CreateOutcome reports how a create-or-fetch operation resolved,
// replacing error-code inspection at call sites.
type CreateOutcome int

const (
	OutcomeCreated CreateOutcome = iota
	OutcomeAlreadyExists
	OutcomeFailed
)

// ContactService handles contact-book records. The (owner, email) pair
// is a logical key among non-deleted rows only; the store does not
// enforce it atomically, so CreateOrGet is a check-then-create with a
// single reactive re-query. A narrow race window remains in which two
// contacts for the same pair can be inserted concurrently. That
// matches the system this replaces and is deliberately not papered
// over with a unique index.
type ContactService interface {
	CreateOrGet(contact *models.Contact) (CreateOutcome, error)
	FindByOwnerAndEmail(ownerID uint, email string) (*models.Contact, error)
	GetContactByID(id uint) (*models.Contact, error)
	Save(contact *models.Contact) error
}

type contactService struct {
	db *gorm.DB
}

// NewContactService creates a new ContactService
func NewContactService(db *gorm.DB) ContactService {
	return &contactService{db: db}
}

// CreateOrGet inserts the contact unless a non-deleted contact with the
// same owner and email already exists. On OutcomeAlreadyExists the
// existing record is loaded into contact.
func (s *contactService) CreateOrGet(contact *models.Contact) (CreateOutcome, error) {
	existing, err := s.FindByOwnerAndEmail(contact.CreatedByID, contact.Email)
	if err == nil {
		*contact = *existing
		return OutcomeAlreadyExists, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeFailed, err
	}

	if cerr := s.db.Create(contact).Error; cerr != nil {
		if errors.Is(cerr, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent insert; treat the winner
			// as the canonical record.
			winner, qerr := s.FindByOwnerAndEmail(contact.CreatedByID, contact.Email)
			if qerr != nil {
				return OutcomeFailed, qerr
			}
			*contact = *winner
			return OutcomeAlreadyExists, nil
		}
		return OutcomeFailed, cerr
	}

	return OutcomeCreated, nil
}

func (s *contactService) FindByOwnerAndEmail(ownerID uint, email string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.
		Where("created_by_id = ? AND email = ? AND is_deleted = ?", ownerID, email, false).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) GetContactByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.First(&contact, id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) Save(contact *models.Contact) error {
	return s.db.Save(contact).Error
}
