package services

import (
	"errors"

	"github.com/esign-lab/esign-server/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdate carries a partial update to a user profile. Nil fields
// are left untouched; only keys the caller explicitly sent may be set,
// so an omitted field never overwrites an existing value.
type ProfileUpdate struct {
	Name              *string `json:"name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	ProfilePic        *string `json:"ProfilePic,omitempty"`
	MailDisplaySender *string `json:"mailDisplaySender,omitempty"`
}

// UserService handles account lookup, lazy provisioning and profile updates
type UserService interface {
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) (CreateOutcome, error)
	GetOrCreateByEmail(email, name string) (*models.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user. When the username is already taken (a
// concurrent request provisioned the same account) the existing record
// is loaded into user and OutcomeAlreadyExists is returned instead of
// an error.
func (s *userService) CreateUser(user *models.User) (CreateOutcome, error) {
	err := s.db.Create(user).Error
	if err == nil {
		return OutcomeCreated, nil
	}

	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return OutcomeFailed, err
	}

	var existing models.User
	if qerr := s.db.Where("username = ?", user.Username).First(&existing).Error; qerr != nil {
		return OutcomeFailed, qerr
	}
	*user = existing
	return OutcomeAlreadyExists, nil
}

// GetOrCreateByEmail resolves an account for the given email,
// provisioning one with username = email and password = email when none
// exists. This is the lazy-provisioning path used for authenticated
// principals and for signers added through the contact book.
func (s *userService) GetOrCreateByEmail(email, name string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.User{
		Name:     name,
		Username: email,
		Email:    email,
		Password: email,
	}
	if _, cerr := s.CreateUser(created); cerr != nil {
		return nil, cerr
	}
	return created, nil
}

// UpdateProfile applies the non-nil fields of update and returns the
// updated snapshot.
func (s *userService) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.ProfilePic != nil {
		updates["profile_pic"] = *update.ProfilePic
	}
	if update.MailDisplaySender != nil {
		updates["mail_display_sender"] = *update.MailDisplaySender
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}
