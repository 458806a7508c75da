package models

import (
	"time"
)

// Contact is a contact-book entry representing a known signer, owned by
// the user who added them. The logical key is (CreatedByID, Email)
// among non-deleted rows. The store does not enforce this atomically:
// two concurrent requests can insert the same pair, and callers resolve
// that by re-querying instead of failing (see ContactService.CreateOrGet).
type Contact struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Email       string    `gorm:"index;not null" json:"email"`
	Phone       string    `json:"phone"`
	CreatedByID uint      `gorm:"index;not null" json:"created_by_id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	IsDeleted   bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	CreatedBy User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	User      *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AccessGrant records a read/write grant on a contact for a principal.
// Grants are written by the contact linker; enforcement happens at the
// API layer via ownership checks, not here.
type AccessGrant struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContactID       uint      `gorm:"index;not null" json:"contact_id"`
	PrincipalUserID uint      `gorm:"index;not null" json:"principal_user_id"`
	Read            bool      `gorm:"default:false" json:"read"`
	Write           bool      `gorm:"default:false" json:"write"`
	CreatedAt       time.Time `json:"created_at"`
}
