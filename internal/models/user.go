package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can own contacts, templates and documents.
// Accounts are created lazily for signers: the contact linker provisions
// one with username = email and password = email, which mirrors the
// platform this service replaces. Those accounts are expected to reset
// their password on first login.
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Sub               string         `gorm:"index;type:varchar(255)" json:"sub,omitempty"` // external auth subject
	Name              string         `json:"name"`
	Username          string         `gorm:"uniqueIndex;not null" json:"username"`
	Email             string         `gorm:"index;not null" json:"email"`
	Password          string         `json:"-"`
	Phone             string         `json:"phone"`
	ProfilePic        string         `json:"profile_pic"`
	MailDisplaySender string         `json:"mail_display_sender"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Organization is the tenant-level settings scope. A non-empty
// EmailSubject/EmailBody pair overrides the built-in signing
// notification template for every document sent under this tenant.
type Organization struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	EmailSubject string    `gorm:"type:text" json:"email_subject"`
	EmailBody    string    `gorm:"type:text" json:"email_body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
