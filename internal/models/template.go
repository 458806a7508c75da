package models

import (
	"time"

	"gorm.io/gorm"
)

// Template is a reusable document definition owned by an organization.
// The document workflow only ever reads templates.
type Template struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"not null" json:"name"`
	Description        string          `json:"description"`
	Note               string          `json:"note"`
	URL                string          `json:"url"`
	OrganizationID     uint            `gorm:"index;not null" json:"organization_id"`
	CreatedByID        uint            `gorm:"index" json:"created_by_id"`
	SendinOrder        bool            `gorm:"default:false" json:"sendin_order"`
	AutomaticReminders bool            `gorm:"default:false" json:"automatic_reminders"`
	RemindOnceInEvery  int             `json:"remind_once_in_every"`
	TimeToCompleteDays int             `json:"time_to_complete_days"`
	IsEnableOTP        bool            `gorm:"default:false" json:"is_enable_otp"`
	IsTourEnabled      bool            `gorm:"default:false" json:"is_tour_enabled"`
	AllowModifications bool            `gorm:"default:false" json:"allow_modifications"`
	SignatureType      string          `json:"signature_type,omitempty"`
	NotifyOnSignatures bool            `gorm:"default:false" json:"notify_on_signatures"`
	Bcc                string          `json:"bcc,omitempty"`
	RedirectUrl        string          `json:"redirect_url,omitempty"`
	Placeholders       PlaceholderList `gorm:"type:text" json:"placeholders"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
