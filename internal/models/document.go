package models

import (
	"time"
)

type DocumentStatus string

const (
	DocumentStatusDraft DocumentStatus = "draft"
	DocumentStatusSent  DocumentStatus = "sent"
)

// Document is a concrete signing request instantiated from a template
// for specific signers. It copies the template defaults at creation
// time; the template is never mutated afterwards.
//
// Invariants: SignedUrl starts equal to the template's URL;
// TimeToCompleteDays and RemindOnceInEvery are non-negative, defaulting
// to 15 and 5 when the template leaves them unset.
type Document struct {
	ID                 string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name               string          `gorm:"not null" json:"name"`
	Description        string          `json:"description"`
	Note               string          `json:"note"`
	URL                string          `json:"url"`
	SignedUrl          string          `json:"signed_url"`
	TemplateID         uint            `gorm:"index;not null" json:"template_id"`
	OrganizationID     uint            `gorm:"index" json:"organization_id"`
	CreatedByID        uint            `gorm:"index;not null" json:"created_by_id"`
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
	Signers            UintList        `gorm:"type:text" json:"signers"` // deduplicated contact ids
	DocSentAt          time.Time       `json:"doc_sent_at"`
	WebhookURL         string          `json:"webhook_url,omitempty"`
	Status             DocumentStatus  `gorm:"default:draft" json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Template     Template     `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
