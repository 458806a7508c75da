package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/esign-lab/esign-server/internal/utils"
	"gorm.io/gorm"
)

const defaultEmailSubject = `{{sender_name}} has requested your signature on "{{document_title}}"`

const defaultEmailBody = `<p>Hi {{receiver_name}},</p>
<p>{{sender_name}} ({{sender_mail}}) has requested you to review and sign <strong>{{document_title}}</strong>.</p>
<p><a href="{{signing_url}}">Review &amp; sign document</a></p>
<p>This request expires on {{expiry_date}}.</p>`

// emailWrapper is the outer HTML shell around the (tenant or default)
// body template.
const emailWrapper = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #1f2933; margin: 0; padding: 24px;">
<div style="max-width: 600px; margin: 0 auto;">
{{.Body}}
</div>
</body>
</html>`

// NotificationService sends signing-request emails for a document. When
// the document uses sequential signing only the first resolved signer
// is notified; the rest get theirs as earlier signers complete.
type NotificationService interface {
	NotifySigners(doc *models.Document, publicURL string) error
}

type notificationService struct {
	db       *gorm.DB
	mailer   Mailer
	linkMode utils.SigningLinkMode
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(db *gorm.DB, mailer Mailer, linkMode utils.SigningLinkMode) NotificationService {
	return &notificationService{
		db:       db,
		mailer:   mailer,
		linkMode: linkMode,
	}
}

// NotifySigners emails every resolved signer of the document. The first
// delivery error aborts the batch; already-sent mails stand and the
// caller decides whether to surface or swallow the error.
func (s *notificationService) NotifySigners(doc *models.Document, publicURL string) error {
	var sender models.User
	if err := s.db.First(&sender, doc.CreatedByID).Error; err != nil {
		return fmt.Errorf("failed to load sender: %w", err)
	}

	senderName := sender.MailDisplaySender
	if senderName == "" {
		senderName = sender.Name
	}

	var org models.Organization
	if doc.OrganizationID != 0 {
		// Missing tenant settings just mean the default template.
		s.db.First(&org, doc.OrganizationID)
	}

	recipients := resolvedSigners(doc.Placeholders)
	if doc.SendinOrder && len(recipients) > 1 {
		recipients = recipients[:1]
	}

	expiry := doc.DocSentAt.AddDate(0, 0, doc.TimeToCompleteDays).Format("January 2, 2006")

	for _, placeholder := range recipients {
		receiverName := placeholder.Email
		receiverPhone := ""
		if placeholder.SignerObjID != 0 {
			var contact models.Contact
			if err := s.db.First(&contact, placeholder.SignerObjID).Error; err == nil {
				if contact.Name != "" {
					receiverName = contact.Name
				}
				receiverPhone = contact.Phone
			}
		}

		signingURL, err := utils.BuildSigningLink(s.linkMode, publicURL, doc.ID, placeholder.Email, placeholder.SignerObjID)
		if err != nil {
			return err
		}

		vars := map[string]string{
			"document_title": doc.Name,
			"note":           doc.Note,
			"sender_name":    senderName,
			"sender_mail":    sender.Email,
			"sender_phone":   sender.Phone,
			"receiver_name":  receiverName,
			"receiver_email": placeholder.Email,
			"receiver_phone": receiverPhone,
			"expiry_date":    expiry,
			"company_name":   org.Name,
			"signing_url":    signingURL,
		}

		subject := defaultEmailSubject
		body := defaultEmailBody
		if org.EmailSubject != "" && org.EmailBody != "" {
			subject = org.EmailSubject
			body = org.EmailBody
		}

		html, err := renderEmailHTML(substituteVariables(body, vars))
		if err != nil {
			return err
		}

		mail := Mail{
			To:             placeholder.Email,
			Subject:        substituteVariables(subject, vars),
			SenderName:     senderName,
			ReplyTo:        sender.Email,
			HTML:           html,
			OrganizationID: doc.OrganizationID,
		}
		if err := s.mailer.Send(mail); err != nil {
			return fmt.Errorf("failed to send signing request to %s: %w", placeholder.Email, err)
		}
	}

	return nil
}

// resolvedSigners returns the placeholders that were bound to an email,
// in placeholder order.
func resolvedSigners(placeholders models.PlaceholderList) []models.Placeholder {
	resolved := make([]models.Placeholder, 0, len(placeholders))
	for _, p := range placeholders {
		if p.Email != "" {
			resolved = append(resolved, p)
		}
	}
	return resolved
}

// substituteVariables replaces {{name}} markers in a tenant or default
// template with their values.
func substituteVariables(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func renderEmailHTML(body string) (string, error) {
	tmpl, err := template.New("email").Parse(emailWrapper)
	if err != nil {
		return "", fmt.Errorf("failed to parse email wrapper: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{"Body": template.HTML(body)}); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
