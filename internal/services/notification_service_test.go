package services

import (
	"errors"
	"testing"
	"time"

	"github.com/esign-lab/esign-server/internal/models"
	"github.com/esign-lab/esign-server/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Mail
	fail bool
}

func (m *recordingMailer) Send(mail Mail) error {
	if m.fail {
		return errors.New("mail API unavailable")
	}
	m.sent = append(m.sent, mail)
	return nil
}

func TestNotificationService(t *testing.T) {
	dbService := setupTestDB(t)
	db := dbService.GetDB()

	org := &models.Organization{Name: "Acme Corp"}
	require.NoError(t, db.Create(org).Error)

	sender := &models.User{Name: "Sender", Username: "sender@x.com", Email: "sender@x.com", Password: "sender@x.com", Phone: "111"}
	require.NoError(t, db.Create(sender).Error)

	contact := &models.Contact{Name: "Alice", Email: "alice@x.com", Phone: "222", CreatedByID: sender.ID}
	require.NoError(t, db.Create(contact).Error)

	baseDoc := func() *models.Document {
		return &models.Document{
			ID:                 "doc-1",
			Name:               "NDA",
			Note:               "Please review",
			OrganizationID:     org.ID,
			CreatedByID:        sender.ID,
			TimeToCompleteDays: 15,
			DocSentAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Placeholders: models.PlaceholderList{
				{Role: "signer1", Email: "alice@x.com", SignerObjID: contact.ID},
				{Role: "signer2", Email: "bob@x.com"},
				{Role: "signer3"}, // unresolved, no email
			},
		}
	}

	t.Run("NotifiesEveryResolvedSigner", func(t *testing.T) {
		mailer := &recordingMailer{}
		service := NewNotificationService(db, mailer, utils.SigningLinkDirect)

		err := service.NotifySigners(baseDoc(), "https://app.x.com")
		require.NoError(t, err)
		require.Len(t, mailer.sent, 2)

		assert.Equal(t, "alice@x.com", mailer.sent[0].To)
		assert.Equal(t, "bob@x.com", mailer.sent[1].To)
		assert.Equal(t, "sender@x.com", mailer.sent[0].ReplyTo)
		assert.Equal(t, org.ID, mailer.sent[0].OrganizationID)
		assert.Contains(t, mailer.sent[0].Subject, "NDA")

		// Alice has a contact record, so she gets the direct link.
		assert.Contains(t, mailer.sent[0].HTML, "/load/recipientSignPdf/doc-1/")
		// Bob has no contact id and degrades to the login token.
		assert.Contains(t, mailer.sent[1].HTML, "/login/")
	})

	t.Run("SequentialSigningNotifiesOnlyFirstSigner", func(t *testing.T) {
		mailer := &recordingMailer{}
		service := NewNotificationService(db, mailer, utils.SigningLinkDirect)

		doc := baseDoc()
		doc.SendinOrder = true
		err := service.NotifySigners(doc, "https://app.x.com")
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "alice@x.com", mailer.sent[0].To)
	})

	t.Run("ExpiryDateUsesTimeToComplete", func(t *testing.T) {
		mailer := &recordingMailer{}
		service := NewNotificationService(db, mailer, utils.SigningLinkDirect)

		require.NoError(t, service.NotifySigners(baseDoc(), "https://app.x.com"))
		// March 1 + 15 days
		assert.Contains(t, mailer.sent[0].HTML, "March 16, 2026")
	})

	t.Run("TenantTemplateOverridesDefault", func(t *testing.T) {
		tenant := &models.Organization{
			Name:         "Tenant Inc",
			EmailSubject: "Signature needed: {{document_title}}",
			EmailBody:    "<p>{{receiver_name}}, {{sender_name}} from {{company_name}} needs your signature before {{expiry_date}}: {{signing_url}}</p>",
		}
		require.NoError(t, db.Create(tenant).Error)

		mailer := &recordingMailer{}
		service := NewNotificationService(db, mailer, utils.SigningLinkDirect)

		doc := baseDoc()
		doc.OrganizationID = tenant.ID
		require.NoError(t, service.NotifySigners(doc, "https://app.x.com"))

		require.Len(t, mailer.sent, 2)
		assert.Equal(t, "Signature needed: NDA", mailer.sent[0].Subject)
		assert.Contains(t, mailer.sent[0].HTML, "Alice, Sender from Tenant Inc needs your signature")
	})

	t.Run("MailerFailureAbortsButLeavesSentMailStanding", func(t *testing.T) {
		mailer := &recordingMailer{fail: true}
		service := NewNotificationService(db, mailer, utils.SigningLinkDirect)

		err := service.NotifySigners(baseDoc(), "https://app.x.com")
		assert.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("LoginTokenMode", func(t *testing.T) {
		mailer := &recordingMailer{}
		service := NewNotificationService(db, mailer, utils.SigningLinkLoginToken)

		require.NoError(t, service.NotifySigners(baseDoc(), "https://app.x.com"))
		assert.Contains(t, mailer.sent[0].HTML, "/login/")
		assert.NotContains(t, mailer.sent[0].HTML, "/load/recipientSignPdf/")
	})
}
