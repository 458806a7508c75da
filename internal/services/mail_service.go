package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Mail is one outbound email.
type Mail struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	SenderName     string `json:"sender_name"`
	ReplyTo        string `json:"reply_to"`
	HTML           string `json:"html"`
	OrganizationID uint   `json:"organization_id"` // sending-quota / branding scope
}

// Mailer is the outbound email capability. Delivery transport is an
// external collaborator; implementations must not retry on their own.
type Mailer interface {
	Send(mail Mail) error
}

type httpMailer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPMailer creates a Mailer that posts messages to a mail-delivery
// API endpoint.
func NewHTTPMailer(endpoint, apiKey string) Mailer {
	return &httpMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *httpMailer) Send(mail Mail) error {
	jsonData, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("failed to marshal mail: %w", err)
	}

	req, err := http.NewRequest("POST", m.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	return nil
}

type logMailer struct{}

// NewLogMailer creates a Mailer that only logs messages. Used when no
// mail API is configured.
func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) Send(mail Mail) error {
	log.Printf("mail (log only): to=%s subject=%q", mail.To, mail.Subject)
	return nil
}
