package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookEvent is the payload posted to a caller-supplied webhook URL
// when a document is sent.
type WebhookEvent struct {
	Event      string `json:"event"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
}

// WebhookService delivers best-effort document events. One POST, no
// retry, no signature; the timeout bounds the enclosing request's tail
// work.
type WebhookService interface {
	NotifySent(url, documentID string) error
}

type webhookService struct {
	client *http.Client
}

// NewWebhookService creates a new WebhookService
func NewWebhookService() WebhookService {
	return &webhookService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *webhookService) NotifySent(url, documentID string) error {
	event := WebhookEvent{
		Event:      "sent",
		DocumentID: documentID,
		Status:     "sent",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
