package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EmailService sends transactional mail through an HTTP API. It is only
// ever invoked from the notification side channel, so callers treat every
// error as log-and-continue.
type EmailService struct {
	Endpoint string
	APIKey   string
	From     string
	Client   *http.Client
}

func NewEmailService(endpoint, apiKey, from string) *EmailService {
	return &EmailService{
		Endpoint: endpoint,
		APIKey:   apiKey,
		From:     from,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s.Endpoint == "" {
		return fmt.Errorf("email endpoint is not configured")
	}

	form := url.Values{}
	form.Set("from", s.From)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("html", htmlBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		// Some providers reply with an empty body on success.
		return nil
	}
	if result.Status != "" && result.Status != "ok" && result.Status != "queued" {
		return fmt.Errorf("mail API rejected message: %s", result.Message)
	}
	return nil
}
