// Package mailer delivers rendered newsletters through the Resend API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	sendTimeout    = 30 * time.Second

	// DefaultFrom is used when no sender is configured.
	DefaultFrom = "CreatorPulse <newsletter@resend.dev>"
)

// SendResult reports a confirmed transport success.
type SendResult struct {
	ID         string
	Recipients int
}

// ResendClient is a thin JSON-over-HTTP client for the Resend email API.
type ResendClient struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewResendClient(apiKey, from string) *ResendClient {
	if from == "" {
		from = DefaultFrom
	}
	return &ResendClient{
		endpoint:   resendEndpoint,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts one email to the given recipients. The markdown source rides
// along as the plain-text fallback. Success means Resend accepted the
// message; anything else is an error and must not advance last_sent_at.
func (c *ResendClient) Send(ctx context.Context, to []string, subject, htmlBody, textBody string) (*SendResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("resend: API key not configured")
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("resend: no recipients")
	}

	body, err := json.Marshal(resendRequest{
		From:    c.from,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("resend returned status %d: %s", resp.StatusCode, detail)
	}

	var parsed resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("resend response decode: %w", err)
	}

	return &SendResult{
		ID:         parsed.ID,
		Recipients: len(to),
	}, nil
}
