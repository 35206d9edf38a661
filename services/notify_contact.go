package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for the Resend API.
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents a successful response from the Resend API.
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from the Resend API.
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ContactNotifier emails the studio a copy of each incoming contact request
// through Resend. Notification delivery is best effort and never blocks the
// request from being recorded.
type ContactNotifier struct {
	apiKey     string
	fromEmail  string
	toEmail    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewContactNotifier returns a notifier, or nil when the Resend configuration
// is absent so callers can skip notification entirely.
func NewContactNotifier(apiKey, fromEmail, toEmail string) *ContactNotifier {
	if apiKey == "" || fromEmail == "" || toEmail == "" {
		log.Warn().Msg("Resend configuration incomplete, contact notifications disabled")
		return nil
	}
	return &ContactNotifier{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		toEmail:    toEmail,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log.With().Str("serviceName", "contactNotifier").Logger(),
	}
}

// Notify sends the studio a copy of one contact request.
func (n *ContactNotifier) Notify(request models.ContactRequest) error {
	payload := ResendEmailRequest{
		From:    n.fromEmail,
		To:      []string{n.toEmail},
		Subject: fmt.Sprintf("Nouveau message de %s", request.Nom),
		Html: fmt.Sprintf(
			"<p><strong>Nom :</strong> %s</p><p><strong>Email :</strong> %s</p><p>%s</p>",
			html.EscapeString(request.Nom),
			html.EscapeString(request.Email),
			html.EscapeString(request.Message),
		),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest("POST", resendEndpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		n.logger.Info().Str("emailId", emailResponse.ID).Msg("Sent contact notification via Resend")
	}
	return nil
}
