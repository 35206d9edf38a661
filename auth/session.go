package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/errs"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// SessionTTL is how long a minted admin session stays valid. Firebase caps
// session cookies at two weeks.
const SessionTTL = 14 * 24 * time.Hour

// signInRequest represents the request payload for the Identity Toolkit
// password sign-in endpoint
type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// signInResponse represents the response from the Identity Toolkit endpoint
type signInResponse struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
}

// Sessions is the identity client for the single admin principal: password
// sign-in through the Identity Toolkit REST API, session cookies minted and
// verified through the Admin SDK.
type Sessions struct {
	client     *fbauth.Client
	apiKey     string
	httpClient *http.Client
}

func NewSessions(client *fbauth.Client, apiKey string) *Sessions {
	return &Sessions{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SignIn exchanges the admin credentials for a session cookie. Bad
// credentials come back as a single generic error regardless of whether the
// email or the password was wrong.
func (s *Sessions) SignIn(ctx context.Context, email, password string) (string, error) {
	payload := signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sign-in payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInEndpoint+"?key="+s.apiKey, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach identity service: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read identity service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The endpoint reports EMAIL_NOT_FOUND vs INVALID_PASSWORD; both
		// collapse to the same generic error on purpose.
		log.Warn().Int("status", resp.StatusCode).Msg("admin sign-in rejected")
		return "", errs.NewInvalidCredentialsError()
	}

	var signIn signInResponse
	if err := json.Unmarshal(bodyBytes, &signIn); err != nil {
		return "", fmt.Errorf("failed to parse identity service response: %w", err)
	}

	cookie, err := s.client.SessionCookie(ctx, signIn.IDToken, SessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to mint session cookie: %w", err)
	}
	return cookie, nil
}

// Verify checks a session cookie and returns the authenticated principal's
// UID. Revoked and expired sessions fail verification.
func (s *Sessions) Verify(ctx context.Context, cookie string) (string, error) {
	token, err := s.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return "", errs.NewInvalidSessionError(err)
	}
	return token.UID, nil
}

// SignOut revokes the principal's refresh tokens, invalidating every session
// cookie minted for them.
func (s *Sessions) SignOut(ctx context.Context, uid string) error {
	return s.client.RevokeRefreshTokens(ctx, uid)
}
