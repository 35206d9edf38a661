package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/auth"
	"github.com/ateliermistral/site-backend/errs"
)

// SessionManager is the slice of the identity backend the auth routes need.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, cookie string) (string, error)
	SignOut(ctx context.Context, uid string) error
}

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  SessionManager
}

func newAuthHandler(sessions SessionManager) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login exchanges admin credentials for a session cookie. Credential failures
// are deliberately indistinguishable from one another in the response.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("login", err))
			return
		}
		if req.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		cookie, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    cookie,
			Path:     "/",
			MaxAge:   int(auth.SessionTTL / time.Second),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// logout revokes the session and clears the cookie. A missing or invalid
// cookie still clears and succeeds so logout is always safe to call.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if uid, err := h.sessions.Verify(r.Context(), cookie.Value); err == nil {
				if err := h.sessions.SignOut(r.Context(), uid); err != nil {
					h.logger.Warn().Err(err).Msg("Failed to revoke session on logout")
				}
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
