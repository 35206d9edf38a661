package errs

import (
	"errors"
	"net/http"
)

// Authentication Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

// NewInvalidCredentialsError deliberately carries the same generic message for
// a wrong email and a wrong password, to avoid account enumeration.
func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
		Details:    "Email ou mot de passe incorrect",
		Field:      "credentials",
	}
}

func NewInvalidSessionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidSession,
		Details:    "Session is missing, invalid or revoked",
		Cause:      cause,
	}
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsInvalidSession(err error) bool {
	return errors.Is(err, ErrInvalidSession)
}
