package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	validCookie string
	uid         string

	signInErr  error
	signedOut  []string
	verifyHits int
}

func (s *fakeSessions) SignIn(ctx context.Context, email, password string) (string, error) {
	if s.signInErr != nil {
		return "", s.signInErr
	}
	return s.validCookie, nil
}

func (s *fakeSessions) Verify(ctx context.Context, cookie string) (string, error) {
	s.verifyHits++
	if cookie != s.validCookie {
		return "", fmt.Errorf("session cookie rejected")
	}
	return s.uid, nil
}

func (s *fakeSessions) SignOut(ctx context.Context, uid string) error {
	s.signedOut = append(s.signedOut, uid)
	return nil
}

func TestRequireAdmin(t *testing.T) {
	sessions := &fakeSessions{validCookie: "good-cookie", uid: "admin-1"}
	gate := newSessionMiddleware(sessions)

	var seenUID string
	protected := gate.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUID, _ = ctxGetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no cookie is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/projects", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/projects", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-cookie"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid cookie passes through with the admin uid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/projects", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-cookie"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin-1", seenUID)
	})

	t.Run("session is verified once per request", func(t *testing.T) {
		sessions.verifyHits = 0
		req := httptest.NewRequest("GET", "/admin/projects", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-cookie"})
		protected.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, 1, sessions.verifyHits)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestLogInternalServerErrors(t *testing.T) {
	t.Run("recovers from a panicking handler", func(t *testing.T) {
		handler := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/projects", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"https://site.example"}

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		handler := corsMiddleware(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/projects", nil)
		req.Header.Set("Origin", "https://site.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from a blocked origin is refused", func(t *testing.T) {
		handler := CORSCheckMiddleware(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("OPTIONS", "/projects", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
