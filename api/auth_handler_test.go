package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliermistral/site-backend/errs"
)

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		sessions := &fakeSessions{validCookie: "minted-cookie", uid: "admin-1"}
		handler := newAuthHandler(sessions).login()

		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{"email":"[email protected]","password":"secret"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cookie := findCookie(t, rec.Result(), SessionCookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "minted-cookie", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Positive(t, cookie.MaxAge)
	})

	t.Run("rejected credentials yield 401 and no cookie", func(t *testing.T) {
		sessions := &fakeSessions{signInErr: errs.NewInvalidCredentialsError()}
		handler := newAuthHandler(sessions).login()

		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{"email":"[email protected]","password":"wrong"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, findCookie(t, rec.Result(), SessionCookieName))
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		handler := newAuthHandler(&fakeSessions{}).login()

		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{"email":"[email protected]"}`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body fails with 400", func(t *testing.T) {
		handler := newAuthHandler(&fakeSessions{}).login()

		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Run("valid session is revoked and the cookie cleared", func(t *testing.T) {
		sessions := &fakeSessions{validCookie: "minted-cookie", uid: "admin-1"}
		handler := newAuthHandler(sessions).logout()

		req := httptest.NewRequest("POST", "/admin/logout", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "minted-cookie"})
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"admin-1"}, sessions.signedOut)

		cookie := findCookie(t, rec.Result(), SessionCookieName)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})

	t.Run("logout without a session still clears and succeeds", func(t *testing.T) {
		sessions := &fakeSessions{validCookie: "minted-cookie"}
		handler := newAuthHandler(sessions).logout()

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("POST", "/admin/logout", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, sessions.signedOut)
		require.NotNil(t, findCookie(t, rec.Result(), SessionCookieName))
	})
}
