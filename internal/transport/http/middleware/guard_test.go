package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jwtinfra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serveGuard(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	Guard(DefaultGuardConfig())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr
}

func TestGuard_PrivatePage_NoCookie_RedirectsToChallenge(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/private-page-patient/abc/topics", nil)
	rr := serveGuard(t, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/private-page-patient/abc/auth", rr.Header().Get("Location"))
}

func TestGuard_PrivatePage_WrongCookieValue_Redirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/private-page-patient/abc/topics", nil)
	req.AddCookie(&http.Cookie{Name: OTPVerifiedCookie, Value: "TRUE"})
	rr := serveGuard(t, req)

	// Only the exact value "true" opens the gate.
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
}

func TestGuard_PrivatePage_VerifiedCookie_Allows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/private-page-patient/abc/topics", nil)
	req.AddCookie(&http.Cookie{Name: OTPVerifiedCookie, Value: "true"})
	rr := serveGuard(t, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}

func TestGuard_ChallengePage_AlwaysAllowed(t *testing.T) {
	for _, path := range []string{
		"/private-page-patient/abc/auth",
		"/private-page-patient/abc/auth/login",
		"/private-page-patient/abc/auth/signup",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := serveGuard(t, req)
		assert.Equal(t, http.StatusOK, rr.Code, "path %s must never redirect", path)
	}
}

func TestGuard_PrivatePagePrefixWithoutID_RedirectsToBareChallenge(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/private-page-patient/", nil)
	rr := serveGuard(t, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/private-page-patient//auth", rr.Header().Get("Location"))
}

func TestGuard_RestrictedRoute_Anonymous_RedirectsToLogin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password", nil)
	rr := serveGuard(t, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))
}

func TestGuard_RestrictedRoute_WithIdentity_Allows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password", nil)
	ctx := withIdentity(req.Context(), &jwtinfra.Claims{UserID: "u1", Role: "user"})
	rr := serveGuard(t, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGuard_UnrelatedPath_PassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/topics/shoulder", nil)
	rr := serveGuard(t, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnless_SkipsListedPrefixes(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	h := Unless([]string{"/api/", "/static/"}, deny)(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/send-otp", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private-page-patient/abc/topics", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestExtractPageID(t *testing.T) {
	cases := map[string]string{
		"/private-page-patient/abc/topics":    "abc",
		"/private-page-patient/p1/documents":  "p1",
		"/private-page-patient/xyz":           "xyz",
		"/private-page-patient/":              "",
		"/private-page-patient/a-b_c/topics/": "a-b_c",
	}
	for path, want := range cases {
		require.Equal(t, want, extractPageID(path), "path %s", path)
	}
}
