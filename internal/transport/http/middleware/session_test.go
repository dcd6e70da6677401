package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/config"
	jwtinfra "github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestProvider generates a fresh RSA key pair, writes it to temp files,
// and returns a *jwtinfra.Provider. The temp directory is cleaned up
// automatically by t.TempDir() when the test completes.
func newTestProvider(t *testing.T, accessExpiry time.Duration) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTAccessExpiry:   accessExpiry,
		JWTRefreshExpiry:  30 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

// serveSession runs the middleware and returns the recorder plus the
// identity seen by the downstream handler (nil when anonymous).
func serveSession(t *testing.T, p *jwtinfra.Provider, req *http.Request) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()
	var got *Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	Session(p)(capture).ServeHTTP(rr, req)
	return rr, got
}

func TestSession_NoCookies_Anonymous(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	rr, id := serveSession(t, p, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, id)
}

func TestSession_ValidAccessCookie_ResolvesIdentity(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	access, err := p.SignAccess("u1", "doctor")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
	_, id := serveSession(t, p, req)

	require.NotNil(t, id)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "doctor", id.Role)
}

func TestSession_ExpiredAccess_RefreshRewritesCookie(t *testing.T) {
	p := newTestProvider(t, -time.Minute) // access tokens are born expired
	access, err := p.SignAccess("u1", "admin")
	require.NoError(t, err)
	refresh, err := p.SignRefresh("u1", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refresh})
	rr, id := serveSession(t, p, req)

	require.NotNil(t, id)
	assert.Equal(t, "u1", id.UserID)

	var rewritten bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == AccessCookieName && c.Value != "" {
			rewritten = true
		}
	}
	assert.True(t, rewritten, "resolver must rewrite the access cookie from the refresh token")
}

func TestSession_GarbageCookies_FailsOpenToAnonymous(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "not-a-token"})
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "also-not-a-token"})
	rr, id := serveSession(t, p, req)

	// Resolution failure never blocks the pipeline.
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, id)
}

func TestSession_NilProvider_PassesThrough(t *testing.T) {
	rr, id := serveSession(t, nil, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, id)
}

func TestRequireRole_Matrix(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(okHandler))

	// Anonymous.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Wrong role.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(withIdentity(req.Context(), &jwtinfra.Claims{UserID: "u1", Role: "user"}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Allowed role.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(withIdentity(req.Context(), &jwtinfra.Claims{UserID: "u1", Role: "admin"}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
