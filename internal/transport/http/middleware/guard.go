package middleware

import (
	"net/http"
	"regexp"
	"slices"
	"strings"
)

// PrivatePagePrefix is the URL prefix of OTP-gated patient pages.
const PrivatePagePrefix = "/private-page-patient/"

// OTPVerifiedCookie is the flag cookie set once the browser passes an
// OTP check. Its presence with value "true" is the sole gate.
const OTPVerifiedCookie = "otp-verified"

var privatePageIDRe = regexp.MustCompile(`private-page-patient/([^/]+)`)

// GuardConfig configures the request guard.
type GuardConfig struct {
	// RestrictedRoutes are exact paths that require a signed-in session.
	RestrictedRoutes []string
	// LoginURL is where anonymous callers of restricted routes are sent.
	LoginURL string
}

// DefaultGuardConfig mirrors the portal's routing rules.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RestrictedRoutes: []string{"/auth/reset-password"},
		LoginURL:         "/auth/login",
	}
}

// Guard classifies every request before its handler runs, first matching
// rule wins:
//
//  1. Private-page paths: the /auth challenge subtree always passes (or
//     the challenge itself would redirect forever); everything else needs
//     the otp-verified cookie set to exactly "true", or is redirected to
//     the page's challenge URL.
//  2. Restricted routes redirect anonymous callers to the login URL.
//  3. Everything else passes through.
//
// Static assets and API routes are excluded by the caller's allowlist at
// the mount boundary (see Unless), not here.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, PrivatePagePrefix) {
				if strings.Contains(path, "/auth") {
					next.ServeHTTP(w, r)
					return
				}
				if !otpVerified(r) {
					pageID := extractPageID(path)
					http.Redirect(w, r, PrivatePagePrefix+pageID+"/auth", http.StatusTemporaryRedirect)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if slices.Contains(cfg.RestrictedRoutes, path) {
				if _, ok := IdentityFromContext(r.Context()); !ok {
					http.Redirect(w, r, cfg.LoginURL, http.StatusTemporaryRedirect)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Unless applies mw to every request whose path does not start with one
// of the given prefixes. It keeps the exclusion allowlist at the mount
// boundary so the wrapped middleware stays path-agnostic.
func Unless(prefixes []string, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range prefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func otpVerified(r *http.Request) bool {
	c, err := r.Cookie(OTPVerifiedCookie)
	return err == nil && c.Value == "true"
}

// extractPageID returns the path segment after the private-page prefix,
// or "" when the path has none — the redirect then degrades to an
// ambiguous challenge URL rather than an error page.
func extractPageID(path string) string {
	if m := privatePageIDRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return ""
}
