package auth

import (
	"net/http"

	"github.com/greenloop/greenloop/internal/config"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// CookiePolicy names a cookie attribute set. Set and clear must use the same
// policy: browsers silently ignore a clear whose attributes do not match the
// cookie being cleared.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

var (
	// PolicyStrictLocal is for non-production deployments without TLS.
	PolicyStrictLocal = CookiePolicy{Secure: false, SameSite: http.SameSiteStrictMode}

	// PolicyCrossSiteSecure is for production, where the browser client is
	// served from a different origin than the API.
	PolicyCrossSiteSecure = CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}
)

// PolicyForEnv maps the deployment mode to its cookie policy.
func PolicyForEnv(env config.Environment) CookiePolicy {
	if env == config.EnvProduction {
		return PolicyCrossSiteSecure
	}
	return PolicyStrictLocal
}

// CookieTransport encodes the session token into an HTTP-only cookie.
type CookieTransport struct {
	policy CookiePolicy
	maxAge int // seconds
}

// NewCookieTransport creates a transport with the given policy. The cookie
// max-age matches the token TTL.
func NewCookieTransport(policy CookiePolicy) *CookieTransport {
	return &CookieTransport{
		policy: policy,
		maxAge: int(TokenTTL.Seconds()),
	}
}

// Attach writes the session cookie to the response.
func (t *CookieTransport) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   t.maxAge,
		HttpOnly: true,
		Secure:   t.policy.Secure,
		SameSite: t.policy.SameSite,
	})
}

// Extract reads the session token from the request cookie verbatim.
func (t *CookieTransport) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear expires the session cookie, using the same attribute policy as
// Attach.
func (t *CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.policy.Secure,
		SameSite: t.policy.SameSite,
	})
}
