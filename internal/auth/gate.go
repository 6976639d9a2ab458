package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/internal/config"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

// CookieName is the admin capability cookie. Possession of the cookie, not a
// server-side lookup, is what grants admin access.
const CookieName = "admin_auth"

const cookieValue = "valid"

// cookieMaxAge is 30 days in seconds.
const cookieMaxAge = 30 * 24 * 60 * 60

// SessionGate verifies the shared admin secret and builds the capability
// cookie. It has no server-side session state.
type SessionGate struct {
	password      string
	secureCookies bool
}

// NewSessionGate builds the gate. secureCookies should be set only in
// production deployments behind HTTPS.
func NewSessionGate(cfg config.AdminConfig, secureCookies bool) *SessionGate {
	return &SessionGate{password: cfg.Password, secureCookies: secureCookies}
}

// Authenticate compares the submitted password byte-for-byte against the
// configured secret. No trimming is applied.
func (g *SessionGate) Authenticate(password string) error {
	if password == "" {
		return util.NewMissingCredential()
	}
	if password != g.password {
		return util.NewInvalidCredential()
	}
	return nil
}

// IssueCookie returns the admin cookie to set on successful login.
func (g *SessionGate) IssueCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    cookieValue,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HTTPOnly: true,
		Secure:   g.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// ExpireCookie returns an expired twin of the admin cookie. Clearing only
// affects the client that receives the response; already-distributed copies
// stay usable until they expire.
func (g *SessionGate) ExpireCookie() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   g.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Validate reports whether a presented cookie value grants admin access.
func (g *SessionGate) Validate(value string) bool {
	return value == cookieValue
}
