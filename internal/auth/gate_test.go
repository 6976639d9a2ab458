package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-admin/internal/config"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

func newGate(secure bool) *SessionGate {
	return NewSessionGate(config.AdminConfig{Password: "s3cret"}, secure)
}

func TestAuthenticate(t *testing.T) {
	gate := newGate(false)

	if err := gate.Authenticate("s3cret"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	err := gate.Authenticate("")
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("empty password: expected 400 domain error, got %v", err)
	}
	if domainErr.Message != "Password is required" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}

	err = gate.Authenticate("wrong")
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401 domain error, got %v", err)
	}
	if domainErr.Message != "Invalid password" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}

	// No trimming: whitespace-padded secrets must not match.
	if err := gate.Authenticate(" s3cret "); err == nil {
		t.Fatal("padded password should not authenticate")
	}
}

func TestIssueCookieAttributes(t *testing.T) {
	cookie := newGate(false).IssueCookie()

	if cookie.Name != CookieName || cookie.Value != "valid" {
		t.Fatalf("unexpected cookie %s=%s", cookie.Name, cookie.Value)
	}
	if cookie.MaxAge != 30*24*60*60 {
		t.Fatalf("unexpected max age %d", cookie.MaxAge)
	}
	if cookie.Path != "/" || !cookie.HTTPOnly || cookie.SameSite != fiber.CookieSameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
	if cookie.Secure {
		t.Fatal("secure flag must be off outside production")
	}

	if !newGate(true).IssueCookie().Secure {
		t.Fatal("secure flag must be on in production")
	}
}

func TestExpireCookie(t *testing.T) {
	cookie := newGate(false).ExpireCookie()

	if cookie.Name != CookieName || cookie.Value != "" {
		t.Fatalf("unexpected cookie %s=%s", cookie.Name, cookie.Value)
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("expected negative max age, got %d", cookie.MaxAge)
	}
}

func TestValidate(t *testing.T) {
	gate := newGate(false)

	if !gate.Validate("valid") {
		t.Fatal("expected valid cookie value to pass")
	}
	for _, value := range []string{"", "VALID", "s3cret", "valid "} {
		if gate.Validate(value) {
			t.Fatalf("value %q should not validate", value)
		}
	}
}
