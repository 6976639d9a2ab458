package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-admin/internal/config"
	"github.com/spec-kit/clinic-admin/internal/domain"
)

func newHostedClient(t *testing.T, handler http.Handler) (*Hosted, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewHosted(config.StoreConfig{
		SupabaseURL:        server.URL,
		SupabaseAnonKey:    "anon-key",
		HTTPTimeoutSeconds: 5,
	}, zap.NewNop())
	return client, server
}

func signedAnonToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiresAt.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestEnsureAnonymousSessionDisabledByStatus(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "Anonymous sign-ins are disabled"})
	}))

	err := client.EnsureAnonymousSession(context.Background())
	if !errors.Is(err, ErrAnonymousDisabled) {
		t.Fatalf("expected ErrAnonymousDisabled, got %v", err)
	}
}

func TestEnsureAnonymousSessionDisabledByErrorCode(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_code": "anonymous_provider_disabled"})
	}))

	if err := client.EnsureAnonymousSession(context.Background()); !errors.Is(err, ErrAnonymousDisabled) {
		t.Fatalf("expected ErrAnonymousDisabled, got %v", err)
	}
}

func TestEnsureAnonymousSessionOtherFault(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "database unavailable"})
	}))

	err := client.EnsureAnonymousSession(context.Background())
	if err == nil || errors.Is(err, ErrAnonymousDisabled) {
		t.Fatalf("expected plain fault, got %v", err)
	}
}

func TestEnsureAnonymousSessionCachesToken(t *testing.T) {
	signups := 0
	token := ""
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Fatalf("missing apikey header")
		}
		signups++
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token, "expires_in": 3600})
	}))
	token = signedAnonToken(t, time.Now().Add(time.Hour))

	for i := 0; i < 3; i++ {
		if err := client.EnsureAnonymousSession(context.Background()); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if signups != 1 {
		t.Fatalf("expected one sign-in round trip, got %d", signups)
	}
}

func TestEnsureAnonymousSessionRefreshesExpiredToken(t *testing.T) {
	signups := 0
	token := ""
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signups++
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token})
	}))
	token = signedAnonToken(t, time.Now().Add(5*time.Second)) // inside the slack window

	for i := 0; i < 2; i++ {
		if err := client.EnsureAnonymousSession(context.Background()); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if signups != 2 {
		t.Fatalf("expected a fresh sign-in per call, got %d", signups)
	}
}

func TestListNames(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/doctors" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("select") != "name" || query.Get("order") != "name.asc" {
			t.Fatalf("unexpected query %v", query)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
			t.Fatalf("unexpected authorization %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "Ava"}, {"name": "Ben"}})
	}))

	names, err := client.ListNames(context.Background(), "doctors")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(names) != 2 || names[0] != "Ava" || names[1] != "Ben" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestInsertName(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/nurses" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Prefer") != "return=minimal" {
			t.Fatalf("missing Prefer header")
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["name"] != "Ben" {
			t.Fatalf("unexpected payload %v", payload)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	if err := client.InsertName(context.Background(), "nurses", "Ben"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestInsertNameFault(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "permission denied"})
	}))

	err := client.InsertName(context.Background(), "nurses", "Ben")
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected permission fault, got %v", err)
	}
}

func TestDeleteName(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if got := r.URL.Query().Get("name"); got != "eq.Dr. Ava" {
			t.Fatalf("unexpected filter %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteName(context.Background(), "doctors", "Dr. Ava"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestListWhitelist(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/whitelist_emails" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("order") != "email.asc" || query.Get("provider") != "eq.google" {
			t.Fatalf("unexpected query %v", query)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "email": "a@g.com", "provider": "google", "created_at": "2025-04-01T10:00:00+00:00"},
		})
	}))

	provider := domain.ProviderGoogle
	entries, err := client.ListWhitelist(context.Background(), &provider)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(entries) != 1 || entries[0].Email != "a@g.com" || entries[0].Provider != domain.ProviderGoogle {
		t.Fatalf("unexpected entries %v", entries)
	}
	if entries[0].ID != 1 || entries[0].CreatedAt.IsZero() {
		t.Fatalf("storage-assigned fields missing: %+v", entries[0])
	}
}

func TestDeleteWhitelist(t *testing.T) {
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "eq.foo@bar.com" {
			t.Fatalf("unexpected filter %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteWhitelist(context.Background(), "foo@bar.com"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRestUsesAnonTokenAfterSignIn(t *testing.T) {
	token := ""
	client, _ := newHostedClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/signup":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": token})
		case "/rest/v1/doctors":
			if got := r.Header.Get("Authorization"); got != "Bearer "+token {
				t.Fatalf("unexpected authorization %q", got)
			}
			_ = json.NewEncoder(w).Encode([]map[string]string{})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	token = signedAnonToken(t, time.Now().Add(time.Hour))

	if err := client.EnsureAnonymousSession(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := client.ListNames(context.Background(), "doctors"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
