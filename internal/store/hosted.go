package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-admin/internal/config"
	"github.com/spec-kit/clinic-admin/internal/domain"
)

// anonCodeDisabled is the error code the auth endpoint returns when anonymous
// sign-ins are switched off for the project.
const anonCodeDisabled = "anonymous_provider_disabled"

// tokenSlack is how close to expiry a cached anonymous token may get before a
// fresh sign-in is performed.
const tokenSlack = 30 * time.Second

// Hosted talks to a hosted PostgREST-style data API using the anonymous API
// key. It caches the anonymous session token between calls and re-establishes
// it once the token's exp claim runs out.
type Hosted struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewHosted builds a client from the configured base URL and anonymous key.
// Placeholder defaults are accepted; every call against them will fault.
func NewHosted(cfg config.StoreConfig, logger *zap.Logger) *Hosted {
	return &Hosted{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		anonKey: cfg.SupabaseAnonKey,
		client:  &http.Client{Timeout: cfg.HTTPTimeout()},
		logger:  logger,
	}
}

type anonSignInResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type apiError struct {
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	ErrorCode string `json:"error_code"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// EnsureAnonymousSession signs in anonymously unless a still-valid token is
// cached. A disabled anonymous provider surfaces as ErrAnonymousDisabled.
func (h *Hosted) EnsureAnonymousSession(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.accessToken != "" && time.Until(h.tokenExpiry) > tokenSlack {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/auth/v1/signup", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", h.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("anonymous sign-in: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anonymous sign-in: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		if resp.StatusCode == http.StatusUnprocessableEntity || apiErr.ErrorCode == anonCodeDisabled {
			return fmt.Errorf("%w: %s", ErrAnonymousDisabled, apiErr.text())
		}
		return fmt.Errorf("anonymous sign-in: status %d: %s", resp.StatusCode, apiErr.text())
	}

	var signIn anonSignInResponse
	if err := json.Unmarshal(body, &signIn); err != nil {
		return fmt.Errorf("anonymous sign-in: decode: %w", err)
	}
	if signIn.AccessToken == "" {
		return fmt.Errorf("anonymous sign-in: no access token in response")
	}

	h.accessToken = signIn.AccessToken
	h.tokenExpiry = tokenExpiry(signIn)
	h.logger.Debug("anonymous session established", zap.Time("expires_at", h.tokenExpiry))
	return nil
}

// tokenExpiry reads the exp claim of the issued token without verifying the
// signature; the token is opaque to us otherwise. Falls back to expires_in,
// then to one hour.
func tokenExpiry(signIn anonSignInResponse) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(signIn.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if signIn.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(signIn.ExpiresIn) * time.Second)
	}
	return time.Now().Add(time.Hour)
}

func (h *Hosted) authToken() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.accessToken != "" {
		return h.accessToken
	}
	return h.anonKey
}

// rest performs one request against the data API and decodes the response
// into out when non-nil.
func (h *Hosted) rest(ctx context.Context, method, table string, query url.Values, payload, out any) error {
	endpoint := h.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", h.anonKey)
	req.Header.Set("Authorization", "Bearer "+h.authToken())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("store %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("store %s %s: %w", method, table, err)
	}

	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(raw, &apiErr)
		return fmt.Errorf("store %s %s: status %d: %s", method, table, resp.StatusCode, apiErr.text())
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("store %s %s: decode: %w", method, table, err)
		}
	}
	return nil
}

// ListNames returns all names from the table in ascending order.
func (h *Hosted) ListNames(ctx context.Context, table string) ([]string, error) {
	query := url.Values{}
	query.Set("select", "name")
	query.Set("order", "name.asc")

	var rows []struct {
		Name string `json:"name"`
	}
	if err := h.rest(ctx, http.MethodGet, table, query, nil, &rows); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

// InsertName adds a new row; no duplicate check is performed.
func (h *Hosted) InsertName(ctx context.Context, table, name string) error {
	return h.rest(ctx, http.MethodPost, table, nil, map[string]string{"name": name}, nil)
}

// DeleteName removes rows matching the name exactly.
func (h *Hosted) DeleteName(ctx context.Context, table, name string) error {
	query := url.Values{}
	query.Set("name", "eq."+name)
	return h.rest(ctx, http.MethodDelete, table, query, nil, nil)
}

// ListWhitelist returns whitelist entries ordered by email, optionally
// narrowed to one provider.
func (h *Hosted) ListWhitelist(ctx context.Context, provider *domain.Provider) ([]domain.WhitelistEntry, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "email.asc")
	if provider != nil {
		query.Set("provider", "eq."+string(*provider))
	}

	var entries []domain.WhitelistEntry
	if err := h.rest(ctx, http.MethodGet, WhitelistTable, query, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertWhitelist adds a whitelist row. The caller normalizes the email.
func (h *Hosted) InsertWhitelist(ctx context.Context, email string, provider domain.Provider) error {
	payload := map[string]string{
		"email":    email,
		"provider": string(provider),
	}
	return h.rest(ctx, http.MethodPost, WhitelistTable, nil, payload, nil)
}

// DeleteWhitelist removes rows matching the email exactly.
func (h *Hosted) DeleteWhitelist(ctx context.Context, email string) error {
	query := url.Values{}
	query.Set("email", "eq."+email)
	return h.rest(ctx, http.MethodDelete, WhitelistTable, query, nil, nil)
}

// Ping checks the auth endpoint's health route.
func (h *Hosted) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", h.anonKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("store health: status %d", resp.StatusCode)
	}
	return nil
}
