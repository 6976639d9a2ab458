package store

import (
	"context"
	"errors"

	"github.com/spec-kit/clinic-admin/internal/domain"
)

// WhitelistTable is the backing table for whitelisted emails.
const WhitelistTable = "whitelist_emails"

// ErrAnonymousDisabled reports that the backend has anonymous sign-in turned
// off. Callers tolerate this and proceed without an anonymous principal.
var ErrAnonymousDisabled = errors.New("anonymous sign-in disabled")

// Directory abstracts the external store holding the reference tables.
type Directory interface {
	// EnsureAnonymousSession establishes the anonymous principal the store's
	// access rules expect before queries. Idempotent.
	EnsureAnonymousSession(ctx context.Context) error

	ListNames(ctx context.Context, table string) ([]string, error)
	InsertName(ctx context.Context, table, name string) error
	DeleteName(ctx context.Context, table, name string) error

	ListWhitelist(ctx context.Context, provider *domain.Provider) ([]domain.WhitelistEntry, error)
	InsertWhitelist(ctx context.Context, email string, provider domain.Provider) error
	DeleteWhitelist(ctx context.Context, email string) error

	Ping(ctx context.Context) error
}
