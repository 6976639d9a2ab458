package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-admin/internal/domain"
	"github.com/spec-kit/clinic-admin/internal/store"
	"github.com/spec-kit/clinic-admin/pkg/util"
)

// DirectoryService mediates access to the staff and whitelist reference
// lists. Reads degrade to empty results on any fault so listing pages keep
// rendering; writes propagate faults so the caller can react. That asymmetry
// is contract.
type DirectoryService struct {
	store  store.Directory
	logger *zap.Logger
}

// NewDirectoryService builds the service.
func NewDirectoryService(st store.Directory, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{store: st, logger: logger}
}

// ensureAnonymousSession runs the anonymous-principal bootstrap. A backend
// with anonymous sign-in disabled is tolerated; anything else propagates.
func (s *DirectoryService) ensureAnonymousSession(ctx context.Context) error {
	if err := s.store.EnsureAnonymousSession(ctx); err != nil {
		if errors.Is(err, store.ErrAnonymousDisabled) {
			return nil
		}
		return err
	}
	return nil
}

// ListStaff returns all names of the given kind in ascending order. Faults
// are logged and masked as an empty list.
func (s *DirectoryService) ListStaff(ctx context.Context, kind domain.StaffKind) []string {
	names, err := s.listStaff(ctx, kind)
	if err != nil {
		s.logger.Error("list staff failed", zap.String("kind", string(kind)), zap.Error(err))
		return []string{}
	}
	return names
}

func (s *DirectoryService) listStaff(ctx context.Context, kind domain.StaffKind) ([]string, error) {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		return nil, err
	}
	names, err := s.store.ListNames(ctx, kind.Table())
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// AddStaff inserts a trimmed name. Faults are logged and propagated.
func (s *DirectoryService) AddStaff(ctx context.Context, kind domain.StaffKind, name string) error {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		s.logger.Error("add staff failed", zap.String("kind", string(kind)), zap.Error(err))
		return util.NewUpsertFault(err)
	}
	if err := s.store.InsertName(ctx, kind.Table(), strings.TrimSpace(name)); err != nil {
		s.logger.Error("add staff failed", zap.String("kind", string(kind)), zap.Error(err))
		return util.NewUpsertFault(err)
	}
	return nil
}

// DeleteStaff removes rows matching the trimmed name exactly. Faults are
// logged and propagated.
func (s *DirectoryService) DeleteStaff(ctx context.Context, kind domain.StaffKind, name string) error {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		s.logger.Error("delete staff failed", zap.String("kind", string(kind)), zap.Error(err))
		return util.NewDeleteFault(err)
	}
	if err := s.store.DeleteName(ctx, kind.Table(), strings.TrimSpace(name)); err != nil {
		s.logger.Error("delete staff failed", zap.String("kind", string(kind)), zap.Error(err))
		return util.NewDeleteFault(err)
	}
	return nil
}

// ListWhitelist returns whitelist entries ordered by email, optionally
// narrowed to one provider. Faults are logged and masked as an empty list.
func (s *DirectoryService) ListWhitelist(ctx context.Context, provider *domain.Provider) []domain.WhitelistEntry {
	entries, err := s.listWhitelist(ctx, provider)
	if err != nil {
		s.logger.Error("list whitelist failed", zap.Error(err))
		return []domain.WhitelistEntry{}
	}
	return entries
}

func (s *DirectoryService) listWhitelist(ctx context.Context, provider *domain.Provider) ([]domain.WhitelistEntry, error) {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		return nil, err
	}
	entries, err := s.store.ListWhitelist(ctx, provider)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.WhitelistEntry{}
	}
	return entries, nil
}

// AddWhitelistEmail inserts a normalized (trimmed, lower-cased) email. No
// duplicate check is performed. Faults are logged and propagated.
func (s *DirectoryService) AddWhitelistEmail(ctx context.Context, email string, provider domain.Provider) error {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		s.logger.Error("add whitelist email failed", zap.Error(err))
		return util.NewUpsertFault(err)
	}
	if err := s.store.InsertWhitelist(ctx, normalizeEmail(email), provider); err != nil {
		s.logger.Error("add whitelist email failed", zap.Error(err))
		return util.NewUpsertFault(err)
	}
	return nil
}

// DeleteWhitelistEmail removes rows matching the normalized email. Faults are
// logged and propagated.
func (s *DirectoryService) DeleteWhitelistEmail(ctx context.Context, email string) error {
	if err := s.ensureAnonymousSession(ctx); err != nil {
		s.logger.Error("delete whitelist email failed", zap.Error(err))
		return util.NewDeleteFault(err)
	}
	if err := s.store.DeleteWhitelist(ctx, normalizeEmail(email)); err != nil {
		s.logger.Error("delete whitelist email failed", zap.Error(err))
		return util.NewDeleteFault(err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
