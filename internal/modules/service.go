package modules

import (
	"context"
	"log/slog"
)

// Service answers module enablement questions and manages enablement.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Enabled reports whether the module is enabled for the company. Cache
// failures are logged and fall through to the repository, so Redis being
// down never changes an authorization answer.
func (s *Service) Enabled(ctx context.Context, companyID int64, module string) (bool, error) {
	if companyID == 0 || module == "" {
		return false, nil
	}
	codes, hit, err := s.cache.GetEnabled(ctx, companyID)
	if err != nil && s.logger != nil {
		s.logger.Warn("module cache read", slog.Any("error", err))
	}
	if !hit {
		codes, err = s.repo.ListEnabledCodes(ctx, companyID)
		if err != nil {
			return false, err
		}
		if err := s.cache.SetEnabled(ctx, companyID, codes); err != nil && s.logger != nil {
			s.logger.Warn("module cache write", slog.Any("error", err))
		}
	}
	for _, code := range codes {
		if code == module {
			return true, nil
		}
	}
	return false, nil
}

// EnabledCodes returns the enabled module codes for a company, bypassing
// the cache.
func (s *Service) EnabledCodes(ctx context.Context, companyID int64) ([]string, error) {
	return s.repo.ListEnabledCodes(ctx, companyID)
}

// SetEnabled enables or disables a module for a company and invalidates
// the cached set.
func (s *Service) SetEnabled(ctx context.Context, companyID int64, module string, enabled bool) (bool, error) {
	known, err := s.repo.SetEnabled(ctx, companyID, module, enabled)
	if err != nil {
		return false, err
	}
	if err := s.cache.Invalidate(ctx, companyID); err != nil && s.logger != nil {
		s.logger.Warn("module cache invalidate", slog.Any("error", err))
	}
	return known, nil
}

// Definitions returns the module catalog.
func (s *Service) Definitions(ctx context.Context) ([]Definition, error) {
	return s.repo.ListDefinitions(ctx)
}

// RefreshCompany repopulates the cache for one company. Used by the
// background worker after sweeps.
func (s *Service) RefreshCompany(ctx context.Context, companyID int64) error {
	codes, err := s.repo.ListEnabledCodes(ctx, companyID)
	if err != nil {
		return err
	}
	return s.cache.SetEnabled(ctx, companyID, codes)
}
