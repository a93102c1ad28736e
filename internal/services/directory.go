package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"github.com/anonto42/proconnect/backend/pkg/cache"
	"go.uber.org/zap"
)

// SummaryCache stores resolved account cards. *cache.Cache satisfies it.
type SummaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AccountDirectory resolves polymorphic account references against the
// store that owns each variant.
type AccountDirectory struct {
	users     repositories.UserRepository
	companies repositories.CompanyRepository
	cache     SummaryCache
	logger    *zap.Logger
}

// NewAccountDirectory builds a directory; summaryCache may be nil.
func NewAccountDirectory(users repositories.UserRepository, companies repositories.CompanyRepository, summaryCache SummaryCache, logger *zap.Logger) *AccountDirectory {
	return &AccountDirectory{users: users, companies: companies, cache: summaryCache, logger: logger}
}

// Summary returns the public display card for ref.
func (d *AccountDirectory) Summary(ctx context.Context, ref models.AccountRef) (models.AccountSummary, error) {
	key := cache.AccountSummaryKey(ref.Key())
	if d.cache != nil {
		var cached models.AccountSummary
		err := d.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			d.logger.Debug("summary cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	var summary models.AccountSummary
	switch ref.Type {
	case models.AccountUser:
		u, err := d.users.GetUserByID(ctx, ref.ID)
		if err != nil {
			return models.AccountSummary{}, storeError("user", err)
		}
		summary = u.ToSummary()
	case models.AccountCompany:
		c, err := d.companies.GetCompanyByID(ctx, ref.ID)
		if err != nil {
			return models.AccountSummary{}, storeError("company", err)
		}
		summary = c.ToSummary()
	default:
		return models.AccountSummary{}, ErrValidation
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, summary, cache.AccountSummaryTTL); err != nil {
			d.logger.Debug("summary cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}

// SummaryOrStub never fails: an unresolvable account yields a card with
// only its id and type.
func (d *AccountDirectory) SummaryOrStub(ctx context.Context, ref models.AccountRef) models.AccountSummary {
	summary, err := d.Summary(ctx, ref)
	if err != nil {
		return models.AccountSummary{ID: ref.ID, Type: ref.Type}
	}
	return summary
}

// Exists reports ErrNotFound when ref does not resolve.
func (d *AccountDirectory) Exists(ctx context.Context, ref models.AccountRef) error {
	_, err := d.Summary(ctx, ref)
	return err
}

// Invalidate drops the cached card after a profile change.
func (d *AccountDirectory) Invalidate(ctx context.Context, ref models.AccountRef) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Delete(ctx, cache.AccountSummaryKey(ref.Key())); err != nil {
		d.logger.Warn("summary cache invalidation failed", zap.String("account", ref.Key()), zap.Error(err))
	}
}
