package repositories

import (
	"context"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"gorm.io/gorm"
)

// CompanyFollowRepository defines the interface for user → company follows
type CompanyFollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.CompanyFollow) error
	DeleteFollow(ctx context.Context, userID, companyID uint) error
	IsFollowing(ctx context.Context, userID, companyID uint) (bool, error)
	GetFollowedCompanyIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowerIDs(ctx context.Context, companyID uint) ([]uint, error)
	GetFollowersCount(ctx context.Context, companyID uint) (int64, error)
}

// PostgresCompanyFollowRepository implements CompanyFollowRepository for PostgreSQL
type PostgresCompanyFollowRepository struct {
	db *gorm.DB
}

func NewPostgresCompanyFollowRepository(db *gorm.DB) *PostgresCompanyFollowRepository {
	return &PostgresCompanyFollowRepository{db: db}
}

func (r *PostgresCompanyFollowRepository) CreateFollow(ctx context.Context, follow *models.CompanyFollow) error {
	if follow.FollowedAt.IsZero() {
		follow.FollowedAt = time.Now()
	}
	return translateGormError(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *PostgresCompanyFollowRepository) DeleteFollow(ctx context.Context, userID, companyID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND company_id = ?", userID, companyID).Delete(&models.CompanyFollow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCompanyFollowRepository) IsFollowing(ctx context.Context, userID, companyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CompanyFollow{}).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresCompanyFollowRepository) GetFollowedCompanyIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.CompanyFollow{}).
		Where("user_id = ?", userID).
		Order("followed_at DESC").
		Pluck("company_id", &ids).Error
	return ids, err
}

func (r *PostgresCompanyFollowRepository) GetFollowerIDs(ctx context.Context, companyID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.CompanyFollow{}).Where("company_id = ?", companyID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresCompanyFollowRepository) GetFollowersCount(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CompanyFollow{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}
