package repositories

import (
	"context"

	"github.com/anonto42/proconnect/backend/internal/models"
	"gorm.io/gorm"
)

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompanyByID(ctx context.Context, id uint) (*models.Company, error)
	GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	SearchCompanies(ctx context.Context, query string, limit int) ([]models.Company, error)
}

type PostgresCompanyRepository struct {
	db *gorm.DB
}

func NewPostgresCompanyRepository(db *gorm.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	return translateGormError(r.db.WithContext(ctx).Create(company).Error)
}

func (r *PostgresCompanyRepository) GetCompanyByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &company, nil
}

func (r *PostgresCompanyRepository) GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&company).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &company, nil
}

func (r *PostgresCompanyRepository) UpdateCompany(ctx context.Context, company *models.Company) error {
	return translateGormError(r.db.WithContext(ctx).Save(company).Error)
}

func (r *PostgresCompanyRepository) SearchCompanies(ctx context.Context, query string, limit int) ([]models.Company, error) {
	var companies []models.Company
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(industry) LIKE LOWER(?)", like, like).
		Order("name").
		Limit(limit).
		Find(&companies).Error
	return companies, err
}
