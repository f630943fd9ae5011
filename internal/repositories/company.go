package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

type CompanyRepository interface {
	Create(company *models.Company) error
	FindAll() ([]models.Company, error)
	FindByID(id uuid.UUID) (*models.Company, error)
	FindByName(name string) (*models.Company, error)
	CountQuestions(companyID uuid.UUID) (int64, error)
	CreateQuestion(question *models.CompanyQuestion) error
	FindQuestions(companyID uuid.UUID, limit int) ([]models.CompanyQuestion, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *models.Company) error {
	if err := r.db.Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *companyRepository) FindAll() ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (r *companyRepository) FindByID(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &company, nil
}

func (r *companyRepository) FindByName(name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("name = ?", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return &company, nil
}

func (r *companyRepository) CountQuestions(companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.CompanyQuestion{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count company questions: %w", err)
	}
	return count, nil
}

func (r *companyRepository) CreateQuestion(question *models.CompanyQuestion) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create company question: %w", err)
	}
	return nil
}

func (r *companyRepository) FindQuestions(companyID uuid.UUID, limit int) ([]models.CompanyQuestion, error) {
	var questions []models.CompanyQuestion
	query := r.db.
		Where("company_id = ?", companyID).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to find company questions: %w", err)
	}
	return questions, nil
}
