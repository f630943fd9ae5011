package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
)

// Bank questions closer than this cosine similarity to an existing one are
// treated as duplicates and skipped on import.
const duplicateSimilarityThreshold = 0.92

// CompanyService manages company question banks: company CRUD plus bulk
// question import with semantic deduplication through the vector index.
type CompanyService interface {
	CreateCompany(ctx context.Context, name, description, createdBy string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.CompanySummary, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyDetailResponse, error)
	AddQuestions(ctx context.Context, companyID uuid.UUID, questions []models.ParsedQuestion) (*models.AddQuestionsResponse, error)
}

type companyService struct {
	companies repositories.CompanyRepository
	gemini    GeminiService
	index     QuestionIndex
}

func NewCompanyService(companies repositories.CompanyRepository, gemini GeminiService, index QuestionIndex) CompanyService {
	return &companyService{
		companies: companies,
		gemini:    gemini,
		index:     index,
	}
}

func (s *companyService) CreateCompany(ctx context.Context, name, description, createdBy string) (*models.Company, error) {
	name = CleanText(name)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrValidation)
	}

	existing, err := s.companies.FindByName(name)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: company %q already exists", ErrValidation, name)
	}

	company := &models.Company{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
	}
	if err := s.companies.Create(company); err != nil {
		return nil, err
	}

	log.Printf("✅ Company %q created", name)
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	companies, err := s.companies.FindAll()
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CompanySummary, 0, len(companies))
	for _, company := range companies {
		count, err := s.companies.CountQuestions(company.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.CompanySummary{
			Company:       company,
			QuestionCount: count,
		})
	}
	return summaries, nil
}

func (s *companyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyDetailResponse, error) {
	company, err := s.companies.FindByID(id)
	if err != nil {
		return nil, err
	}

	questions, err := s.companies.FindQuestions(id, 0)
	if err != nil {
		return nil, err
	}

	return &models.CompanyDetailResponse{
		Company:   company,
		Questions: questions,
	}, nil
}

// AddQuestions imports parsed questions into a company's bank. Each question
// is re-normalized, validated, checked against the vector index for near
// duplicates within the same company, then stored and indexed. Index outages
// degrade to import-without-dedup rather than failing the request.
func (s *companyService) AddQuestions(ctx context.Context, companyID uuid.UUID, questions []models.ParsedQuestion) (*models.AddQuestionsResponse, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions provided", ErrValidation)
	}

	if _, err := s.companies.FindByID(companyID); err != nil {
		return nil, err
	}

	added := 0
	skipped := 0
	for _, raw := range questions {
		question := NormalizeQuestion(RawQuestion{
			Text:    raw.Text,
			Options: raw.Options,
			Answer:  raw.Answer,
			Section: raw.Section,
		})
		if !ValidateQuestion(question) {
			skipped++
			continue
		}

		embedding, duplicate := s.checkDuplicate(ctx, companyID, question.Text)
		if duplicate {
			skipped++
			continue
		}

		record := &models.CompanyQuestion{
			ID:        uuid.New(),
			CompanyID: companyID,
			Text:      question.Text,
			Options:   question.Options,
			Answer:    question.Answer,
			Section:   question.Section,
		}
		if err := s.companies.CreateQuestion(record); err != nil {
			return nil, err
		}
		added++

		if embedding != nil {
			if err := s.index.UpsertQuestion(ctx, record.ID.String(), companyID.String(), question.Text, embedding); err != nil {
				log.Printf("⚠️ Failed to index question %s: %v", record.ID, err)
			}
		}
	}

	log.Printf("✅ Company %s bank import: %d added, %d skipped", companyID, added, skipped)
	return &models.AddQuestionsResponse{
		Added:   added,
		Skipped: skipped,
	}, nil
}

// checkDuplicate returns the question's embedding and whether a near
// duplicate already exists in this company's bank. Any embedding or index
// failure reports no duplicate and a nil embedding.
func (s *companyService) checkDuplicate(ctx context.Context, companyID uuid.UUID, text string) ([]float32, bool) {
	embedding, err := s.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("⚠️ Embedding failed, importing without dedup: %v", err)
		return nil, false
	}

	matches, err := s.index.SearchSimilar(ctx, embedding, companyID.String(), 1)
	if err != nil {
		log.Printf("⚠️ Index search failed, importing without dedup: %v", err)
		return embedding, false
	}

	if len(matches) > 0 && matches[0].Score >= duplicateSimilarityThreshold {
		log.Printf("ℹ️ Skipping near duplicate of question %s (score %.3f)", matches[0].QuestionID, matches[0].Score)
		return embedding, true
	}

	return embedding, false
}
