package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
)

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*models.Company
	questions map[uuid.UUID][]models.CompanyQuestion
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		companies: make(map[uuid.UUID]*models.Company),
		questions: make(map[uuid.UUID][]models.CompanyQuestion),
	}
}

func (r *fakeCompanyRepo) Create(company *models.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCompanyRepo) FindAll() ([]models.Company, error) {
	var all []models.Company
	for _, c := range r.companies {
		all = append(all, *c)
	}
	return all, nil
}

func (r *fakeCompanyRepo) FindByID(id uuid.UUID) (*models.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, repositories.ErrNotFound)
	}
	return company, nil
}

func (r *fakeCompanyRepo) FindByName(name string) (*models.Company, error) {
	for _, c := range r.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("company %q: %w", name, repositories.ErrNotFound)
}

func (r *fakeCompanyRepo) CountQuestions(companyID uuid.UUID) (int64, error) {
	return int64(len(r.questions[companyID])), nil
}

func (r *fakeCompanyRepo) CreateQuestion(question *models.CompanyQuestion) error {
	r.questions[question.CompanyID] = append(r.questions[question.CompanyID], *question)
	return nil
}

func (r *fakeCompanyRepo) FindQuestions(companyID uuid.UUID, limit int) ([]models.CompanyQuestion, error) {
	questions := r.questions[companyID]
	if limit > 0 && limit < len(questions) {
		questions = questions[:limit]
	}
	return questions, nil
}

type fakeResumeParser struct {
	text string
	err  error
}

func (p *fakeResumeParser) ExtractText(data []byte) (string, error) {
	return p.text, p.err
}

func generationResponse(count int) string {
	var sb strings.Builder
	sb.WriteString(`{"questions": [`)
	for i := 1; i <= count; i++ {
		if i > 1 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "weird-%d", "text": "Question %d?", "estimated_seconds": 0}`, i, i)
	}
	sb.WriteString("]}")
	return sb.String()
}

func newTestInterviewService(sessions *fakeSessionRepo, companies *fakeCompanyRepo, resumes ResumeParser, gemini GeminiService) InterviewService {
	if resumes == nil {
		resumes = &fakeResumeParser{}
	}
	return NewInterviewService(sessions, &fakeAnswerRepo{}, companies, resumes, NewPromptBuilder(), gemini)
}

func TestCreateSessionGeneralMode(t *testing.T) {
	sessions := newFakeSessionRepo()

	var requestedCount int
	gemini := &fakeGemini{
		generateText: func(_ context.Context, system, _ string, temperature float32, _ int32) (string, error) {
			if temperature != generationTemperature {
				t.Errorf("unexpected generation temperature %v", temperature)
			}
			if strings.Contains(system, "exactly 3 questions") {
				requestedCount = 3
			}
			return generationResponse(3), nil
		},
	}

	svc := newTestInterviewService(sessions, newFakeCompanyRepo(), nil, gemini)

	response, err := svc.CreateSession(context.Background(), CreateSessionInput{
		UserID:          "user-1",
		Mode:            models.ModeGeneral,
		InterviewType:   models.TypeTechnical,
		JobDescription:  "Backend engineer",
		DurationSeconds: 300,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 300 seconds at 90 seconds per question asks for 3.
	if requestedCount != 3 {
		t.Error("expected the prompt to request exactly 3 questions")
	}
	if len(response.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(response.Questions))
	}
	for i, q := range response.Questions {
		if q.ID != fmt.Sprintf("q%d", i+1) {
			t.Errorf("question %d has ID %q, IDs must be renumbered", i, q.ID)
		}
		if q.EstimatedSeconds != 90 {
			t.Errorf("question %d: expected default 90 seconds, got %d", i, q.EstimatedSeconds)
		}
	}

	stored, err := sessions.FindByID(uuid.MustParse(response.SessionID))
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.Status != models.StatusCreated {
		t.Errorf("unexpected status %s", stored.Status)
	}
}

func TestCreateSessionShortDurationStillAsksOneQuestion(t *testing.T) {
	sessions := newFakeSessionRepo()
	gemini := &fakeGemini{
		generateText: func(_ context.Context, system, _ string, _ float32, _ int32) (string, error) {
			if !strings.Contains(system, "exactly 1 questions") {
				t.Errorf("expected a one-question request, prompt was %q", system)
			}
			return generationResponse(1), nil
		},
	}

	svc := newTestInterviewService(sessions, newFakeCompanyRepo(), nil, gemini)

	response, err := svc.CreateSession(context.Background(), CreateSessionInput{
		UserID:          "user-1",
		DurationSeconds: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(response.Questions))
	}
}

func TestCreateSessionCompanyMode(t *testing.T) {
	sessions := newFakeSessionRepo()
	companies := newFakeCompanyRepo()

	company := &models.Company{ID: uuid.New(), Name: "Acme"}
	companies.Create(company)
	for i := 0; i < 5; i++ {
		companies.CreateQuestion(&models.CompanyQuestion{
			ID:        uuid.New(),
			CompanyID: company.ID,
			Text:      fmt.Sprintf("Bank question %d", i+1),
			Options:   []string{"a", "b"},
		})
	}

	svc := newTestInterviewService(sessions, companies, nil, &fakeGemini{})

	response, err := svc.CreateSession(context.Background(), CreateSessionInput{
		UserID:          "user-1",
		Mode:            models.ModeCompany,
		CompanyID:       &company.ID,
		DurationSeconds: 180,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 180 seconds draws 2 questions from the bank.
	if len(response.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(response.Questions))
	}
	if response.Questions[0].ID != "q1" || response.Questions[1].ID != "q2" {
		t.Errorf("bank questions must be renumbered, got %q %q", response.Questions[0].ID, response.Questions[1].ID)
	}
	if response.Questions[0].Text != "Bank question 1" {
		t.Errorf("unexpected question text %q", response.Questions[0].Text)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc := newTestInterviewService(newFakeSessionRepo(), newFakeCompanyRepo(), nil, &fakeGemini{})

	cases := []struct {
		name  string
		input CreateSessionInput
	}{
		{"missing user", CreateSessionInput{DurationSeconds: 90}},
		{"non-positive duration", CreateSessionInput{UserID: "u", DurationSeconds: 0}},
		{"unknown mode", CreateSessionInput{UserID: "u", DurationSeconds: 90, Mode: "mystery"}},
		{"unknown type", CreateSessionInput{UserID: "u", DurationSeconds: 90, InterviewType: "vibes"}},
		{"company mode without company", CreateSessionInput{UserID: "u", DurationSeconds: 90, Mode: models.ModeCompany}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateSession(context.Background(), tc.input); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSessionUnreadableResume(t *testing.T) {
	svc := newTestInterviewService(
		newFakeSessionRepo(),
		newFakeCompanyRepo(),
		&fakeResumeParser{err: errors.New("not a pdf")},
		&fakeGemini{},
	)

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{
		UserID:          "user-1",
		DurationSeconds: 90,
		ResumePDF:       []byte("garbage"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetSessionOwnership(t *testing.T) {
	session := testSession("q1")
	sessions := newFakeSessionRepo(session)
	svc := newTestInterviewService(sessions, newFakeCompanyRepo(), nil, &fakeGemini{})

	detail, err := svc.GetSession(context.Background(), session.ID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Session.ID != session.ID {
		t.Errorf("wrong session returned")
	}

	if _, err := svc.GetSession(context.Background(), session.ID, "intruder"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("foreign session must look missing, got %v", err)
	}
}
