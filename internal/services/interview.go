package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
)

const (
	generationTemperature = 0.7
	generationMaxTokens   = 1500

	// One question per 90 seconds of interview time, never fewer than one.
	secondsPerQuestion = 90
)

type CreateSessionInput struct {
	UserID          string
	Mode            models.InterviewMode
	InterviewType   models.InterviewType
	CompanyID       *uuid.UUID
	JobDescription  string
	DurationSeconds int
	ResumePDF       []byte
}

// InterviewService owns the session lifecycle up to analysis: creation with
// question planning, and read access with ownership enforcement.
type InterviewService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*models.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID, userID string) (*models.SessionDetailResponse, error)
}

type interviewService struct {
	sessions  repositories.SessionRepository
	answers   repositories.AnswerRepository
	companies repositories.CompanyRepository
	resumes   ResumeParser
	prompts   *PromptBuilder
	gemini    GeminiService
}

func NewInterviewService(
	sessions repositories.SessionRepository,
	answers repositories.AnswerRepository,
	companies repositories.CompanyRepository,
	resumes ResumeParser,
	prompts *PromptBuilder,
	gemini GeminiService,
) InterviewService {
	return &interviewService{
		sessions:  sessions,
		answers:   answers,
		companies: companies,
		resumes:   resumes,
		prompts:   prompts,
		gemini:    gemini,
	}
}

type generatedQuestions struct {
	Questions []models.Question `json:"questions"`
}

func (s *interviewService) CreateSession(ctx context.Context, input CreateSessionInput) (*models.CreateSessionResponse, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrValidation)
	}
	if input.DurationSeconds <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	switch input.InterviewType {
	case models.TypeTechnical, models.TypeHR:
	case "":
		input.InterviewType = models.TypeTechnical
	default:
		return nil, fmt.Errorf("%w: unknown interview type %q", ErrValidation, input.InterviewType)
	}

	resumeText := ""
	if len(input.ResumePDF) > 0 {
		text, err := s.resumes.ExtractText(input.ResumePDF)
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable resume: %v", ErrValidation, err)
		}
		resumeText = text
	}

	questionCount := input.DurationSeconds / secondsPerQuestion
	if questionCount < 1 {
		questionCount = 1
	}

	var (
		questions []models.Question
		err       error
	)
	switch input.Mode {
	case models.ModeCompany:
		questions, err = s.companyQuestions(input.CompanyID, questionCount)
	case models.ModeGeneral, "":
		input.Mode = models.ModeGeneral
		questions, err = s.generateQuestions(ctx, input.JobDescription, resumeText, questionCount, input.DurationSeconds)
	default:
		return nil, fmt.Errorf("%w: unknown interview mode %q", ErrValidation, input.Mode)
	}
	if err != nil {
		return nil, err
	}

	session := &models.InterviewSession{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Mode:            input.Mode,
		InterviewType:   input.InterviewType,
		CompanyID:       input.CompanyID,
		JobDescription:  input.JobDescription,
		ResumeText:      resumeText,
		DurationSeconds: input.DurationSeconds,
		Questions:       questions,
		Status:          models.StatusCreated,
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	log.Printf("✅ Session %s created with %d question(s)", session.ID, len(questions))

	return &models.CreateSessionResponse{
		SessionID:       session.ID.String(),
		Questions:       questions,
		DurationSeconds: input.DurationSeconds,
	}, nil
}

func (s *interviewService) GetSession(ctx context.Context, sessionID uuid.UUID, userID string) (*models.SessionDetailResponse, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	// A session owned by someone else is indistinguishable from a missing one.
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, repositories.ErrNotFound)
	}

	answers, err := s.answers.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	return &models.SessionDetailResponse{
		Session: session,
		Answers: answers,
	}, nil
}

// generateQuestions asks the text backend for a structured question plan and
// renumbers the result so IDs are always q1..qN regardless of what the model
// produced.
func (s *interviewService) generateQuestions(ctx context.Context, jobDescription, resumeText string, count, durationSeconds int) ([]models.Question, error) {
	system, user := s.prompts.BuildQuestionGenerationPrompts(jobDescription, resumeText, count, durationSeconds)

	response, err := s.gemini.GenerateText(ctx, system, user, generationTemperature, generationMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var payload generatedQuestions
	if err := decodeModelJSON(response, &payload); err != nil {
		return nil, fmt.Errorf("question generation returned malformed JSON: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("question generation returned no questions")
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if q.Text == "" {
			continue
		}
		seconds := q.EstimatedSeconds
		if seconds <= 0 {
			seconds = secondsPerQuestion
		}
		questions = append(questions, models.Question{
			ID:               fmt.Sprintf("q%d", i+1),
			Text:             q.Text,
			EstimatedSeconds: seconds,
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question generation returned no usable questions")
	}

	return questions, nil
}

// companyQuestions draws up to count questions from the company's bank in
// insertion order.
func (s *interviewService) companyQuestions(companyID *uuid.UUID, count int) ([]models.Question, error) {
	if companyID == nil {
		return nil, fmt.Errorf("%w: company mode requires company_id", ErrValidation)
	}

	if _, err := s.companies.FindByID(*companyID); err != nil {
		return nil, err
	}

	bank, err := s.companies.FindQuestions(*companyID, count)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: company has no questions", ErrValidation)
	}

	questions := make([]models.Question, 0, len(bank))
	for i, q := range bank {
		questions = append(questions, models.Question{
			ID:               fmt.Sprintf("q%d", i+1),
			Text:             q.Text,
			EstimatedSeconds: secondsPerQuestion,
		})
	}
	return questions, nil
}
