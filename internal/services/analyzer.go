package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/retry"
)

const (
	referenceTemperature = 0.5
	referenceMaxTokens   = 500

	evaluationTemperature = 0.2
	evaluationMaxTokens   = 1000
)

// RubricScores is the fixed five-part evaluation rubric, each item on a 1-10
// scale.
type RubricScores struct {
	Relevance int `json:"relevance"`
	Accuracy  int `json:"accuracy"`
	Depth     int `json:"depth"`
	Clarity   int `json:"clarity"`
	Fit       int `json:"fit"`
}

// FeedbackList tolerates models returning feedback as either a single string
// or an array of strings.
type FeedbackList []string

func (f *FeedbackList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("feedback is neither string nor array: %w", err)
	}
	if single == "" {
		*f = nil
	} else {
		*f = []string{single}
	}
	return nil
}

// AnswerEvaluation is the evaluation backend's per-answer verdict. Models
// disagree on the score field name, so both total_score and score are read
// with total_score winning.
type AnswerEvaluation struct {
	Scores            RubricScores `json:"scores"`
	TotalScore        *float64     `json:"total_score"`
	Score             *float64     `json:"score"`
	Feedback          FeedbackList `json:"feedback"`
	ComparisonSummary string       `json:"comparison_summary"`
	ModelAnswer       string       `json:"model_answer"`
}

// FinalScore returns the usable score with the total_score then score then
// zero fallback chain.
func (e *AnswerEvaluation) FinalScore() float64 {
	if e.TotalScore != nil {
		return *e.TotalScore
	}
	if e.Score != nil {
		return *e.Score
	}
	return 0
}

// AnalyzerService scores every unscored answer of a session and stamps the
// session with its final score. The operation is idempotent: answers already
// scored are never re-evaluated and the final score is recomputed from all
// scored answers each run.
type AnalyzerService interface {
	AnalyzeSession(ctx context.Context, sessionID uuid.UUID, userID string) (*models.AnalyzeResponse, error)
}

type analyzerService struct {
	sessions     repositories.SessionRepository
	answers      repositories.AnswerRepository
	prompts      *PromptBuilder
	gemini       GeminiService
	storageRetry retry.Policy
}

func NewAnalyzerService(
	sessions repositories.SessionRepository,
	answers repositories.AnswerRepository,
	prompts *PromptBuilder,
	gemini GeminiService,
	storageRetry retry.Policy,
) AnalyzerService {
	return &analyzerService{
		sessions:     sessions,
		answers:      answers,
		prompts:      prompts,
		gemini:       gemini,
		storageRetry: storageRetry,
	}
}

func (s *analyzerService) AnalyzeSession(ctx context.Context, sessionID uuid.UUID, userID string) (*models.AnalyzeResponse, error) {
	// References survive a storage retry so a re-run never re-generates them.
	referenceCache := make(map[string]string)

	var response *models.AnalyzeResponse
	err := s.storageRetry.Do(ctx, func() error {
		result, err := s.analyzeOnce(ctx, sessionID, userID, referenceCache)
		if err != nil {
			return err
		}
		response = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// analyzeOnce runs one full read-evaluate-write cycle. Storage errors
// propagate so the policy retries the whole cycle; AI failures only skip the
// affected answer.
func (s *analyzerService) analyzeOnce(ctx context.Context, sessionID uuid.UUID, userID string, referenceCache map[string]string) (*models.AnalyzeResponse, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, repositories.ErrNotFound)
	}

	answers, err := s.answers.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	evaluated := 0
	for i := range answers {
		answer := &answers[i]
		if answer.Score != nil || answer.Transcript == "" {
			continue
		}

		question := session.QuestionText(answer.QuestionID)
		if question == "" {
			log.Printf("⚠️ Answer %s references unknown question %s, skipping", answer.ID, answer.QuestionID)
			continue
		}

		reference, err := s.referenceAnswer(ctx, session, question, referenceCache)
		if err != nil {
			log.Printf("⚠️ Reference generation failed for question %s, skipping answer: %v", answer.QuestionID, err)
			continue
		}

		evaluation, err := s.evaluateAnswer(ctx, session, question, answer.Transcript, reference)
		if err != nil {
			log.Printf("⚠️ Evaluation failed for question %s, skipping answer: %v", answer.QuestionID, err)
			continue
		}

		modelAnswer := reference
		if modelAnswer == "" {
			modelAnswer = evaluation.ModelAnswer
		}

		score := evaluation.FinalScore()
		if err := s.answers.UpdateEvaluation(answer.ID, score, evaluation.Feedback, modelAnswer); err != nil {
			return nil, err
		}
		evaluated++
	}

	// Recompute the final score from every scored answer so repeated calls
	// converge on the same value.
	scored, err := s.answers.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	var sum float64
	var count int
	for _, answer := range scored {
		if answer.Score != nil {
			sum += *answer.Score
			count++
		}
	}

	var finalScore *float64
	if count > 0 {
		rounded := math.Round(sum/float64(count)*100) / 100
		finalScore = &rounded
	}

	if err := s.sessions.MarkAnalyzed(sessionID, finalScore); err != nil {
		return nil, err
	}

	reported := 0.0
	if finalScore != nil {
		reported = *finalScore
	}
	log.Printf("✅ Session %s analyzed: %d newly evaluated, final score %.2f", sessionID, evaluated, reported)

	return &models.AnalyzeResponse{
		Status:     string(models.StatusAnalyzed),
		FinalScore: reported,
	}, nil
}

// referenceAnswer returns the cached ideal answer for a question, generating
// it on first use.
func (s *analyzerService) referenceAnswer(ctx context.Context, session *models.InterviewSession, question string, cache map[string]string) (string, error) {
	if cached, ok := cache[question]; ok {
		return cached, nil
	}

	system, user := s.prompts.BuildReferenceAnswerPrompts(question, session.JobDescription, session.ResumeText, session.InterviewType)
	reference, err := s.gemini.GenerateText(ctx, system, user, referenceTemperature, referenceMaxTokens)
	if err != nil {
		return "", fmt.Errorf("reference answer generation failed: %w", err)
	}

	cache[question] = reference
	return reference, nil
}

func (s *analyzerService) evaluateAnswer(ctx context.Context, session *models.InterviewSession, question, transcript, reference string) (*AnswerEvaluation, error) {
	system, user := s.prompts.BuildEvaluationPrompts(question, transcript, reference, session.InterviewType)

	response, err := s.gemini.GenerateText(ctx, system, user, evaluationTemperature, evaluationMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("evaluation call failed: %w", err)
	}

	var evaluation AnswerEvaluation
	if err := decodeModelJSON(response, &evaluation); err != nil {
		return nil, &EvaluationParseError{Err: err}
	}

	return &evaluation, nil
}
