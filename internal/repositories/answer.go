package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

type AnswerRepository interface {
	Create(answer *models.Answer) error
	FindBySession(sessionID uuid.UUID) ([]models.Answer, error)
	FindBySessionAndQuestion(sessionID uuid.UUID, questionID string) (*models.Answer, error)
	UpdateSubmission(id uuid.UUID, audioPath, transcript string) error
	UpdateEvaluation(id uuid.UUID, score float64, feedback []string, modelAnswer string) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(answer *models.Answer) error {
	if err := r.db.Create(answer).Error; err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

func (r *answerRepository) FindBySession(sessionID uuid.UUID) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find answers: %w", err)
	}
	return answers, nil
}

func (r *answerRepository) FindBySessionAndQuestion(sessionID uuid.UUID, questionID string) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer for question %s: %w", questionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}
	return &answer, nil
}

func (r *answerRepository) UpdateSubmission(id uuid.UUID, audioPath, transcript string) error {
	result := r.db.Model(&models.Answer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"audio_path": audioPath,
			"transcript": transcript,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update answer submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("answer %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *answerRepository) UpdateEvaluation(id uuid.UUID, score float64, feedback []string, modelAnswer string) error {
	result := r.db.Model(&models.Answer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":        score,
			"feedback":     datatypes.NewJSONSlice(feedback),
			"model_answer": modelAnswer,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update answer evaluation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("answer %s: %w", id, ErrNotFound)
	}
	return nil
}
