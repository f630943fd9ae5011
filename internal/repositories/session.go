package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

// ErrNotFound marks lookups that failed because the record does not exist.
// It is never retried by the storage retry policy.
var ErrNotFound = errors.New("record not found")

type SessionRepository interface {
	Create(session *models.InterviewSession) error
	FindByID(id uuid.UUID) (*models.InterviewSession, error)
	UpdateStatus(id uuid.UUID, status models.SessionStatus) error
	MarkAnalyzed(id uuid.UUID, finalScore *float64) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update session status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sessionRepository) MarkAnalyzed(id uuid.UUID, finalScore *float64) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.StatusAnalyzed,
		"completed_at": now,
		"updated_at":   now,
	}
	if finalScore != nil {
		updates["final_score"] = *finalScore
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to mark session analyzed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}
