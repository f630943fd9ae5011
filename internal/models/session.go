package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InterviewMode string

const (
	ModeGeneral InterviewMode = "general"
	ModeCompany InterviewMode = "company"
)

type InterviewType string

const (
	TypeTechnical InterviewType = "technical"
	TypeHR        InterviewType = "hr"
)

type SessionStatus string

const (
	StatusCreated    SessionStatus = "created"
	StatusInProgress SessionStatus = "in_progress"
	StatusAnalyzed   SessionStatus = "analyzed"
)

// Question is embedded in the session document; answers reference it by ID.
type Question struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	EstimatedSeconds int    `json:"estimated_seconds"`
}

type InterviewSession struct {
	ID              uuid.UUID                     `gorm:"type:uuid;primary_key" json:"id"`
	UserID          string                        `gorm:"type:text;not null;index" json:"user_id"`
	Mode            InterviewMode                 `gorm:"type:text;not null;default:'general'" json:"mode"`
	InterviewType   InterviewType                 `gorm:"type:text;not null;default:'technical'" json:"interview_type"`
	CompanyID       *uuid.UUID                    `gorm:"type:uuid" json:"company_id,omitempty"`
	JobDescription  string                        `gorm:"type:text" json:"job_description"`
	ResumeText      string                        `gorm:"type:text" json:"resume_text"`
	DurationSeconds int                           `json:"duration_seconds"`
	Questions       datatypes.JSONSlice[Question] `json:"questions"`
	Status          SessionStatus                 `gorm:"type:text;not null;default:'created'" json:"status"`
	FinalScore      *float64                      `gorm:"type:decimal(4,2)" json:"final_score"`
	CreatedAt       time.Time                     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time                     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	CompletedAt     *time.Time                    `json:"completed_at,omitempty"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// QuestionText returns the text of the embedded question with the given ID,
// or "" when the session carries no such question.
func (s *InterviewSession) QuestionText(questionID string) string {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return q.Text
		}
	}
	return ""
}
