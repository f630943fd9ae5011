package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Answer is stored independently of its session and joined at read time
// through the (session_id, question_id) index.
type Answer struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_answers_session_question" json:"session_id"`
	QuestionID  string                      `gorm:"type:text;not null;uniqueIndex:idx_answers_session_question" json:"question_id"`
	AudioPath   string                      `gorm:"type:text" json:"audio_path"`
	Transcript  string                      `gorm:"type:text" json:"transcript"`
	Score       *float64                    `gorm:"type:decimal(4,2)" json:"score"`
	Feedback    datatypes.JSONSlice[string] `json:"feedback"`
	ModelAnswer *string                     `gorm:"type:text" json:"model_answer"`
	CreatedAt   time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Answer) TableName() string {
	return "interview_answers"
}
