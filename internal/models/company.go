package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Company struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   string    `gorm:"type:text" json:"created_by"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Company) TableName() string {
	return "companies"
}

// CompanyQuestion is a bank question attached to a company, typically imported
// from a parsed document.
type CompanyQuestion struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"company_id"`
	Text      string                      `gorm:"type:text;not null" json:"text"`
	Options   datatypes.JSONSlice[string] `json:"options"`
	Answer    *string                     `gorm:"type:text" json:"answer"`
	Section   string                      `gorm:"type:text;default:'General'" json:"section"`
	CreatedAt time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CompanyQuestion) TableName() string {
	return "company_questions"
}
