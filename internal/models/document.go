package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentQueued     DocumentStatus = "queued"
	DocumentProcessing DocumentStatus = "processing"
	DocumentProcessed  DocumentStatus = "processed"
	DocumentFailed     DocumentStatus = "failed"
)

type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RequirementID    string         `gorm:"type:text;index" json:"requirement_id"`
	Filename         string         `gorm:"type:text" json:"filename"`
	OriginalFileName string         `gorm:"type:text" json:"original_filename"`
	FilePath         string         `gorm:"type:text" json:"-"`
	Status           DocumentStatus `gorm:"type:text;not null;default:'uploaded'" json:"status"`
	ErrorMessage     string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
