package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindByIDs(ids []uuid.UUID) ([]models.Document, error)
	FindByRequirement(requirementID string, statuses ...models.DocumentStatus) ([]models.Document, error)
	FindQueued(limit int) ([]models.Document, error)
	Claim(id uuid.UUID) (bool, error)
	UpdateStatus(id uuid.UUID, status models.DocumentStatus, errorMsg string) error
	Assign(id uuid.UUID, requirementID string) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// FindByIDs implements DocumentRepository.
func (d *documentRepository) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := d.db.Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	return docs, nil
}

// FindByRequirement implements DocumentRepository. No statuses matches any.
func (d *documentRepository) FindByRequirement(requirementID string, statuses ...models.DocumentStatus) ([]models.Document, error) {
	q := d.db.Where("requirement_id = ?", requirementID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var docs []models.Document
	if err := q.Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	return docs, nil
}

func (d *documentRepository) FindQueued(limit int) ([]models.Document, error) {
	var docs []models.Document
	err := d.db.
		Where("status = ?", models.DocumentQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find queued documents: %w", err)
	}
	return docs, nil
}

// Claim moves a queued document to processing. It reports false when the
// document was not queued, so at most one caller wins each document.
func (d *documentRepository) Claim(id uuid.UUID) (bool, error) {
	result := d.db.Model(&models.Document{}).
		Where("id = ? AND status = ?", id, models.DocumentQueued).
		Updates(map[string]interface{}{
			"status":     models.DocumentProcessing,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim document: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (d *documentRepository) UpdateStatus(id uuid.UUID, status models.DocumentStatus, errorMsg string) error {
	result := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update document status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *documentRepository) Assign(id uuid.UUID, requirementID string) error {
	result := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"requirement_id": requirementID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
