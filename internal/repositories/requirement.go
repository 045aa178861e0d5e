package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

type RequirementRepository interface {
	Create(req *models.Requirement) error
	FindByID(id string) (*models.Requirement, error)
	ListIDs() ([]string, error)
	Summaries() ([]models.RequirementSummary, error)
	UpdateStatus(id string, status string) error
	// Delete removes the requirement and its candidates and documents,
	// returning the number of candidate rows removed.
	Delete(id string) (int64, error)
}

type requirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(req *models.Requirement) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	return nil
}

func (r *requirementRepository) FindByID(id string) (*models.Requirement, error) {
	var req models.Requirement
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find requirement: %w", err)
	}
	return &req, nil
}

func (r *requirementRepository) ListIDs() ([]string, error) {
	var ids []string
	if err := r.db.Model(&models.Requirement{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return ids, nil
}

func (r *requirementRepository) Summaries() ([]models.RequirementSummary, error) {
	var reqs []models.Requirement
	if err := r.db.Order("id ASC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}

	summaries := make([]models.RequirementSummary, 0, len(reqs))
	for _, req := range reqs {
		var agg struct {
			Total   int
			Average float64
		}
		if err := r.db.Model(&models.CVDetail{}).
			Select("COUNT(*) AS total, COALESCE(AVG(resume_score), 0) AS average").
			Where("requirement_id = ?", req.ID).
			Scan(&agg).Error; err != nil {
			return nil, fmt.Errorf("failed to aggregate candidates: %w", err)
		}

		var top models.CVDetail
		topName := ""
		err := r.db.Where("requirement_id = ?", req.ID).
			Order("resume_score DESC, id ASC").
			First(&top).Error
		switch {
		case err == nil:
			topName = top.CandidateName
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to find top candidate: %w", err)
		}

		summaries = append(summaries, models.RequirementSummary{
			RequirementID:   req.ID,
			JobTitle:        req.JobTitle,
			TotalCandidates: agg.Total,
			AverageScore:    agg.Average,
			TopCandidate:    topName,
			Status:          req.Status,
		})
	}
	return summaries, nil
}

func (r *requirementRepository) UpdateStatus(id string, status string) error {
	result := r.db.Model(&models.Requirement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requirementRepository) Delete(id string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Requirement{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		cands := tx.Where("requirement_id = ?", id).Delete(&models.CVDetail{})
		if cands.Error != nil {
			return cands.Error
		}
		removed = cands.RowsAffected

		return tx.Where("requirement_id = ?", id).Delete(&models.Document{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to delete requirement: %w", err)
	}
	return removed, nil
}
