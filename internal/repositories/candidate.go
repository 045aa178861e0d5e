package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

type CandidateStatistics struct {
	RequirementID     string         `json:"requirement_id"`
	TotalCandidates   int64          `json:"total_candidates"`
	AverageScore      float64        `json:"average_score"`
	MaxScore          float64        `json:"max_score"`
	MinScore          float64        `json:"min_score"`
	ScoreDistribution map[string]int `json:"score_distribution"`
}

type CandidateRepository interface {
	Create(detail *models.CVDetail) error
	ListByRequirement(requirementID string, page, pageSize int) ([]models.CVDetail, int64, error)
	FindByName(name string) (*models.CVDetail, error)
	Statistics(requirementID string) (*CandidateStatistics, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(detail *models.CVDetail) error {
	if err := r.db.Create(detail).Error; err != nil {
		return fmt.Errorf("failed to create cv detail: %w", err)
	}
	return nil
}

// ListByRequirement returns one page ordered by score, best first, and the
// total row count for the requirement.
func (r *candidateRepository) ListByRequirement(requirementID string, page, pageSize int) ([]models.CVDetail, int64, error) {
	var total int64
	if err := r.db.Model(&models.CVDetail{}).
		Where("requirement_id = ?", requirementID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cv details: %w", err)
	}

	details := []models.CVDetail{}
	err := r.db.Where("requirement_id = ?", requirementID).
		Order("resume_score DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&details).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cv details: %w", err)
	}
	return details, total, nil
}

func (r *candidateRepository) FindByName(name string) (*models.CVDetail, error) {
	var detail models.CVDetail
	if err := r.db.Where("candidate_name = ?", name).Order("id DESC").First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &detail, nil
}

func (r *candidateRepository) Statistics(requirementID string) (*CandidateStatistics, error) {
	var scores []float64
	if err := r.db.Model(&models.CVDetail{}).
		Where("requirement_id = ?", requirementID).
		Pluck("resume_score", &scores).Error; err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	stats := &CandidateStatistics{
		RequirementID: requirementID,
		ScoreDistribution: map[string]int{
			"0-25":   0,
			"25-50":  0,
			"50-75":  0,
			"75-100": 0,
		},
	}
	if len(scores) == 0 {
		return stats, nil
	}

	sum := 0.0
	stats.MinScore = scores[0]
	stats.MaxScore = scores[0]
	for _, s := range scores {
		sum += s
		if s > stats.MaxScore {
			stats.MaxScore = s
		}
		if s < stats.MinScore {
			stats.MinScore = s
		}
		switch {
		case s < 25:
			stats.ScoreDistribution["0-25"]++
		case s < 50:
			stats.ScoreDistribution["25-50"]++
		case s < 75:
			stats.ScoreDistribution["50-75"]++
		default:
			stats.ScoreDistribution["75-100"]++
		}
	}
	stats.TotalCandidates = int64(len(scores))
	stats.AverageScore = sum / float64(len(scores))
	return stats, nil
}
