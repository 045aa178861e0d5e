package repositories

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/models"
)

const (
	DemoUsername = "admin"
	DemoPassword = "password"
)

type seedCandidate struct {
	Name       string
	Experience string
	Score      float64
	Summary    string
}

type seedRequirement struct {
	Req        models.Requirement
	Candidates []seedCandidate
}

var demoRequirements = []seedRequirement{
	{
		Req: models.Requirement{
			ID:                 "REQ001",
			JobTitle:           "Senior Software Engineer",
			JobDescription:     "Design and build backend services in Go and Python.",
			RequiredLocations:  "Remote, Berlin",
			RequiredExperience: "5+ years",
			Status:             models.StatusActive,
		},
		Candidates: []seedCandidate{
			{"John Doe", "7 years", 95, "Strong distributed systems background."},
			{"Alex Rodriguez", "5 years", 88, "Full stack profile, solid API work."},
			{"Priya Nair", "6 years", 74, "Good fundamentals, limited Go exposure."},
		},
	},
	{
		Req: models.Requirement{
			ID:                 "REQ002",
			JobTitle:           "Product Manager",
			JobDescription:     "Own the screening product roadmap.",
			RequiredLocations:  "London",
			RequiredExperience: "4+ years",
			Status:             models.StatusProcessing,
		},
		Candidates: []seedCandidate{
			{"Jane Smith", "8 years", 92, "Led two B2B SaaS launches."},
			{"Tom Becker", "3 years", 61, "Junior for the level requested."},
		},
	},
	{
		Req: models.Requirement{
			ID:                 "REQ003",
			JobTitle:           "Data Scientist",
			JobDescription:     "Build ranking models for candidate matching.",
			RequiredLocations:  "Remote",
			RequiredExperience: "3+ years",
			Status:             models.StatusComplete,
		},
		Candidates: []seedCandidate{
			{"Mike Johnson", "6 years", 98, "Published work on learning to rank."},
			{"Emma Chen", "4 years", 90, "Strong ML engineering track record."},
		},
	},
	{
		Req: models.Requirement{
			ID:                 "REQ004",
			JobTitle:           "UX Designer",
			JobDescription:     "Shape the recruiter dashboard experience.",
			RequiredLocations:  "Amsterdam",
			RequiredExperience: "2+ years",
			Status:             models.StatusActive,
		},
		Candidates: []seedCandidate{
			{"Sarah Wilson", "5 years", 89, "Portfolio shows strong research practice."},
		},
	},
}

// Seed inserts the demo user and requirements. It is a no-op when any
// requirement already exists.
func Seed(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.Requirement{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count requirements: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash demo password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("username = ?", DemoUsername).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			if err := tx.Create(&models.User{
				Username:     DemoUsername,
				Email:        "admin@example.com",
				FirstName:    "Demo",
				LastName:     "Admin",
				PasswordHash: string(hash),
				CreatedAt:    time.Now(),
			}).Error; err != nil {
				return err
			}
		}

		for _, sr := range demoRequirements {
			req := sr.Req
			if err := tx.Create(&req).Error; err != nil {
				return err
			}
			for _, c := range sr.Candidates {
				detail := models.CVDetail{
					RequirementID:      req.ID,
					CandidateName:      c.Name,
					EmailID:            strings.ToLower(strings.ReplaceAll(c.Name, " ", ".")) + "@example.com",
					YearsOfExperience:  c.Experience,
					ResumeScore:        c.Score,
					JobDescription:     req.JobDescription,
					RequiredLocations:  req.RequiredLocations,
					RequiredExperience: req.RequiredExperience,
					EvaluationSummary:  c.Summary,
				}
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed sandbox: %w", err)
	}
	return true, nil
}
