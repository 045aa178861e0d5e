package models

import "time"

// Requirement status is an open set; these are the values the sandbox
// produces, other strings are passed through untouched.
const (
	StatusActive     = "Active"
	StatusProcessing = "Processing"
	StatusComplete   = "Complete"
)

type Requirement struct {
	ID                 string    `gorm:"type:text;primaryKey" json:"requirement_id"`
	JobTitle           string    `gorm:"type:text" json:"job_title"`
	JobDescription     string    `gorm:"type:text" json:"job_description"`
	RequiredLocations  string    `gorm:"type:text" json:"required_locations"`
	RequiredExperience string    `gorm:"type:text" json:"required_experience"`
	Status             string    `gorm:"type:text;not null;default:'Active'" json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Requirement) TableName() string {
	return "requirements"
}

// CVDetail is both the sandbox row and the record the client decodes.
type CVDetail struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RequirementID      string    `gorm:"type:text;index" json:"requirement_id"`
	CandidateName      string    `gorm:"type:text;index" json:"candidate_name"`
	EmailID            string    `gorm:"type:text" json:"email_id"`
	YearsOfExperience  string    `gorm:"type:text" json:"years_of_experience"`
	ResumeScore        float64   `json:"resume_score"`
	JobDescription     string    `gorm:"type:text" json:"job_description"`
	RequiredLocations  string    `gorm:"type:text" json:"required_locations"`
	RequiredExperience string    `gorm:"type:text" json:"required_experience"`
	EvaluationSummary  string    `gorm:"type:text" json:"evaluation_summary"`
	DocumentID         string    `gorm:"type:text" json:"-"`
	CreatedAt          time.Time `json:"-"`
}

func (CVDetail) TableName() string {
	return "cv_details"
}

type RequirementSummary struct {
	RequirementID   string  `json:"requirement_id"`
	JobTitle        string  `json:"job_title"`
	TotalCandidates int     `json:"total_candidates"`
	AverageScore    float64 `json:"average_score"`
	TopCandidate    string  `json:"top_candidate"`
	Status          string  `json:"status"`
}
