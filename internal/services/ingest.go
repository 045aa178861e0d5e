package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

// PendingSummary is stored on candidates the sandbox has not scored.
const PendingSummary = "Awaiting evaluation"

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	experiencePattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)`)
	nameSeparators    = strings.NewReplacer("_", " ", "-", " ", ".", " ")
)

// IngestService turns an uploaded document into a candidate row.
type IngestService interface {
	IngestDocument(ctx context.Context, docID uuid.UUID) error
}

type ingestService struct {
	docRepo   repositories.DocumentRepository
	candRepo  repositories.CandidateRepository
	reqRepo   repositories.RequirementRepository
	pdfParser PDFParserService
	logger    *zap.Logger
}

func NewIngestService(
	docRepo repositories.DocumentRepository,
	candRepo repositories.CandidateRepository,
	reqRepo repositories.RequirementRepository,
	pdfParser PDFParserService,
	logger *zap.Logger,
) IngestService {
	return &ingestService{
		docRepo:   docRepo,
		candRepo:  candRepo,
		reqRepo:   reqRepo,
		pdfParser: pdfParser,
		logger:    logger,
	}
}

func (s *ingestService) IngestDocument(ctx context.Context, docID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := s.docRepo.FindByID(docID)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", docID, err)
	}
	claimed, err := s.docRepo.Claim(doc.ID)
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("document %s is not queued", docID)
	}

	req, err := s.reqRepo.FindByID(doc.RequirementID)
	if err != nil {
		_ = s.docRepo.UpdateStatus(doc.ID, models.DocumentFailed, "requirement not found")
		return fmt.Errorf("failed to load requirement %s: %w", doc.RequirementID, err)
	}

	// Text extraction is best effort; a scanned PDF still yields a row.
	text, err := s.pdfParser.ExtractText(doc.FilePath)
	if err != nil {
		s.logger.Warn("⚠️  could not extract resume text",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		text = ""
	}
	text = CleanText(text)

	detail := &models.CVDetail{
		RequirementID:      req.ID,
		CandidateName:      CandidateNameFromFile(doc.OriginalFileName),
		EmailID:            emailPattern.FindString(text),
		YearsOfExperience:  ExtractExperience(text),
		ResumeScore:        0,
		JobDescription:     req.JobDescription,
		RequiredLocations:  req.RequiredLocations,
		RequiredExperience: req.RequiredExperience,
		EvaluationSummary:  PendingSummary,
		DocumentID:         doc.ID.String(),
		CreatedAt:          time.Now(),
	}
	if err := s.candRepo.Create(detail); err != nil {
		_ = s.docRepo.UpdateStatus(doc.ID, models.DocumentFailed, err.Error())
		return err
	}

	if err := s.docRepo.UpdateStatus(doc.ID, models.DocumentProcessed, ""); err != nil {
		return err
	}

	pending, err := s.docRepo.FindByRequirement(req.ID, models.DocumentQueued, models.DocumentProcessing)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		if err := s.reqRepo.UpdateStatus(req.ID, models.StatusComplete); err != nil {
			return err
		}
	}
	return nil
}

// CandidateNameFromFile derives a display name from an uploaded file name,
// e.g. "jane_doe-resume.pdf" becomes "Jane Doe Resume".
func CandidateNameFromFile(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	words := strings.Fields(nameSeparators.Replace(base))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return "Unknown Candidate"
	}
	return strings.Join(words, " ")
}

// ExtractExperience returns the first "N years" mention, or "" when none.
func ExtractExperience(text string) string {
	m := experiencePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] == "1" {
		return "1 year"
	}
	return m[1] + " years"
}
