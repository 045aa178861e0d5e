package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CVHandler struct {
	reqRepo        repositories.RequirementRepository
	candRepo       repositories.CandidateRepository
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewCVHandler(
	reqRepo repositories.RequirementRepository,
	candRepo repositories.CandidateRepository,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *CVHandler {
	return &CVHandler{
		reqRepo:        reqRepo,
		candRepo:       candRepo,
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleGetDetails handles GET /api/cv/details/:requirementId/
func (h *CVHandler) HandleGetDetails(c *fiber.Ctx) error {
	reqID := c.Params("requirementId")

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	details, total, err := h.candRepo.ListByRequirement(reqID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load CV details",
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	pagination := models.Pagination{
		Count:      int(total),
		TotalPages: totalPages,
	}
	if page < totalPages {
		next := pageLink(c, page+1, pageSize)
		pagination.Next = &next
	}
	if page > 1 {
		prev := pageLink(c, page-1, pageSize)
		pagination.Previous = &prev
	}

	return c.JSON(models.CVDetailsPage{
		Results:    details,
		Pagination: &pagination,
	})
}

func pageLink(c *fiber.Ctx, page, pageSize int) string {
	return fmt.Sprintf("%s%s?page=%d&page_size=%d", c.BaseURL(), c.Path(), page, pageSize)
}

// HandleListRequirements handles GET /api/cv/requirements/
func (h *CVHandler) HandleListRequirements(c *fiber.Ctx) error {
	ids, err := h.reqRepo.ListIDs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list requirements",
		})
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(ids)
}

// HandleGetRequirement handles GET /api/cv/requirements/:id/
func (h *CVHandler) HandleGetRequirement(c *fiber.Ctx) error {
	req, err := h.reqRepo.FindByID(c.Params("id"))
	if err != nil {
		return requirementError(c, err)
	}

	docs, err := h.docRepo.FindByRequirement(req.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load documents",
		})
	}

	return c.JSON(fiber.Map{
		"requirement_id":      req.ID,
		"job_title":           req.JobTitle,
		"job_description":     req.JobDescription,
		"required_locations":  req.RequiredLocations,
		"required_experience": req.RequiredExperience,
		"status":              req.Status,
		"documents":           docs,
		"created_at":          req.CreatedAt,
	})
}

// HandleDeleteRequirement handles DELETE /api/cv/requirements/:id/delete/.
// Stored resume files go with the requirement's documents.
func (h *CVHandler) HandleDeleteRequirement(c *fiber.Ctx) error {
	id := c.Params("id")
	docs, err := h.docRepo.FindByRequirement(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load documents",
		})
	}

	removed, err := h.reqRepo.Delete(id)
	if err != nil {
		return requirementError(c, err)
	}

	// A file that is already gone does not fail the delete.
	deletedFiles := 0
	for _, doc := range docs {
		if err := h.storageService.DeleteFile(doc.Filename); err == nil {
			deletedFiles++
		}
	}

	resp := fiber.Map{
		"message":            fmt.Sprintf("Requirement %s deleted", id),
		"requirement_id":     id,
		"deleted_candidates": removed,
		"deleted_files":      deletedFiles,
	}
	if user := currentUser(c); user != nil {
		resp["deleted_by"] = user.Username
	}
	return c.JSON(resp)
}

// HandleGetSummary handles GET /api/cv/summary/
func (h *CVHandler) HandleGetSummary(c *fiber.Ctx) error {
	summaries, err := h.reqRepo.Summaries()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build summary",
		})
	}
	return c.JSON(summaries)
}

// HandleGetStatistics handles GET /api/cv/statistics/:id/
func (h *CVHandler) HandleGetStatistics(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.reqRepo.FindByID(id); err != nil {
		return requirementError(c, err)
	}

	stats, err := h.candRepo.Statistics(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute statistics",
		})
	}
	return c.JSON(stats)
}

// HandleDownloadResume handles GET /api/cv/resume/*. The path is unescaped
// before routing, so the wildcard keeps names that contain a slash.
func (h *CVHandler) HandleDownloadResume(c *fiber.Ctx) error {
	name := strings.TrimSuffix(c.Params("*"), "/")
	cand, err := h.candRepo.FindByName(name)
	if err != nil || cand.DocumentID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	docID, err := uuid.Parse(cand.DocumentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}
	doc, err := h.docRepo.FindByID(docID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume file is missing",
		})
	}

	c.Type(strings.TrimPrefix(filepath.Ext(doc.FilePath), "."))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.OriginalFileName))
	return c.Send(data)
}

// HandleSupportedTypes handles GET /api/cv/supported-types/
func (h *CVHandler) HandleSupportedTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"supported_types": services.SupportedExtensions,
		"max_file_size":   h.maxFileSize,
	})
}

func requirementError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Requirement not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to load requirement",
	})
}
