package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	reqRepo        repositories.RequirementRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	reqRepo repositories.RequirementRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		reqRepo:        reqRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /api/cv/upload/
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	requirementID := ""
	if vals := form.Value["requirement_id"]; len(vals) > 0 {
		requirementID = vals[0]
	}
	if requirementID != "" {
		if _, err := h.reqRepo.FindByID(requirementID); err != nil {
			return requirementError(c, err)
		}
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded. Send one or more 'files' parts.",
		})
	}

	responses := make([]models.UploadResponse, 0, len(files))
	for _, file := range files {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s is too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}

		filename, filePath, err := h.storageService.SaveFile(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s: %v", file.Filename, err),
			})
		}

		doc := models.Document{
			ID:               uuid.New(),
			RequirementID:    requirementID,
			Filename:         filename,
			OriginalFileName: file.Filename,
			FilePath:         filePath,
			Status:           models.DocumentUploaded,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}

		if err := h.docRepo.Create(&doc); err != nil {
			// Cleanup uploaded file if database insert fails
			_ = h.storageService.DeleteFile(filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save document record",
			})
		}

		responses = append(responses, models.UploadResponse{
			ID:            doc.ID.String(),
			Filename:      doc.Filename,
			OriginalName:  doc.OriginalFileName,
			RequirementID: doc.RequirementID,
			Status:        string(doc.Status),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

// HandleProcessUploads handles POST /api/cv/process-uploads/. Without
// document_ids every uploaded document of the requirement is queued.
// Listed documents must be uploaded or failed; a failed one is retried.
func (h *UploadHandler) HandleProcessUploads(c *fiber.Ctx) error {
	var req models.ProcessUploadsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.RequirementID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "requirement_id is required",
		})
	}
	if _, err := h.reqRepo.FindByID(req.RequirementID); err != nil {
		return requirementError(c, err)
	}

	var docs []models.Document
	if len(req.DocumentIDs) == 0 {
		found, err := h.docRepo.FindByRequirement(req.RequirementID, models.DocumentUploaded)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load documents",
			})
		}
		docs = found
	} else {
		ids := make([]uuid.UUID, 0, len(req.DocumentIDs))
		for _, raw := range req.DocumentIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("Invalid document id: %s", raw),
				})
			}
			ids = append(ids, id)
		}

		found, err := h.docRepo.FindByIDs(ids)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load documents",
			})
		}
		byID := make(map[uuid.UUID]models.Document, len(found))
		for _, doc := range found {
			byID[doc.ID] = doc
		}

		for _, id := range ids {
			doc, ok := byID[id]
			if !ok {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": fmt.Sprintf("Document not found: %s", id),
				})
			}
			if doc.RequirementID != "" && doc.RequirementID != req.RequirementID {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": fmt.Sprintf("Document %s belongs to requirement %s", id, doc.RequirementID),
				})
			}
			if doc.Status != models.DocumentUploaded && doc.Status != models.DocumentFailed {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": fmt.Sprintf("Document %s is already %s", id, doc.Status),
				})
			}
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No uploaded documents to process",
		})
	}

	for _, doc := range docs {
		if doc.RequirementID == "" {
			if err := h.docRepo.Assign(doc.ID, req.RequirementID); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Failed to assign document",
				})
			}
		}
		if err := h.docRepo.UpdateStatus(doc.ID, models.DocumentQueued, ""); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to queue document",
			})
		}
	}
	if err := h.reqRepo.UpdateStatus(req.RequirementID, models.StatusProcessing); err != nil {
		return requirementError(c, err)
	}

	// Enqueue after every status write so the requirement cannot be marked
	// complete while later documents are still uploaded.
	for _, doc := range docs {
		h.worker.EnqueueJob(doc.ID)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":        "Processing started",
		"requirement_id": req.RequirementID,
		"queued":         len(docs),
	})
}
