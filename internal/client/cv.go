package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"alfredoptarigan/cv-screener/internal/models"
)

// CVService covers /api/cv/. Every call sends the stored token.
type CVService struct {
	client *Client
}

// UploadFile is one part of an UploadFiles request.
type UploadFile struct {
	Name    string
	Content io.Reader
}

func (s *CVService) GetCVDetails(ctx context.Context, requirementID string, page, pageSize int) *models.Result[[]models.CVDetail] {
	c := s.client
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var raw json.RawMessage
	req := c.jsonRequest(ctx, query, nil, true)
	if err := c.do(req, http.MethodGet, "/api/cv/details/"+url.PathEscape(requirementID)+"/", &raw); err != nil {
		return fail[[]models.CVDetail](err)
	}

	details, pagination, err := decodeCVDetails(raw)
	if err != nil {
		return fail[[]models.CVDetail](err)
	}
	result := succeed(details)
	result.Pagination = pagination
	return result
}

// decodeCVDetails accepts {"results": [...], "pagination": {...}} or a bare
// list. An object without results yields no details, keeping any
// pagination it carries.
func decodeCVDetails(raw json.RawMessage) ([]models.CVDetail, *models.Pagination, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, nil
	}

	if trimmed[0] == '{' {
		var page struct {
			Results    json.RawMessage    `json:"results"`
			Pagination *models.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, nil, &DecodeError{StatusCode: http.StatusOK, Cause: err}
		}
		if page.Results == nil {
			return []models.CVDetail{}, page.Pagination, nil
		}
		var details []models.CVDetail
		if err := json.Unmarshal(page.Results, &details); err != nil {
			return nil, nil, &DecodeError{StatusCode: http.StatusOK, Cause: err}
		}
		return details, page.Pagination, nil
	}

	var details []models.CVDetail
	if err := json.Unmarshal(trimmed, &details); err != nil {
		return nil, nil, &DecodeError{StatusCode: http.StatusOK, Cause: err}
	}
	return details, nil, nil
}

func (s *CVService) GetRequirements(ctx context.Context) *models.Result[[]string] {
	return call[[]string](ctx, s.client, http.MethodGet, "/api/cv/requirements/", nil, nil, true)
}

func (s *CVService) GetRequirementDetails(ctx context.Context, requirementID string) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodGet,
		"/api/cv/requirements/"+url.PathEscape(requirementID)+"/", nil, nil, true)
}

func (s *CVService) DeleteRequirement(ctx context.Context, requirementID string) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodDelete,
		"/api/cv/requirements/"+url.PathEscape(requirementID)+"/delete/", nil, nil, true)
}

func (s *CVService) GetRequirementSummary(ctx context.Context) *models.Result[[]models.RequirementSummary] {
	return call[[]models.RequirementSummary](ctx, s.client, http.MethodGet, "/api/cv/summary/", nil, nil, true)
}

func (s *CVService) GetCVStatistics(ctx context.Context, requirementID string) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodGet,
		"/api/cv/statistics/"+url.PathEscape(requirementID)+"/", nil, nil, true)
}

func (s *CVService) ProcessUploadedFiles(ctx context.Context, payload any) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodPost, "/api/cv/process-uploads/", nil, payload, true)
}

func (s *CVService) GetSupportedFileTypes(ctx context.Context) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodGet, "/api/cv/supported-types/", nil, nil, true)
}

// DownloadResume returns the raw resume bytes. Unlike the envelope calls it
// reports failure through the returned error.
func (s *CVService) DownloadResume(ctx context.Context, candidateName string) ([]byte, error) {
	c := s.client
	req := c.request(ctx, true).SetDoNotParseResponse(true)

	resp, err := c.send(req, http.MethodGet, "/api/cv/resume/"+url.PathEscape(candidateName)+"/")
	if err != nil {
		return nil, err
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if !resp.IsSuccess() {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("Failed to download resume: %d", resp.StatusCode()),
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return data, nil
}

// UploadFiles posts files as multipart form data under the "files" field.
// Only Authorization is set explicitly; the content type carries the
// multipart boundary.
func (s *CVService) UploadFiles(ctx context.Context, files []UploadFile, requirementID string) *models.Result[map[string]any] {
	c := s.client
	req := c.request(ctx, true)
	for _, f := range files {
		req.SetFileReader("files", f.Name, f.Content)
	}
	if requirementID != "" {
		req.SetFormData(map[string]string{"requirement_id": requirementID})
	}

	var data map[string]any
	if err := c.do(req, http.MethodPost, "/api/cv/upload/", &data); err != nil {
		return fail[map[string]any](err)
	}
	return succeed(data)
}
