package client

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/session"
)

type CoreService struct {
	client *Client
}

// HealthCheck is unauthenticated and sends no content type.
func (s *CoreService) HealthCheck(ctx context.Context) *models.Result[map[string]any] {
	c := s.client
	req := c.request(ctx, false).SetHeader("Accept", "application/json")

	var data map[string]any
	if err := c.do(req, http.MethodGet, "/api/health/", &data); err != nil {
		return fail[map[string]any](err)
	}
	return succeed(data)
}

// UtilsService answers session questions from the local store only.
type UtilsService struct {
	client *Client
}

// IsAuthenticated reports whether a token key is present. The value is not checked.
func (s *UtilsService) IsAuthenticated() bool {
	_, ok, err := s.client.store.Get(session.TokenKey)
	if err != nil {
		s.client.logger.Warn("failed to read session token", zap.Error(err))
		return false
	}
	return ok
}

func (s *UtilsService) Username() (string, bool) {
	name, ok, err := s.client.store.Get(session.UsernameKey)
	if err != nil {
		s.client.logger.Warn("failed to read session username", zap.Error(err))
		return "", false
	}
	return name, ok
}

// SetAuthData upserts whichever of token and username are non-empty.
// AuthToken takes precedence over the legacy Token field.
func (s *UtilsService) SetAuthData(data models.AuthData) error {
	store := s.client.store
	token := data.AuthToken
	if token == "" {
		token = data.Token
	}
	if token != "" {
		if err := store.Set(session.TokenKey, token); err != nil {
			return err
		}
	}
	if data.Username != "" {
		if err := store.Set(session.UsernameKey, data.Username); err != nil {
			return err
		}
	}
	return nil
}

// FormatError turns a string, an error, or a decoded JSON object with a
// "message" or "error" field into display text.
func (s *UtilsService) FormatError(v any) string {
	return FormatError(v)
}

func FormatError(v any) string {
	switch e := v.(type) {
	case nil:
		return DefaultErrorMessage
	case string:
		return e
	case *APIError:
		if e != nil && e.Message != "" {
			return e.Message
		}
	case error:
		var apiErr *APIError
		if errors.As(e, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		if msg := e.Error(); msg != "" {
			return msg
		}
	case map[string]any:
		if msg := stringField(e, "message"); msg != "" {
			return msg
		}
		if msg := stringField(e, "error"); msg != "" {
			return msg
		}
	case map[string]string:
		if e["message"] != "" {
			return e["message"]
		}
		if e["error"] != "" {
			return e["error"]
		}
	}
	return DefaultErrorMessage
}
