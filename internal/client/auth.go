package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/session"
)

// AuthService covers /api/auth/ and the local session lifecycle.
type AuthService struct {
	client *Client
}

// Authenticate posts credentials and, when the response carries a token,
// stores it together with the returned (or supplied) username. Nothing is
// stored on failure, including a failure to store the username.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) *models.Result[models.AuthResponse] {
	c := s.client
	req := c.jsonRequest(ctx, nil, models.LoginRequest{Username: username, Password: password}, false)

	var resp models.AuthResponse
	if err := c.do(req, http.MethodPost, "/api/auth/authenticate/", &resp); err != nil {
		return fail[models.AuthResponse](err)
	}

	if resp.Token != "" {
		name := resp.Username
		if name == "" {
			name = username
		}
		if err := c.store.Set(session.TokenKey, resp.Token); err != nil {
			return fail[models.AuthResponse](err)
		}
		if err := c.store.Set(session.UsernameKey, name); err != nil {
			if derr := c.store.Delete(session.TokenKey); derr != nil {
				c.logger.Warn("failed to roll back session token", zap.Error(derr))
			}
			return fail[models.AuthResponse](err)
		}
		c.logger.Debug("session stored", zap.String("username", name))
	}

	result := succeed(resp)
	result.Token = resp.Token
	return result
}

// Register creates an account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, data models.RegisterData) *models.Result[map[string]any] {
	return call[map[string]any](ctx, s.client, http.MethodPost, "/api/auth/register/", nil, data, false)
}

// CheckUsername returns an error on any failure instead of an envelope.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (*models.Availability, error) {
	return s.checkAvailability(ctx, "/api/auth/check-username/", map[string]string{"username": username})
}

// CheckEmail returns an error on any failure instead of an envelope.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (*models.Availability, error) {
	return s.checkAvailability(ctx, "/api/auth/check-email/", map[string]string{"email": email})
}

func (s *AuthService) checkAvailability(ctx context.Context, path string, payload map[string]string) (*models.Availability, error) {
	c := s.client
	var out models.Availability
	if err := c.do(c.jsonRequest(ctx, nil, payload, false), http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout forgets the stored session. It makes no network call and cannot
// fail; store errors are only logged.
func (s *AuthService) Logout() {
	if err := s.client.store.Delete(session.TokenKey, session.UsernameKey); err != nil {
		s.client.logger.Warn("failed to clear session", zap.Error(err))
	}
}
