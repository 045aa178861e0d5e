// Package client talks to the CV screening REST API. Calls are grouped in
// four services (Auth, CV, Core, Utils) that share one credential store.
//
// Most calls report failure inside a models.Result envelope and never return
// an error. CheckUsername, CheckEmail and DownloadResume are the exceptions:
// they return an error instead, so callers handle them differently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/session"
)

const (
	// AuthScheme is the Authorization scheme the backend expects.
	AuthScheme = "Token"

	RequestIDHeader = "X-Request-ID"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	rest       *resty.Client
	store      session.Store
	logger     *zap.Logger

	Auth  *AuthService
	CV    *CVService
	Core  *CoreService
	Utils *UtilsService
}

type Option func(*Client)

// WithHTTPClient sends requests through hc. The default client has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	if _, err := session.Origin(baseURL); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rest = resty.NewWithClient(c.httpClient)
	} else {
		c.rest = resty.New()
	}
	c.rest.
		SetBaseURL(c.baseURL).
		SetRetryCount(0).
		SetLogger(c.logger.Sugar())

	c.Auth = &AuthService{client: c}
	c.CV = &CVService{client: c}
	c.Core = &CoreService{client: c}
	c.Utils = &UtilsService{client: c}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// token returns the stored bearer token. Store read failures count as absent.
func (c *Client) token() string {
	tok, ok, err := c.store.Get(session.TokenKey)
	if err != nil {
		c.logger.Warn("failed to read session token", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// request starts a request tagged with a fresh request ID. Authorization is
// added only when asked for and a token is stored.
func (c *Client) request(ctx context.Context, authenticated bool) *resty.Request {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if authenticated {
		if tok := c.token(); tok != "" {
			req.SetHeader("Authorization", AuthScheme+" "+tok)
		}
	}
	return req
}

func (c *Client) jsonRequest(ctx context.Context, query url.Values, payload any, authenticated bool) *resty.Request {
	req := c.request(ctx, authenticated).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if payload != nil {
		req.SetBody(payload)
	}
	return req
}

func (c *Client) send(req *resty.Request, method, path string) (*resty.Response, error) {
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
	)

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &RequestError{Method: method, Path: path, Cause: err}
	}

	c.logger.Debug("api response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)
	return resp, nil
}

// do sends req and decodes the JSON body into out via handleResponse.
func (c *Client) do(req *resty.Request, method, path string, out any) error {
	resp, err := c.send(req, method, path)
	if err != nil {
		return err
	}
	return handleResponse(resp.StatusCode(), resp.Body(), out)
}

// handleResponse decodes the body as JSON whatever its content type. On a
// non-2xx status the body's message, then error field, then
// "HTTP <status>" becomes the APIError message. An empty body on success
// leaves out untouched.
func handleResponse(status int, raw []byte, out any) error {
	if status < 200 || status >= 300 {
		return newAPIError(status, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{StatusCode: status, Cause: err}
	}
	return nil
}

func succeed[T any](data T) *models.Result[T] {
	return &models.Result[T]{Success: true, Data: data}
}

func fail[T any](err error) *models.Result[T] {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &models.Result[T]{Success: false, Message: msg}
}

// call is the shared body of every envelope method returning plain data.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, payload any, authenticated bool) *models.Result[T] {
	var data T
	if err := c.do(c.jsonRequest(ctx, query, payload, authenticated), method, path, &data); err != nil {
		return fail[T](err)
	}
	return succeed(data)
}
