package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/session"
)

type recorded struct {
	Method      string
	Path        string
	RawQuery    string
	Auth        string
	ContentType string
	Body        []byte
}

// stubBackend records every request and lets each test register handlers.
type stubBackend struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recorded
	mux      *http.ServeMux
}

func newStubBackend(t *testing.T) *stubBackend {
	t.Helper()
	sb := &stubBackend{mux: http.NewServeMux()}
	sb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sb.mu.Lock()
		sb.requests = append(sb.requests, recorded{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		sb.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		sb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(sb.Close)
	return sb
}

func (sb *stubBackend) last() recorded {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.requests[len(sb.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, baseURL string) (*Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	c, err := New(baseURL, store)
	require.NoError(t, err)
	return c, store
}

// deadURL returns the address of a server that is no longer listening.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	_, err := New("not a url", session.NewMemoryStore())
	assert.Error(t, err)

	_, err = New("http://localhost:8000", nil)
	assert.Error(t, err)
}

func TestAuthenticate_PersistsSession(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "t1", "username": "admin"})
	})
	c, store := newTestClient(t, sb.URL)

	assert.False(t, c.Utils.IsAuthenticated())

	res := c.Auth.Authenticate(context.Background(), "admin", "password")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, "t1", res.Data.Token)
	assert.Empty(t, res.Message)

	tok, ok, _ := store.Get(session.TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)
	name, _, _ := store.Get(session.UsernameKey)
	assert.Equal(t, "admin", name)
	assert.True(t, c.Utils.IsAuthenticated())

	req := sb.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Empty(t, req.Auth)
	assert.JSONEq(t, `{"username":"admin","password":"password"}`, string(req.Body))
}

func TestAuthenticate_FallsBackToSuppliedUsername(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "t2"})
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.Auth.Authenticate(context.Background(), "carol", "pw")
	require.True(t, res.Success)

	name, ok := c.Utils.Username()
	assert.True(t, ok)
	assert.Equal(t, "carol", name)
}

func TestAuthenticate_FailureStoresNothing(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.Auth.Authenticate(context.Background(), "admin", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.Empty(t, res.Data)
	assert.False(t, c.Utils.IsAuthenticated())
	_, ok := c.Utils.Username()
	assert.False(t, ok)
}

// usernameFailStore refuses to write the username key.
type usernameFailStore struct {
	*session.MemoryStore
}

func (s usernameFailStore) Set(key, value string) error {
	if key == session.UsernameKey {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(key, value)
}

func TestAuthenticate_UsernameWriteFailureDropsToken(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "t1", "username": "admin"})
	})
	store := usernameFailStore{MemoryStore: session.NewMemoryStore()}
	c, err := New(sb.URL, store)
	require.NoError(t, err)

	res := c.Auth.Authenticate(context.Background(), "admin", "password")
	assert.False(t, res.Success)
	assert.Equal(t, "disk full", res.Message)
	assert.False(t, c.Utils.IsAuthenticated())
	_, ok, _ := store.Get(session.TokenKey)
	assert.False(t, ok)
}

func TestLogout_ClearsSessionWithoutNetwork(t *testing.T) {
	c, _ := newTestClient(t, deadURL(t))
	require.NoError(t, c.Utils.SetAuthData(models.AuthData{Token: "abc", Username: "bob"}))
	require.True(t, c.Utils.IsAuthenticated())

	c.Auth.Logout()

	assert.False(t, c.Utils.IsAuthenticated())
	_, ok := c.Utils.Username()
	assert.False(t, ok)
}

func TestRegister_DoesNotStoreSession(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered", "token": "ignored"})
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.Auth.Register(context.Background(), models.RegisterData{
		Username:        "dave",
		Email:           "dave@example.com",
		FirstName:       "Dave",
		LastName:        "Lee",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.True(t, res.Success)
	assert.Equal(t, "User registered", res.Data["message"])
	assert.False(t, c.Utils.IsAuthenticated())
	assert.Contains(t, string(sb.last().Body), `"password_confirm":"secret123"`)
}

func TestCheckAvailability(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/check-username/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"available": false})
	})
	sb.mux.HandleFunc("/api/auth/check-email/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email is required"})
	})
	c, _ := newTestClient(t, sb.URL)

	avail, err := c.Auth.CheckUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.JSONEq(t, `{"username":"admin"}`, string(sb.last().Body))

	_, err = c.Auth.CheckEmail(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "email is required", err.Error())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestPropagatingCalls_NetworkFailureReturnsError(t *testing.T) {
	c, _ := newTestClient(t, deadURL(t))
	ctx := context.Background()

	_, err := c.Auth.CheckUsername(ctx, "x")
	require.Error(t, err)
	assert.NotEmpty(t, err.Error())

	_, err = c.Auth.CheckEmail(ctx, "x@example.com")
	require.Error(t, err)
	assert.NotEmpty(t, err.Error())

	_, err = c.CV.DownloadResume(ctx, "John Doe")
	require.Error(t, err)
	assert.NotEmpty(t, err.Error())

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestEnvelopeCalls_NetworkFailureNeverErrors(t *testing.T) {
	c, _ := newTestClient(t, deadURL(t))
	ctx := context.Background()

	type outcome struct {
		name    string
		success bool
		message string
	}
	check := func(name string, success bool, message string) outcome {
		return outcome{name, success, message}
	}

	results := []outcome{
		func() outcome { r := c.Auth.Authenticate(ctx, "a", "b"); return check("authenticate", r.Success, r.Message) }(),
		func() outcome { r := c.Auth.Register(ctx, models.RegisterData{}); return check("register", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetCVDetails(ctx, "REQ001", 1, 10); return check("details", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetRequirements(ctx); return check("requirements", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetRequirementDetails(ctx, "REQ001"); return check("requirement", r.Success, r.Message) }(),
		func() outcome { r := c.CV.DeleteRequirement(ctx, "REQ001"); return check("delete", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetRequirementSummary(ctx); return check("summary", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetCVStatistics(ctx, "REQ001"); return check("statistics", r.Success, r.Message) }(),
		func() outcome {
			r := c.CV.UploadFiles(ctx, []UploadFile{{Name: "a.pdf", Content: strings.NewReader("x")}}, "")
			return check("upload", r.Success, r.Message)
		}(),
		func() outcome { r := c.CV.ProcessUploadedFiles(ctx, map[string]any{}); return check("process", r.Success, r.Message) }(),
		func() outcome { r := c.CV.GetSupportedFileTypes(ctx); return check("types", r.Success, r.Message) }(),
		func() outcome { r := c.Core.HealthCheck(ctx); return check("health", r.Success, r.Message) }(),
	}

	for _, r := range results {
		assert.False(t, r.success, r.name)
		assert.NotEmpty(t, r.message, r.name)
	}
}

func TestGetCVDetails_QueryAndPagination(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/details/REQ001/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"results": [{"id": 1, "requirement_id": "REQ001", "candidate_name": "John Doe", "resume_score": 95}],
			"pagination": {"count": 21, "next": "http://x/?page=3", "previous": "http://x/?page=1", "totalPages": 3, "page": 2}
		}`)
	})
	c, _ := newTestClient(t, sb.URL)
	require.NoError(t, c.Utils.SetAuthData(models.AuthData{Token: "abc"}))

	res := c.CV.GetCVDetails(context.Background(), "REQ001", 2, 10)
	require.True(t, res.Success, res.Message)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "John Doe", res.Data[0].CandidateName)
	assert.Equal(t, 95.0, res.Data[0].ResumeScore)

	require.NotNil(t, res.Pagination)
	assert.Equal(t, 21, res.Pagination.Count)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	require.NotNil(t, res.Pagination.Next)

	// Unknown pagination fields survive re-encoding.
	out, err := json.Marshal(res.Pagination)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"page":2`)

	req := sb.last()
	assert.Equal(t, "page=2&page_size=10", req.RawQuery)
	assert.Equal(t, "Token abc", req.Auth)
	assert.Equal(t, "application/json", req.ContentType)
}

func TestGetCVDetails_BareList(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/details/REQ002/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"candidate_name": "Jane Smith"}})
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.CV.GetCVDetails(context.Background(), "REQ002", 1, 10)
	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Nil(t, res.Pagination)
	assert.Empty(t, sb.last().Auth)
}

func TestGetCVDetails_ObjectWithoutResults(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/details/REQ003/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"pagination": map[string]any{"count": 0, "next": nil, "previous": nil, "totalPages": 0},
		})
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.CV.GetCVDetails(context.Background(), "REQ003", 1, 10)
	require.True(t, res.Success, res.Message)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, 0, res.Pagination.Count)

	sb.mux.HandleFunc("/api/cv/details/REQ004/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"detail": "nothing yet"})
	})
	res = c.CV.GetCVDetails(context.Background(), "REQ004", 1, 10)
	require.True(t, res.Success, res.Message)
	assert.Empty(t, res.Data)
	assert.Nil(t, res.Pagination)
}

func TestEnvelope_DecodeFailure(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/summary/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.CV.GetRequirementSummary(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "invalid response body")
	assert.Nil(t, res.Data)
}

func TestEnvelope_StatusMessageFallback(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/requirements/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "bad gateway")
	})
	c, _ := newTestClient(t, sb.URL)

	res := c.CV.GetRequirements(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 502", res.Message)
}

func TestAuthenticatedCallsUseStoredToken(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/auth/authenticate/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "abc", "username": "bob"})
	})
	sb.mux.HandleFunc("/api/cv/requirements/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{"REQ001", "REQ002"})
	})
	c, _ := newTestClient(t, sb.URL)

	require.NoError(t, c.Utils.SetAuthData(models.AuthData{Token: "abc", Username: "bob"}))
	name, _ := c.Utils.Username()
	assert.Equal(t, "bob", name)

	require.True(t, c.Auth.Authenticate(context.Background(), "bob", "pw").Success)

	res := c.CV.GetRequirements(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, []string{"REQ001", "REQ002"}, res.Data)
	assert.Equal(t, "Token abc", sb.last().Auth)
}

func TestRequirementEndpoints(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/requirements/REQ-9/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"requirement_id": "REQ-9"})
	})
	sb.mux.HandleFunc("/api/cv/requirements/REQ001/delete/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	})
	sb.mux.HandleFunc("/api/cv/statistics/REQ001/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total_candidates": 3})
	})
	sb.mux.HandleFunc("/api/cv/summary/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.RequirementSummary{{RequirementID: "REQ001", Status: "Paused"}})
	})
	sb.mux.HandleFunc("/api/cv/supported-types/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"supported_types": []string{".pdf"}})
	})
	sb.mux.HandleFunc("/api/cv/process-uploads/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, map[string]any{"queued": 2})
	})
	c, _ := newTestClient(t, sb.URL)
	ctx := context.Background()

	det := c.CV.GetRequirementDetails(ctx, "REQ-9")
	require.True(t, det.Success, det.Message)
	assert.Equal(t, "REQ-9", det.Data["requirement_id"])

	del := c.CV.DeleteRequirement(ctx, "REQ001")
	require.True(t, del.Success)
	assert.Equal(t, http.MethodDelete, sb.last().Method)

	stats := c.CV.GetCVStatistics(ctx, "REQ001")
	require.True(t, stats.Success)
	assert.EqualValues(t, 3, stats.Data["total_candidates"])

	sum := c.CV.GetRequirementSummary(ctx)
	require.True(t, sum.Success)
	assert.Equal(t, "Paused", sum.Data[0].Status)

	types := c.CV.GetSupportedFileTypes(ctx)
	require.True(t, types.Success)

	proc := c.CV.ProcessUploadedFiles(ctx, models.ProcessUploadsRequest{RequirementID: "REQ001", DocumentIDs: []string{"a", "b"}})
	require.True(t, proc.Success)
	assert.JSONEq(t, `{"requirement_id":"REQ001","document_ids":["a","b"]}`, string(sb.last().Body))
}

func TestDownloadResume(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/resume/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cv/resume/John Doe/" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Resume not found"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	c, _ := newTestClient(t, sb.URL)
	require.NoError(t, c.Utils.SetAuthData(models.AuthData{AuthToken: "abc"}))

	data, err := c.CV.DownloadResume(context.Background(), "John Doe")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
	req := sb.last()
	assert.Equal(t, "Token abc", req.Auth)
	assert.Empty(t, req.ContentType)

	_, err = c.CV.DownloadResume(context.Background(), "Nobody")
	require.Error(t, err)
	assert.Equal(t, "Failed to download resume: 404", err.Error())
}

func TestUploadFiles_Multipart(t *testing.T) {
	sb := newStubBackend(t)
	var names []string
	var requirement string
	sb.mux.HandleFunc("/api/cv/upload/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
		}
		requirement = r.FormValue("requirement_id")
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Files uploaded successfully"})
	})
	c, _ := newTestClient(t, sb.URL)
	require.NoError(t, c.Utils.SetAuthData(models.AuthData{Token: "abc"}))

	res := c.CV.UploadFiles(context.Background(), []UploadFile{
		{Name: "alice.pdf", Content: strings.NewReader("a")},
		{Name: "bob.pdf", Content: strings.NewReader("b")},
	}, "REQ001")
	require.True(t, res.Success, res.Message)

	assert.Equal(t, []string{"alice.pdf", "bob.pdf"}, names)
	assert.Equal(t, "REQ001", requirement)

	req := sb.last()
	assert.Equal(t, "Token abc", req.Auth)
	assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data; boundary="))
}

func TestHealthCheck_Unauthenticated(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/health/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	c, _ := newTestClient(t, sb.URL)
	require.NoError(t, c.Utils.SetAuthData(models.AuthData{Token: "abc"}))

	res := c.Core.HealthCheck(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, "healthy", res.Data["status"])

	req := sb.last()
	assert.Empty(t, req.Auth)
	assert.Empty(t, req.ContentType)
}

func TestWithHTTPClient_TimeoutSurfacesAsFailure(t *testing.T) {
	release := make(chan struct{})
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/health/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	defer close(release)

	c, err := New(sb.URL, session.NewMemoryStore(), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	require.NoError(t, err)

	res := c.Core.HealthCheck(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

type countingTransport struct {
	mu    sync.Mutex
	calls int
}

func (ct *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ct.mu.Lock()
	ct.calls++
	ct.mu.Unlock()
	return http.DefaultTransport.RoundTrip(r)
}

func TestWithHTTPClient_UsesSuppliedTransport(t *testing.T) {
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/cv/resume/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pdf"))
	})
	sb.mux.HandleFunc("/api/cv/upload/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"message": "ok"})
	})
	transport := &countingTransport{}
	c, err := New(sb.URL, session.NewMemoryStore(), WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)

	_, err = c.CV.DownloadResume(context.Background(), "Jane")
	require.NoError(t, err)
	res := c.CV.UploadFiles(context.Background(), []UploadFile{{Name: "a.pdf", Content: strings.NewReader("a")}}, "")
	require.True(t, res.Success, res.Message)

	assert.Equal(t, 2, transport.calls)
}

func TestRequestsCarryRequestID(t *testing.T) {
	ids := make(chan string, 2)
	sb := newStubBackend(t)
	sb.mux.HandleFunc("/api/health/", func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	c, _ := newTestClient(t, sb.URL)

	c.Core.HealthCheck(context.Background())
	c.Core.HealthCheck(context.Background())
	first, second := <-ids, <-ids
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
