package testutil

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/handlers"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

// MaxFileSize is the upload limit the test sandbox enforces.
const MaxFileSize = 1 << 20

// Sandbox is a seeded sandbox backend on a temporary sqlite database.
type Sandbox struct {
	App        *fiber.App
	DB         *gorm.DB
	UploadPath string
	Users      repositories.UserRepository
	Reqs       repositories.RequirementRepository
	Candidates repositories.CandidateRepository
	Documents  repositories.DocumentRepository
	Worker     services.Worker
}

// NewSandbox builds the sandbox app with the demo seed applied. The ingest
// worker is running and is stopped on test cleanup.
func NewSandbox(t *testing.T) *Sandbox {
	t.Helper()

	dir := t.TempDir()
	db, err := config.OpenDatabase("sqlite", filepath.Join(dir, "sandbox.db"), "", false)
	if err != nil {
		t.Fatalf("open sandbox database: %v", err)
	}
	if err := config.MigrateSandbox(db); err != nil {
		t.Fatalf("migrate sandbox database: %v", err)
	}
	if _, err := repositories.Seed(db); err != nil {
		t.Fatalf("seed sandbox database: %v", err)
	}

	sb := &Sandbox{
		DB:         db,
		UploadPath: filepath.Join(dir, "uploads"),
		Users:      repositories.NewUserRepository(db),
		Reqs:       repositories.NewRequirementRepository(db),
		Candidates: repositories.NewCandidateRepository(db),
		Documents:  repositories.NewDocumentRepository(db),
	}

	storage := services.NewStorageService(sb.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		t.Fatalf("create upload dir: %v", err)
	}

	logger := zap.NewNop()
	ingest := services.NewIngestService(sb.Documents, sb.Candidates, sb.Reqs, services.NewPDFParserService(), logger)
	sb.Worker = services.NewWorker(sb.Documents, ingest, 2, 0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sb.Worker.Start(ctx)
	t.Cleanup(func() {
		sb.Worker.Stop()
		cancel()
	})

	sb.App = handlers.NewApp(handlers.RouterConfig{
		AppName:   "sandbox-test",
		BodyLimit: MaxFileSize * 4,
		UserRepo:  sb.Users,
		Auth:      handlers.NewAuthHandler(sb.Users),
		CV:        handlers.NewCVHandler(sb.Reqs, sb.Candidates, sb.Documents, storage, MaxFileSize),
		Upload:    handlers.NewUploadHandler(sb.Documents, sb.Reqs, storage, sb.Worker, MaxFileSize),
	})
	return sb
}

// Serve exposes the sandbox over a real listener and returns its base URL.
func (sb *Sandbox) Serve(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(adaptor.FiberApp(sb.App))
	t.Cleanup(srv.Close)
	return srv.URL
}

// DemoToken logs the demo user in directly and returns its API token.
func (sb *Sandbox) DemoToken(t *testing.T) string {
	t.Helper()
	user, err := sb.Users.FindByUsername(repositories.DemoUsername)
	if err != nil {
		t.Fatalf("find demo user: %v", err)
	}
	if user.Token == "" {
		user.Token = "demo-token"
		if err := sb.Users.SetToken(user.ID, user.Token); err != nil {
			t.Fatalf("set demo token: %v", err)
		}
	}
	return user.Token
}

// WaitFor polls cond until it holds or the deadline passes.
func WaitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
