package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

func TestCandidateNameFromFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jane_doe.pdf", "Jane Doe"},
		{"JOHN-SMITH-resume.pdf", "John Smith Resume"},
		{"/tmp/uploads/élodie.martin.pdf", "Élodie Martin"},
		{"___.pdf", "Unknown Candidate"},
		{"", "Unknown Candidate"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateNameFromFile(tt.filename))
		})
	}
}

func TestExtractExperience(t *testing.T) {
	assert.Equal(t, "7 years", ExtractExperience("Backend engineer with 7 years of Go"))
	assert.Equal(t, "1 year", ExtractExperience("1 year in data"))
	assert.Equal(t, "10 years", ExtractExperience("10+ yrs experience"))
	assert.Equal(t, "", ExtractExperience("fresh graduate"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb", CleanText("  a  \n\n   \n b \n"))
}

type ingestFixture struct {
	docs    repositories.DocumentRepository
	cands   repositories.CandidateRepository
	reqs    repositories.RequirementRepository
	ingest  IngestService
	tempDir string
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	dir := t.TempDir()
	db, err := config.OpenDatabase("sqlite", filepath.Join(dir, "test.db"), "", false)
	require.NoError(t, err)
	require.NoError(t, config.MigrateSandbox(db))

	f := &ingestFixture{
		docs:    repositories.NewDocumentRepository(db),
		cands:   repositories.NewCandidateRepository(db),
		reqs:    repositories.NewRequirementRepository(db),
		tempDir: dir,
	}
	f.ingest = NewIngestService(f.docs, f.cands, f.reqs, NewPDFParserService(), zap.NewNop())

	require.NoError(t, f.reqs.Create(&models.Requirement{
		ID:                 "REQ100",
		JobTitle:           "Go Developer",
		JobDescription:     "Write Go",
		RequiredLocations:  "Remote",
		RequiredExperience: "3+ years",
		Status:             models.StatusProcessing,
	}))
	return f
}

func (f *ingestFixture) addDocument(t *testing.T, original string, status models.DocumentStatus) uuid.UUID {
	t.Helper()
	path := filepath.Join(f.tempDir, uuid.NewString()+".pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 junk"), 0o644))

	doc := &models.Document{
		ID:               uuid.New(),
		RequirementID:    "REQ100",
		Filename:         filepath.Base(path),
		OriginalFileName: original,
		FilePath:         path,
		Status:           status,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, f.docs.Create(doc))
	return doc.ID
}

func TestIngestDocument(t *testing.T) {
	f := newIngestFixture(t)
	first := f.addDocument(t, "ada_lovelace.pdf", models.DocumentQueued)
	second := f.addDocument(t, "alan-turing.pdf", models.DocumentQueued)
	ctx := context.Background()

	require.NoError(t, f.ingest.IngestDocument(ctx, first))

	cand, err := f.cands.FindByName("Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "REQ100", cand.RequirementID)
	assert.Equal(t, PendingSummary, cand.EvaluationSummary)
	assert.Equal(t, "Write Go", cand.JobDescription)
	assert.Equal(t, first.String(), cand.DocumentID)

	doc, err := f.docs.FindByID(first)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentProcessed, doc.Status)

	req, err := f.reqs.FindByID("REQ100")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, req.Status, "one document still queued")

	require.NoError(t, f.ingest.IngestDocument(ctx, second))
	req, err = f.reqs.FindByID("REQ100")
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, req.Status)

	// Re-ingesting a processed document is refused.
	assert.Error(t, f.ingest.IngestDocument(ctx, first))
}

func TestIngestDocument_UnknownRequirementFailsDocument(t *testing.T) {
	f := newIngestFixture(t)
	id := f.addDocument(t, "orphan.pdf", models.DocumentQueued)
	require.NoError(t, f.docs.Assign(id, "GONE"))

	err := f.ingest.IngestDocument(context.Background(), id)
	require.Error(t, err)

	doc, err := f.docs.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentFailed, doc.Status)
	assert.Equal(t, "requirement not found", doc.ErrorMessage)
}

func TestIngestDocument_CancelledContext(t *testing.T) {
	f := newIngestFixture(t)
	id := f.addDocument(t, "late.pdf", models.DocumentQueued)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.ingest.IngestDocument(ctx, id), context.Canceled)
}

func TestIngestDocument_ConcurrentCallsCreateOneCandidate(t *testing.T) {
	f := newIngestFixture(t)
	id := f.addDocument(t, "edsger_dijkstra.pdf", models.DocumentQueued)

	const callers = 4
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.ingest.IngestDocument(context.Background(), id)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	stats, err := f.cands.Statistics("REQ100")
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCandidates)

	doc, err := f.docs.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentProcessed, doc.Status)
}

func TestDocumentClaim(t *testing.T) {
	f := newIngestFixture(t)
	queued := f.addDocument(t, "claimed.pdf", models.DocumentQueued)
	uploaded := f.addDocument(t, "idle.pdf", models.DocumentUploaded)

	ok, err := f.docs.Claim(queued)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.docs.Claim(queued)
	require.NoError(t, err)
	assert.False(t, ok, "already processing")

	ok, err = f.docs.Claim(uploaded)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := f.docs.FindByRequirement("REQ100", models.DocumentQueued, models.DocumentProcessing)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, queued, pending[0].ID)
}

func TestWorker_ProcessesEnqueuedAndPolledDocuments(t *testing.T) {
	f := newIngestFixture(t)
	enqueued := f.addDocument(t, "grace_hopper.pdf", models.DocumentQueued)
	leftover := f.addDocument(t, "barbara_liskov.pdf", models.DocumentQueued)

	w := NewWorker(f.docs, f.ingest, 2, 20*time.Millisecond, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	// Only one is enqueued explicitly; the poller picks up the other.
	w.EnqueueJob(enqueued)

	assert.Eventually(t, func() bool {
		a, errA := f.docs.FindByID(enqueued)
		b, errB := f.docs.FindByID(leftover)
		return errA == nil && errB == nil &&
			a.Status == models.DocumentProcessed && b.Status == models.DocumentProcessed
	}, 5*time.Second, 20*time.Millisecond)

	req, err := f.reqs.FindByID("REQ100")
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, req.Status)
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	f := newIngestFixture(t)
	w := NewWorker(f.docs, f.ingest, 0, 0, zap.NewNop())
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	// Enqueue after stop must not block.
	done := make(chan struct{})
	go func() {
		w.EnqueueJob(uuid.New())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("EnqueueJob blocked after Stop")
	}
}
