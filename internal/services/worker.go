package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(docID uuid.UUID)
}

type worker struct {
	docRepo      repositories.DocumentRepository
	ingest       IngestService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	docRepo repositories.DocumentRepository,
	ingest IngestService,
	concurrency int,
	pollInterval time.Duration,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		docRepo:      docRepo,
		ingest:       ingest,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.pollInterval > 0 {
		w.wg.Add(1)
		go w.pollQueuedDocuments(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(docID uuid.UUID) {
	select {
	case w.jobQueue <- docID:
		w.logger.Debug("📥 Document enqueued", zap.String("document_id", docID.String()))
	case <-w.stopChan:
		w.logger.Warn("⚠️  Worker stopped, cannot enqueue document", zap.String("document_id", docID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case docID := <-w.jobQueue:
			if err := w.ingest.IngestDocument(ctx, docID); err != nil {
				w.logger.Error("❌ Failed to ingest document",
					zap.Int("worker", workerID),
					zap.String("document_id", docID.String()),
					zap.Error(err),
				)
				continue
			}
			w.logger.Info("✅ Document ingested",
				zap.Int("worker", workerID),
				zap.String("document_id", docID.String()),
			)
		}
	}
}

// pollQueuedDocuments re-enqueues documents left queued, e.g. across a restart.
// A poll can enqueue a document a job already holds; only one ingest wins
// the claim and the other returns an error that is logged.
func (w *worker) pollQueuedDocuments(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			docs, err := w.docRepo.FindQueued(10)
			if err != nil {
				w.logger.Warn("⚠️  Failed to fetch queued documents", zap.Error(err))
				continue
			}
			for _, doc := range docs {
				w.EnqueueJob(doc.ID)
			}
		}
	}
}
