package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rsai/internal/cache"
	"rsai/internal/extract"
	"rsai/internal/models"
)

// DocumentStore is the slice of document persistence the pipeline needs.
type DocumentStore interface {
	FindByID(id uuid.UUID) (*models.Document, error)
	UpdateStatus(id uuid.UUID, from, to string, chunkCount *int, errorMessage *string) error
}

// ChunkStore persists the chunk rows of one document atomically.
type ChunkStore interface {
	InsertBatch(chunks []models.Chunk) error
}

// FileStore fetches the raw bytes of an uploaded file.
type FileStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Pipeline drives uploaded documents through extraction, chunking,
// embedding and persistence on a pool of background workers. It is the only
// writer of document status after creation; failures are recorded on the
// document row and never reach the HTTP request that triggered the upload.
type Pipeline struct {
	docs      DocumentStore
	chunks    ChunkStore
	files     FileStore
	extractor extract.Extractor
	chunker   *Chunker
	batcher   *Batcher
	cache     cache.Invalidator

	// stageTimeout bounds each external call (download, extract, embed)
	// so a hung provider reclassifies the document to error instead of
	// parking it in processing forever.
	stageTimeout time.Duration

	jobs  chan uuid.UUID
	group *errgroup.Group
}

// New builds a pipeline with a bounded job queue.
func New(docs DocumentStore, chunks ChunkStore, files FileStore, extractor extract.Extractor,
	chunker *Chunker, batcher *Batcher, invalidator cache.Invalidator, stageTimeout time.Duration) *Pipeline {
	if stageTimeout <= 0 {
		stageTimeout = 2 * time.Minute
	}
	return &Pipeline{
		docs:         docs,
		chunks:       chunks,
		files:        files,
		extractor:    extractor,
		chunker:      chunker,
		batcher:      batcher,
		cache:        invalidator,
		stageTimeout: stageTimeout,
		jobs:         make(chan uuid.UUID, 64),
	}
}

// Start launches the worker pool. Workers exit when the context is
// cancelled or the job channel is closed by Close.
func (p *Pipeline) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	p.group = g

	for w := 1; w <= workers; w++ {
		worker := w
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case docID, ok := <-p.jobs:
					if !ok {
						return nil
					}
					slog.Debug("ingest: job picked up", "document_id", docID, "worker", worker)
					p.ProcessOne(gctx, docID)
				}
			}
		})
	}
	slog.Info("ingest workers started", "workers", workers, "stage_timeout", p.stageTimeout.String())
}

// Enqueue schedules a document for ingestion. Blocks when the queue is
// full, which backpressures the upload endpoint rather than dropping work.
func (p *Pipeline) Enqueue(documentID uuid.UUID) {
	p.jobs <- documentID
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pipeline) Close() {
	close(p.jobs)
	if p.group != nil {
		_ = p.group.Wait()
	}
}

// ProcessOne runs the full pipeline for a single document. Stage failures
// mark the document with a terminal error status and message; the function
// itself never returns an error because nobody upstream is waiting for one.
func (p *Pipeline) ProcessOne(ctx context.Context, docID uuid.UUID) {
	doc, err := p.docs.FindByID(docID)
	if err != nil {
		slog.Error("ingest: load document", "document_id", docID, "error", err)
		return
	}
	if doc == nil {
		slog.Warn("ingest: document vanished before processing", "document_id", docID)
		return
	}

	// Claim the document. The guarded update makes a raced duplicate job a
	// no-op, and clearing the message here keeps stale failure text from a
	// previous attempt from surviving into this one.
	empty := ""
	if err := p.docs.UpdateStatus(docID, models.StatusPending, models.StatusProcessing, nil, &empty); err != nil {
		slog.Warn("ingest: document not pending, dropping job", "document_id", docID, "status", doc.Status)
		return
	}

	log := slog.With("document_id", docID, "category_id", doc.CategoryID, "file", doc.OriginalName)

	data, err := stage(p, ctx, func(sctx context.Context) ([]byte, error) {
		return p.files.Download(sctx, doc.StorageKey)
	})
	if err != nil {
		p.fail(log, docID, fmt.Sprintf("fetching stored file failed: %v", err))
		return
	}

	text, err := stage(p, ctx, func(sctx context.Context) (string, error) {
		return p.extractor.Extract(sctx, data, doc.OriginalName)
	})
	if err != nil {
		p.fail(log, docID, fmt.Sprintf("text extraction failed: %v", err))
		return
	}

	// Chunking is pure and cannot fail; producing nothing usable is the
	// document's problem, not the pipeline's.
	texts := p.chunker.Chunk(text)
	if len(texts) == 0 {
		p.fail(log, docID, "no extractable text")
		return
	}

	vectors, err := stage(p, ctx, func(sctx context.Context) ([][]float32, error) {
		return p.batcher.EmbedAll(sctx, texts)
	})
	if err != nil {
		p.fail(log, docID, fmt.Sprintf("embedding failed: %v", err))
		return
	}

	rows := make([]models.Chunk, 0, len(texts))
	for i := range texts {
		rows = append(rows, models.Chunk{
			ID:         uuid.New(),
			DocumentID: docID,
			CategoryID: doc.CategoryID,
			Position:   i,
			Content:    texts[i],
			Embedding:  vectors[i],
		})
	}

	// All-or-nothing insert: a failure here leaves zero chunks behind, so
	// the error status below is consistent with what readers can see.
	if err := p.chunks.InsertBatch(rows); err != nil {
		p.fail(log, docID, fmt.Sprintf("persisting chunks failed: %v", err))
		return
	}

	n := len(rows)
	if err := p.docs.UpdateStatus(docID, models.StatusProcessing, models.StatusDone, &n, &empty); err != nil {
		log.Error("ingest: marking document done failed", "error", err)
	}

	// Invalidate only after the chunk transaction committed: the next index
	// read must rebuild from data that is actually there.
	p.cache.Invalidate(ctx, doc.CategoryID)
	log.Info("ingest: document ready", "chunks", n)
}

// fail records a terminal error status. Best effort: when even the status
// write fails there is nothing left to do but log.
func (p *Pipeline) fail(log *slog.Logger, docID uuid.UUID, msg string) {
	log.Warn("ingest: document failed", "reason", msg)
	if err := p.docs.UpdateStatus(docID, models.StatusProcessing, models.StatusError, nil, &msg); err != nil {
		log.Error("ingest: marking document failed errored", "error", err)
	}
}

// stage runs one external call under the pipeline's per-stage timeout.
func stage[T any](p *Pipeline, ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	return fn(sctx)
}
