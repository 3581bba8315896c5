// Package worker runs background page-count extraction for freshly uploaded
// documents. Uploads return immediately; a small pool picks jobs off a
// buffered channel and writes the result back to storage.
package worker

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"docvault/internal/domain/repositories"
)

// TextExtractor derives page counts from a raw payload. Implementations must
// be safe for concurrent use.
type TextExtractor interface {
	// Pages returns the page count, or 0 when the format has no page notion.
	Pages(ctx context.Context, mimetype string, data []byte) (int, error)
}

// Job is one queued extraction.
type Job struct {
	ID         string
	DocumentID int64
}

// Pool is a fixed-size extraction worker pool.
type Pool struct {
	docRepo   repositories.DocumentRepository
	extractor TextExtractor
	logger    *slog.Logger

	jobs chan Job
	wg   sync.WaitGroup
}

// NewPool creates a pool with the given concurrency and queue depth.
func NewPool(docRepo repositories.DocumentRepository, extractor TextExtractor, workers, depth int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 64
	}
	p := &Pool{
		docRepo:   docRepo,
		extractor: extractor,
		logger:    logger,
		jobs:      make(chan Job, depth),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Enqueue schedules extraction for a document and returns the job ID. A full
// queue drops the job rather than blocking the upload path; the document
// simply keeps a zero page count.
func (p *Pool) Enqueue(documentID int64) string {
	job := Job{ID: uuid.NewString(), DocumentID: documentID}
	select {
	case p.jobs <- job:
		p.logger.Debug("extraction queued", "job_id", job.ID, "document_id", documentID)
	default:
		p.logger.Warn("extraction queue full, dropping job", "document_id", documentID)
	}
	return job.ID
}

// Close stops accepting jobs and waits for in-flight work to finish.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.process(job)
	}
}

func (p *Pool) process(job Job) {
	ctx := context.Background()

	doc, err := p.docRepo.GetByID(ctx, job.DocumentID)
	if err != nil {
		p.logger.Warn("extraction skipped, document gone", "job_id", job.ID, "document_id", job.DocumentID, "error", err)
		return
	}

	pages, err := p.extractor.Pages(ctx, doc.MimeType, doc.Data)
	if err != nil {
		p.logger.Warn("extraction failed", "job_id", job.ID, "document_id", doc.ID, "error", err)
		return
	}
	if pages == doc.TotalPages {
		return
	}

	if err := p.docRepo.UpdateTotalPages(ctx, doc.ID, pages); err != nil {
		p.logger.Warn("extraction result not saved", "job_id", job.ID, "document_id", doc.ID, "error", err)
		return
	}
	p.logger.Info("extraction done", "job_id", job.ID, "document_id", doc.ID, "pages", pages)
}

// PDFPageCounter counts pages by scanning for page objects in the PDF
// object stream. Good enough for the listing badge; non-PDF types report 0.
type PDFPageCounter struct{}

var pdfPageMarkers = []struct{ page, pages []byte }{
	{[]byte("/Type /Page"), []byte("/Type /Pages")},
	{[]byte("/Type/Page"), []byte("/Type/Pages")},
}

func (PDFPageCounter) Pages(ctx context.Context, mimetype string, data []byte) (int, error) {
	if mimetype != "application/pdf" {
		return 0, nil
	}
	count := 0
	for _, m := range pdfPageMarkers {
		// every /Type /Pages tree node also matches /Type /Page
		n := bytes.Count(data, m.page) - bytes.Count(data, m.pages)
		if n > count {
			count = n
		}
	}
	return count, nil
}

var _ TextExtractor = PDFPageCounter{}
