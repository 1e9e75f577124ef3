package importapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	catalogapp "github.com/invledger/backend/internal/application/catalog"
	tradeapp "github.com/invledger/backend/internal/application/trade"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/infrastructure/logger"
	"github.com/invledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ItemImporter creates and updates items
type ItemImporter interface {
	Create(ctx context.Context, req catalogapp.CreateItemRequest) (*catalogapp.ItemResponse, error)
	Update(ctx context.Context, ean string, req catalogapp.UpdateItemRequest) (*catalogapp.ItemResponse, error)
}

// InvoiceImporter creates invoices with their lines
type InvoiceImporter interface {
	CreateInvoice(ctx context.Context, req tradeapp.CreateInvoiceRequest) (*tradeapp.InvoiceResponse, error)
}

// WorkerConfig sizes the worker pool
type WorkerConfig struct {
	Workers   int
	QueueSize int
}

// Worker processes import jobs received over a channel. Records go through the
// same services as single writes; a failing record is reported and the rest of
// the job continues.
type Worker struct {
	items    ItemImporter
	invoices InvoiceImporter
	metrics  *telemetry.LedgerMetrics
	cfg      WorkerConfig
	logger   *zap.Logger
}

// NewWorker creates a Worker. metrics may be nil.
func NewWorker(items ItemImporter, invoices InvoiceImporter, metrics *telemetry.LedgerMetrics, cfg WorkerConfig, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	return &Worker{
		items:    items,
		invoices: invoices,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.Named("import_worker"),
	}
}

// Start consumes jobs until the channel is closed or ctx is done. The returned
// channel receives one ResultBatch per job and is closed when all goroutines
// have exited.
func (w *Worker) Start(ctx context.Context, jobs <-chan Job) <-chan ResultBatch {
	results := make(chan ResultBatch, w.cfg.QueueSize)

	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					batch := w.Process(ctx, job)
					select {
					case results <- batch:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// Process runs one job synchronously. When ctx is cancelled the remaining
// records are reported as failed with the context error.
func (w *Worker) Process(ctx context.Context, job Job) ResultBatch {
	start := time.Now()
	ctx, log := logger.WithCorrelationID(ctx, w.logger, job.ID.String())
	if !job.Conflict.IsValid() {
		job.Conflict = ConflictModeFail
	}

	batch := ResultBatch{JobID: job.ID, Results: make([]RecordResult, 0, len(job.Items)+len(job.Invoices))}
	log.Info("import job started",
		zap.Int("items", len(job.Items)),
		zap.Int("invoices", len(job.Invoices)),
		zap.String("conflict", string(job.Conflict)),
	)

	for i, rec := range job.Items {
		r := RecordResult{Kind: KindItem, Index: i, Ref: rec.Ref, Key: rec.Item.EAN}
		if err := ctx.Err(); err != nil {
			r.Status, r.Error = StatusFailed, err.Error()
		} else {
			r.Status, r.Error = w.importItem(ctx, rec, job.Conflict)
		}
		w.record(ctx, log, &batch, r)
	}

	for i, rec := range job.Invoices {
		r := RecordResult{Kind: KindInvoice, Index: i, Ref: rec.Ref, Key: rec.Invoice.Prefix + rec.Invoice.Number.OrElse("")}
		if err := ctx.Err(); err != nil {
			r.Status, r.Error = StatusFailed, err.Error()
		} else {
			var key string
			r.Status, key, r.Error = w.importInvoice(ctx, rec, job.Conflict)
			if key != "" {
				r.Key = key
			}
		}
		w.record(ctx, log, &batch, r)
	}

	batch.Duration = time.Since(start)
	log.Info("import job finished",
		zap.Int("imported", batch.Imported),
		zap.Int("updated", batch.Updated),
		zap.Int("skipped", batch.Skipped),
		zap.Int("failed", batch.Failed),
		zap.Duration("duration", batch.Duration),
	)
	return batch
}

func (w *Worker) record(ctx context.Context, log *zap.Logger, batch *ResultBatch, r RecordResult) {
	batch.add(r)
	w.metrics.ImportRecord(ctx, r.Kind, r.Status != StatusFailed)
	if r.Status == StatusFailed {
		log.Warn("import record failed",
			zap.String("kind", r.Kind),
			zap.Int("index", r.Index),
			zap.String("ref", r.Ref),
			zap.String("key", r.Key),
			zap.String("error", r.Error),
		)
	}
}

func (w *Worker) importItem(ctx context.Context, rec ItemRecord, mode ConflictMode) (status, errMsg string) {
	_, err := w.items.Create(ctx, rec.Item)
	if err == nil {
		return StatusImported, ""
	}
	if !shared.IsConstraintViolation(err, shared.ConstraintUnique) {
		return StatusFailed, err.Error()
	}

	switch mode {
	case ConflictModeSkip:
		return StatusSkipped, ""
	case ConflictModeUpdate:
		if _, err := w.items.Update(ctx, rec.Item.EAN, toUpdateRequest(rec.Item)); err != nil {
			return StatusFailed, fmt.Errorf("update existing item: %w", err).Error()
		}
		return StatusUpdated, ""
	default:
		return StatusFailed, err.Error()
	}
}

func (w *Worker) importInvoice(ctx context.Context, rec InvoiceRecord, mode ConflictMode) (status, key, errMsg string) {
	resp, err := w.invoices.CreateInvoice(ctx, rec.Invoice)
	if err == nil {
		return StatusImported, resp.Prefix + resp.Number, ""
	}
	// duplicate lines are rejected before storage, so a unique violation is the header
	if mode == ConflictModeSkip && shared.IsConstraintViolation(err, shared.ConstraintUnique) {
		return StatusSkipped, "", ""
	}
	return StatusFailed, "", err.Error()
}

// toUpdateRequest turns a create request into a full overwrite
func toUpdateRequest(req catalogapp.CreateItemRequest) catalogapp.UpdateItemRequest {
	return catalogapp.UpdateItemRequest{
		Name:          shared.Some(req.Name),
		Category:      req.Category,
		VATRate:       shared.Some(req.VATRate),
		UnitOfMeasure: shared.Some(req.UnitOfMeasure),
		SalePrices:    req.SalePrices,
		Note:          req.Note,
	}
}
