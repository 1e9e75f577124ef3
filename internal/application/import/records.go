package importapp

import (
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/invledger/backend/internal/application/catalog"
	tradeapp "github.com/invledger/backend/internal/application/trade"
)

// ConflictMode defines how a record that already exists in the store is handled
type ConflictMode string

const (
	// ConflictModeSkip reports existing records as skipped
	ConflictModeSkip ConflictMode = "skip"
	// ConflictModeUpdate overwrites existing items; invoices are never replaced
	ConflictModeUpdate ConflictMode = "update"
	// ConflictModeFail reports existing records as failed
	ConflictModeFail ConflictMode = "fail"
)

// IsValid checks if the conflict mode is valid
func (c ConflictMode) IsValid() bool {
	switch c {
	case ConflictModeSkip, ConflictModeUpdate, ConflictModeFail:
		return true
	}
	return false
}

// Record kinds
const (
	KindItem    = "item"
	KindInvoice = "invoice"
)

// Record statuses
const (
	StatusImported = "imported"
	StatusUpdated  = "updated"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// ItemRecord is one price list entry. Ref is an optional caller reference
// echoed in the result.
type ItemRecord struct {
	Ref  string                       `json:"ref,omitempty"`
	Item catalogapp.CreateItemRequest `json:"item"`
}

// InvoiceRecord is one invoice with its lines
type InvoiceRecord struct {
	Ref     string                        `json:"ref,omitempty"`
	Invoice tradeapp.CreateInvoiceRequest `json:"invoice"`
}

// Job is a unit of work for the Worker. Items are imported before invoices so
// that lines can reference items of the same job.
type Job struct {
	ID       uuid.UUID       `json:"id"`
	Conflict ConflictMode    `json:"conflict"`
	Items    []ItemRecord    `json:"items"`
	Invoices []InvoiceRecord `json:"invoices"`
}

// NewJob creates a job with a fresh id and ConflictModeFail
func NewJob(items []ItemRecord, invoices []InvoiceRecord) Job {
	return Job{ID: uuid.New(), Conflict: ConflictModeFail, Items: items, Invoices: invoices}
}

// RecordResult is the outcome of one record
type RecordResult struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	Ref    string `json:"ref,omitempty"`
	Key    string `json:"key"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ResultBatch is sent back once a job has been processed
type ResultBatch struct {
	JobID    uuid.UUID      `json:"job_id"`
	Results  []RecordResult `json:"results"`
	Imported int            `json:"imported"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Duration time.Duration  `json:"duration"`
}

func (b *ResultBatch) add(r RecordResult) {
	b.Results = append(b.Results, r)
	switch r.Status {
	case StatusImported:
		b.Imported++
	case StatusUpdated:
		b.Updated++
	case StatusSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
}
