package telemetry

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LedgerMetrics counts ledger writes and import outcomes.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	invoicesCreated      metric.Int64Counter
	movementsRecorded    metric.Int64Counter
	constraintViolations metric.Int64Counter
	importRecords        metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   LedgerMetrics
		err error
	)
	if m.invoicesCreated, err = meter.Int64Counter("invledger_invoices_created_total",
		metric.WithDescription("Invoices created"), metric.WithUnit("{invoices}")); err != nil {
		return nil, err
	}
	if m.movementsRecorded, err = meter.Int64Counter("invledger_movements_recorded_total",
		metric.WithDescription("Stock movement lines recorded"), metric.WithUnit("{lines}")); err != nil {
		return nil, err
	}
	if m.constraintViolations, err = meter.Int64Counter("invledger_constraint_violations_total",
		metric.WithDescription("Writes rejected by a store constraint"), metric.WithUnit("{writes}")); err != nil {
		return nil, err
	}
	if m.importRecords, err = meter.Int64Counter("invledger_import_records_total",
		metric.WithDescription("Records processed by the import worker"), metric.WithUnit("{records}")); err != nil {
		return nil, err
	}
	return &m, nil
}

// InvoiceCreated counts one invoice of the given type
func (m *LedgerMetrics) InvoiceCreated(ctx context.Context, invoiceType int) {
	if m == nil {
		return
	}
	m.invoicesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("invoice_type", strconv.Itoa(invoiceType))))
}

// MovementRecorded counts one movement line
func (m *LedgerMetrics) MovementRecorded(ctx context.Context, invoiceType int, resetPoint bool) {
	if m == nil {
		return
	}
	m.movementsRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("invoice_type", strconv.Itoa(invoiceType)),
		attribute.Bool("reset_point", resetPoint),
	))
}

// ConstraintViolation counts a rejected write by constraint kind
func (m *LedgerMetrics) ConstraintViolation(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.constraintViolations.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// ImportRecord counts one imported record by kind (item, invoice) and outcome
func (m *LedgerMetrics) ImportRecord(ctx context.Context, kind string, ok bool) {
	if m == nil {
		return
	}
	status := "imported"
	if !ok {
		status = "failed"
	}
	m.importRecords.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}
