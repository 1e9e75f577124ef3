// Package telemetry wires OpenTelemetry tracing and metrics into the engine.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound values in span statements
	SlowQueryThresh time.Duration // spans above this get db.slow_query=true
	DBSystem        string        // "sqlite" or "postgresql"
	TracerProvider  trace.TracerProvider
}

// DefaultDBTracingConfig returns default configuration for database tracing.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "sqlite",
	}
}

// DBTracingPlugin wraps the otelgorm plugin with slow query marking.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs otelgorm and the timing callbacks on db.
// It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerTiming(db, p.annotate); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate adds row count, table, error status and slow query marking to the active span
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok && p.config.SlowQueryThresh > 0 {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}

// registerTiming hooks markStart before each gorm operation and after into
// the slot between the operation and otelgorm's span end
func registerTiming(db *gorm.DB, after func(*gorm.DB)) error {
	cb := db.Callback()
	regs := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", markStart) },
		func() error {
			return cb.Create().After("gorm:create").Before("otel:after:create").Register("otel_timing:after_create", after)
		},
		func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", markStart) },
		func() error {
			return cb.Query().After("gorm:query").Before("otel:after:query").Register("otel_timing:after_query", after)
		},
		func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", markStart) },
		func() error {
			return cb.Update().After("gorm:update").Before("otel:after:update").Register("otel_timing:after_update", after)
		},
		func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markStart) },
		func() error {
			return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("otel_timing:after_delete", after)
		},
		func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", markStart) },
		func() error {
			return cb.Row().After("gorm:row").Before("otel:after:row").Register("otel_timing:after_row", after)
		},
		func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markStart) },
		func() error {
			return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("otel_timing:after_raw", after)
		},
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
