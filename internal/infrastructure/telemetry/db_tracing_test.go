package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedItem struct {
	EAN  string `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedItem{}))
	return db
}

func setupTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "sqlite", cfg.DBSystem)
}

func TestDBTracingPlugin_Register_Disabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), nil)

	require.NoError(t, plugin.Register(db))
	assert.Nil(t, db.Callback().Create().Get("otel_timing:after_create"))
}

func TestDBTracingPlugin_Register_DoubleRegistration(t *testing.T) {
	db := setupTestDB(t)
	tp, _ := setupTracer(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.TracerProvider = tp

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.Register(db))
	assert.Error(t, plugin.Register(db))
}

func TestDBTracingPlugin_SpansForQueries(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupTracer(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.TracerProvider = tp

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "create-items")
	items := []tracedItem{{EAN: "1", Name: "a"}, {EAN: "2", Name: "b"}}
	require.NoError(t, db.WithContext(ctx).Create(&items).Error)
	parent.End()

	var found bool
	for _, s := range recorder.Ended() {
		if s.Parent().SpanID() != parent.SpanContext().SpanID() {
			continue
		}
		found = true
		rows, ok := attrValue(s.Attributes(), "db.rows_affected")
		require.True(t, ok)
		assert.Equal(t, int64(2), rows.AsInt64())
		table, ok := attrValue(s.Attributes(), "db.sql.table")
		require.True(t, ok)
		assert.Equal(t, "traced_items", table.AsString())
		_, slow := attrValue(s.Attributes(), "db.slow_query")
		assert.False(t, slow)
	}
	assert.True(t, found, "expected a child span for the insert")
}

func TestDBTracingPlugin_ErrorStatus(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupTracer(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.TracerProvider = tp

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedItem{EAN: "1"}).Error)
	require.Error(t, db.WithContext(ctx).Create(&tracedItem{EAN: "1"}).Error)

	var errored int
	for _, s := range recorder.Ended() {
		if s.Status().Code == codes.Error {
			errored++
		}
	}
	assert.GreaterOrEqual(t, errored, 1)
}

func TestDBTracingPlugin_SlowQuery(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupTracer(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))
	stmt := db.WithContext(ctx)
	plugin.annotate(stmt)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	slow, ok := attrValue(spans[0].Attributes(), "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
	ms, ok := attrValue(spans[0].Attributes(), "db.query_duration_ms")
	require.True(t, ok)
	assert.GreaterOrEqual(t, ms.AsInt64(), int64(1000))
}

func TestDBTracingPlugin_AnnotateWithoutSpan(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)

	assert.NotPanics(t, func() {
		plugin.annotate(db.WithContext(context.Background()))
		plugin.annotate(db)
	})
}
