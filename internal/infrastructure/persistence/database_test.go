package persistence

import (
	"testing"

	"github.com/invledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := testDatabaseConfig(t)

	db, err := NewDatabase(cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, db.Driver)

	require.NoError(t, db.Ping())

	var fk int
	require.NoError(t, db.DB.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk, "foreign keys must be enforced")

	var mode string
	require.NoError(t, db.DB.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxOpenConns, stats.MaxOpenConnections)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	cfg := testDatabaseConfig(t)
	cfg.Driver = "mysql"

	_, err := NewDatabase(cfg, Options{})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewDatabase_TracingDisabledByDefault(t *testing.T) {
	db, err := NewDatabase(testDatabaseConfig(t), Options{})
	require.NoError(t, err)
	defer db.Close()

	assert.Nil(t, db.DB.Callback().Create().Get("otel_timing:after_create"))
}

func TestDBSystem(t *testing.T) {
	assert.Equal(t, "postgresql", dbSystem(config.DriverPostgres))
	assert.Equal(t, "sqlite", dbSystem(config.DriverSQLite))
}
