package migration

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sqliteDSN(t *testing.T) string {
	return "file:" + filepath.Join(t.TempDir(), "ledger.db") + "?_foreign_keys=on"
}

func tableNames(t *testing.T, db *sql.DB) []string {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestList(t *testing.T) {
	for _, dialect := range []string{DialectSQLite, DialectPostgres} {
		names, err := List(dialect)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, names, dialect)
	}

	_, err := List("mysql")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(nil, "mysql", nil)
	assert.ErrorIs(t, err, ErrUnknownDialect)

	_, err = NewFromDSN("mysql", "whatever", nil)
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

func TestMigrator_SQLiteUpDown(t *testing.T) {
	dsn := sqliteDSN(t)
	m, err := NewFromDSN(DialectSQLite, dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	// second run is a no-op
	require.NoError(t, m.Up())

	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()
	assert.Subset(t, tableNames(t, db), []string{"contacts", "invoices", "items", "stock_movements"})

	require.NoError(t, m.Down())
	assert.NotContains(t, tableNames(t, db), "items")

	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}

func TestMigrator_SQLiteConstraints(t *testing.T) {
	dsn := sqliteDSN(t)
	m, err := NewFromDSN(DialectSQLite, dsn, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO items (ean, name, vat_rate, created_at, updated_at) VALUES ('1', 'x', 3, datetime('now'), datetime('now'))`)
	assert.Error(t, err, "vat_rate outside 0..2")

	_, err = db.Exec(`INSERT INTO invoices (prefix, number, type, date_issue, created_at, updated_at) VALUES ('', '1', 6, date('now'), datetime('now'), datetime('now'))`)
	assert.Error(t, err, "type outside 1..5")

	_, err = db.Exec(`INSERT INTO stock_movements (invoice_prefix, invoice_number, item_ean, amount, vat_rate, created_at) VALUES ('', '404', 'none', '1', 0, datetime('now'))`)
	assert.Error(t, err, "dangling foreign keys")
}
