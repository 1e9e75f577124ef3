package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind shared.ConstraintKind
	}{
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, shared.ConstraintUnique},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, shared.ConstraintUnique},
		{"sqlite foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, shared.ConstraintForeignKey},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, shared.ConstraintCheck},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, shared.ConstraintNotNull},
		{"postgres unique", &pgconn.PgError{Code: "23505", Message: "duplicate key"}, shared.ConstraintUnique},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, shared.ConstraintForeignKey},
		{"postgres check", &pgconn.PgError{Code: "23514"}, shared.ConstraintCheck},
		{"postgres not null", &pgconn.PgError{Code: "23502"}, shared.ConstraintNotNull},
		{"wrapped postgres", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), shared.ConstraintUnique},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, shared.ConstraintUnique},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, shared.ConstraintForeignKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err)

			require.ErrorIs(t, err, shared.ErrConstraintViolation)
			assert.True(t, shared.IsConstraintViolation(err, tt.kind))
			assert.True(t, errors.Is(err, tt.err) || errors.Unwrap(err) == tt.err, "driver error must stay reachable")
			assert.Contains(t, err.Error(), tt.err.Error())
			assert.True(t, IsConstraintError(tt.err))
		})
	}
}

func TestSQLiteConstraintKind(t *testing.T) {
	tests := []struct {
		msg  string
		kind shared.ConstraintKind
	}{
		{"FOREIGN KEY constraint failed", shared.ConstraintForeignKey},
		{"UNIQUE constraint failed: items.ean", shared.ConstraintUnique},
		{"NOT NULL constraint failed: items.name", shared.ConstraintNotNull},
		{"CHECK constraint failed: vat_rate IN (0, 1, 2)", shared.ConstraintCheck},
		{"constraint failed", shared.ConstraintCheck},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.kind, sqliteConstraintKind(tt.msg))
		})
	}
}

func TestTranslateError_PassThrough(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), shared.ErrNotFound)

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.Equal(t, error(busy), translateError(busy))

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, translateError(other))

	plain := errors.New("connection reset")
	assert.Same(t, plain, translateError(plain))
	assert.False(t, IsConstraintError(plain))
	assert.False(t, IsConstraintError(nil))
}
