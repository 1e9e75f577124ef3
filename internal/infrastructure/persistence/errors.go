package persistence

import (
	"errors"
	"strings"

	"github.com/invledger/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes of integrity constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// constraintKind classifies a driver error as a constraint violation.
// ok is false for every other error.
func constraintKind(err error) (kind shared.ConstraintKind, ok bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return shared.ConstraintUnique, true
		case sqlite3.ErrConstraintForeignKey:
			return shared.ConstraintForeignKey, true
		case sqlite3.ErrConstraintCheck:
			return shared.ConstraintCheck, true
		case sqlite3.ErrConstraintNotNull:
			return shared.ConstraintNotNull, true
		}
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return sqliteConstraintKind(sqliteErr.Error()), true
		}
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.ConstraintUnique, true
		case pgForeignKeyViolation:
			return shared.ConstraintForeignKey, true
		case pgCheckViolation:
			return shared.ConstraintCheck, true
		case pgNotNullViolation:
			return shared.ConstraintNotNull, true
		}
		return "", false
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ConstraintUnique, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ConstraintForeignKey, true
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.ConstraintCheck, true
	}
	return "", false
}

// sqliteConstraintKind classifies a constraint error that carries only the primary
// result code. Deferred and ON DELETE RESTRICT foreign key failures arrive this way.
func sqliteConstraintKind(msg string) shared.ConstraintKind {
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return shared.ConstraintForeignKey
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return shared.ConstraintUnique
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return shared.ConstraintNotNull
	}
	return shared.ConstraintCheck
}

// IsConstraintError reports whether err is a store constraint rejection,
// either raw from the driver or already translated
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, shared.ErrConstraintViolation) {
		return true
	}
	_, ok := constraintKind(err)
	return ok
}

// translateError maps driver constraint errors to shared.ConstraintViolationError
// and gorm.ErrRecordNotFound to shared.ErrNotFound. Other errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if kind, ok := constraintKind(err); ok {
		return &shared.ConstraintViolationError{Kind: kind, Err: err}
	}
	return err
}

// requireAffected turns a write that matched no row into shared.ErrNotFound
func requireAffected(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
