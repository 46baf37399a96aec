// Package pgerrs classifies PostgreSQL driver errors independently of whether the
// gorm connection translates them.
package pgerrs

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UniqueViolationCode is the SQLSTATE of unique_violation.
const UniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation, either as
// gorm.ErrDuplicatedKey (TranslateError enabled) or as the raw *pgconn.PgError.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode
}

// ConstraintName returns the violated constraint when the raw driver error is available.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUniqueViolationOf reports whether err violates the unique constraint named constraint.
// A translated gorm.ErrDuplicatedKey carries no constraint name and is attributed to
// constraint, so callers pass the only unique key the statement can hit besides the
// generated primary key.
func IsUniqueViolationOf(err error, constraint string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	name := ConstraintName(err)
	return name == "" || name == constraint
}
