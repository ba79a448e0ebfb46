package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stdErrors "errors"
	"fmt"
	"strings"

	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgCheckViolation       = "23514"
	pgNotNullViolation     = "23502"
	pgDataExceptionClass   = "22"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	if sqlState(err) == pgUniqueViolation {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if sqlState(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsUnavailable reports whether err means the backing store could not serve
// the request: dropped connections, shutdown, resource exhaustion,
// serialization failures and deadlocks.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if stdErrors.Is(err, driver.ErrBadConn) || stdErrors.Is(err, sql.ErrConnDone) {
		return true
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if stdErrors.As(err, &connectErr) {
		return true
	}
	state := sqlState(err)
	switch {
	case state == "":
		msg := err.Error()
		return strings.Contains(msg, "database is locked") ||
			strings.Contains(msg, "database is closed") ||
			strings.Contains(msg, "connection refused")
	case state == pgSerializationFailure, state == pgDeadlockDetected:
		return true
	case strings.HasPrefix(state, "08"), strings.HasPrefix(state, "53"), strings.HasPrefix(state, "57P0"):
		return true
	}
	return false
}

// IsInvalidData reports whether the store rejected the values themselves:
// data exceptions (class 22) and CHECK or NOT NULL violations. Retrying the
// same write fails the same way.
func IsInvalidData(err error) bool {
	if err == nil {
		return false
	}
	state := sqlState(err)
	switch {
	case state == pgCheckViolation, state == pgNotNullViolation:
		return true
	case strings.HasPrefix(state, pgDataExceptionClass):
		return true
	case state == "":
		msg := err.Error()
		return strings.Contains(msg, "CHECK constraint failed") || strings.Contains(msg, "NOT NULL constraint failed")
	}
	return false
}

// Classify converts a persistence error into a typed error. Typed errors pass
// through untouched.
func Classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	switch {
	case stdErrors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("%s: record not found", op))
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s: already exists", op))
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, fmt.Sprintf("%s: referenced record not found", op))
	case IsInvalidData(err):
		return pkgerrors.Wrap(pkgerrors.CodeInvalidArgument, err, fmt.Sprintf("%s: value rejected by the store", op))
	case stdErrors.Is(err, context.Canceled):
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, fmt.Sprintf("%s: request canceled", op))
	case IsUnavailable(err):
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, fmt.Sprintf("%s: backing store unavailable", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("%s failed", op))
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// ClassifyLookup classifies a failed single-row lookup, naming the entity in
// the NOT_FOUND message.
func ClassifyLookup(err error, entity string) error {
	if err == nil {
		return nil
	}
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	}
	return Classify(err, "load "+entity)
}
