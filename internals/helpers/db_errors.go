package helper

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
)

// MsgDatabaseError is what clients see for any storage failure.
const MsgDatabaseError = "Database error occurred"

// IsUniqueViolation recognises duplicate-key errors from gorm's translator,
// Postgres (23505) and SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// DBError maps a gorm error to the app error taxonomy: missing rows become
// 404 with notFound as message, unique violations 409, everything else a
// generic storage error whose cause is only logged.
func DBError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFound)
	case IsUniqueViolation(err):
		return apperrors.WrapWithCode(err, apperrors.CodeAlreadyExists, "A record with the same unique value already exists")
	default:
		return apperrors.WrapWithCode(err, apperrors.CodeInternal, MsgDatabaseError)
	}
}
