package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reDetailKey pulls the column list out of "Key (col)=(value) already exists.".
var reDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError turns database failures into AppErrors. Errors it does not
// recognise come back unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "The database took too long to respond.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Record not found.")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	field := pgField(pgErr)

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		e := Wrap(err, ErrCodeConflict, "A record with this "+humanize(field, "value")+" already exists.")
		e.Field = field
		return e
	case pgErr.Code == pgerrcode.ForeignKeyViolation:
		return Wrap(err, ErrCodeForeignKey, "This record is still referenced elsewhere.")
	case pgErr.Code == pgerrcode.NotNullViolation:
		e := Wrap(err, ErrCodeValidation, capitalize(humanize(field, "a required value"))+" is required.")
		e.Field = field
		return e
	case pgErr.Code == pgerrcode.CheckViolation, pgErr.Code == pgerrcode.StringDataRightTruncationDataException:
		e := Wrap(err, ErrCodeValidation, "Invalid "+humanize(field, "value")+".")
		e.Field = field
		return e
	case pgerrcode.IsConnectionException(pgErr.Code), pgerrcode.IsInsufficientResources(pgErr.Code):
		return Wrap(err, ErrCodeInternal, "The activity log database is unavailable.")
	}
	return err
}

// pgField finds the column a constraint error is about: the reported column,
// the key in the detail message, or the middle of a
// <table>_<column>_<suffix> constraint name.
func pgField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reDetailKey.FindStringSubmatch(pgErr.Detail); m != nil {
		cols := strings.Split(m[1], ",")
		return strings.TrimSpace(cols[len(cols)-1])
	}
	name := pgErr.ConstraintName
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	for _, suffix := range []string{"_check", "_key", "_fkey", "_pkey", "_idx"} {
		if s, ok := strings.CutSuffix(name, suffix); ok {
			return s
		}
	}
	return ""
}

func humanize(field, fallback string) string {
	if field == "" {
		return fallback
	}
	return strings.ReplaceAll(field, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
