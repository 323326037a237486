package usecase

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrNoPatientsFound  = errors.New("no patients match the given surname")
	ErrPhysioNotFound   = errors.New("physio not found")
	ErrNoPhysiosFound   = errors.New("no physios match the given speciality")
	ErrRecordNotFound   = errors.New("record not found")
	ErrNoRecordsFound   = errors.New("no records match the given surname")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidImageType = errors.New("image must be a jpg, png, gif or webp file")
)

// ValidationError is returned when submitted fields break their constraints.
// Fields is keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is returned when a unique value is already taken.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// FieldErrors flattens a ValidationError or ConflictError into a field to
// message map. Any other error yields nil.
func FieldErrors(err error) map[string]string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		fields := make(map[string]string, len(validationErr.Fields))
		for k, v := range validationErr.Fields {
			fields[k] = v
		}
		return fields
	}

	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return map[string]string{conflictErr.Field: conflictErr.Message}
	}

	return nil
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// parseID turns a path id into a uuid; malformed ids are treated as unknown.
func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// isDuplicateKeyError checks whether err is a unique violation on a
// constraint or column containing name (Postgres or SQLite).
func isDuplicateKeyError(err error, name string) bool {
	name = strings.ToLower(name)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), name)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(strings.ToLower(sqliteErr.Error()), name)
	}

	return false
}
