package repository

import (
	"context"
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
// Reads never return ErrNotFound; they return a nil entity instead.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrConcurrencyConflict means the row changed (or vanished) between read and write.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrDuplicateActiveAssignment means the player already has an active assignment
	// for the same team and championship.
	ErrDuplicateActiveAssignment = errors.New("duplicate active assignment")
)

// activeAssignmentIndex is the partial unique index guarding one active assignment per player/team/championship.
const activeAssignmentIndex = "ux_team_assignments_active"

// Error is an unexpected persistence failure. The cause keeps its stack for diagnostics.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("repository: %s: %v", e.Op, e.Cause) }
func (e *Error) Unwrap() error { return e.Cause }

// Wrap turns an arbitrary storage fault into *Error, leaving domain sentinels and
// cancellation untouched so callers can still match them with errors.Is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Op: op, Cause: crerr.WithStack(err)}
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrConcurrencyConflict) ||
		errors.Is(err, ErrDuplicateActiveAssignment)
}

// MapPgError translates common Postgres error codes to domain errors.
// I only map what I expect to handle explicitly at higher layers; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == activeAssignmentIndex {
				return ErrDuplicateActiveAssignment
			}
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return ErrConflict
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return ErrConcurrencyConflict
		}
	}
	return err
}
