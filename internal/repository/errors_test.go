package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/roster-stats-service/internal/repository"
)

func TestMapPgError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"active index", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "ux_team_assignments_active"}, repository.ErrDuplicateActiveAssignment},
		{"fk", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, repository.ErrConcurrencyConflict},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), repository.ErrConcurrencyConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, repository.MapPgError(other))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, repository.Wrap("op", nil))
	assert.Equal(t, repository.ErrConcurrencyConflict, repository.Wrap("op", repository.ErrConcurrencyConflict))
	assert.Equal(t, context.Canceled, repository.Wrap("op", context.Canceled))

	cause := errors.New("disk full")
	err := repository.Wrap("add statistic", cause)
	var re *repository.Error
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "add statistic", re.Op)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, repository.Wrap("outer", err), "already wrapped errors are not wrapped twice")
}
