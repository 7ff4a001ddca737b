// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and failure shaping.
// Expected failures travel inside Result; the error return is reserved for caller bugs
// (ErrInvalidArgument) and cancellation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/validation"
	"github.com/rs/zerolog"
)

// ErrInvalidArgument marks an argument-contract violation: blank actor id, non-positive id.
var ErrInvalidArgument = errors.New("invalid argument")

// User-facing failure messages.
const (
	MsgIDMismatch          = "The ID in the URL does not match the ID in the request body."
	MsgConcurrencyConflict = "The record was modified by another user. Please refresh and try again."
	MsgRelatedMissing      = "A related record no longer exists. Please refresh and try again."
	MsgDuplicateAssignment = "The player already has an active assignment for this team and championship."
	MsgAlreadyInactive     = "The player has already left this team."
	MsgNoReactivation      = "An inactive assignment cannot be reactivated. Add a new assignment instead."
)

func notFound(entity string, id int64) string {
	return fmt.Sprintf("%s with ID %d could not be found.", entity, id)
}

func unexpected(op string) string {
	return fmt.Sprintf("An unexpected error occurred while %s.", op)
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, dto model.CreatePlayerDTO, actorID string) (Result[model.Player], error)
	UpdatePlayer(ctx context.Context, id int64, dto model.UpdatePlayerDTO, actorID string) (Result[model.Player], error)
	GetPlayer(ctx context.Context, id int64) (Result[model.Player], error)
	GetPlayersByUser(ctx context.Context, userID string, page repository.Page) (Result[repository.PageResult[model.Player]], error)
	DeletePlayer(ctx context.Context, id int64) (Result[bool], error)
}

// AssignmentService defines team membership use cases.
type AssignmentService interface {
	AddPlayerToTeam(ctx context.Context, dto model.CreateAssignmentDTO, actorID string) (Result[model.TeamAssignment], error)
	UpdateAssignment(ctx context.Context, id int64, dto model.UpdateAssignmentDTO, actorID string) (Result[model.TeamAssignment], error)
	RemovePlayerFromTeam(ctx context.Context, id int64, leftDate time.Time, actorID string) (Result[model.TeamAssignment], error)
	GetTeamsByPlayer(ctx context.Context, playerID int64, includeInactive bool) (Result[[]model.TeamAssignment], error)
	GetActiveTeamsByPlayer(ctx context.Context, playerID int64) (Result[[]model.TeamAssignment], error)
	GetAssignment(ctx context.Context, id int64) (Result[model.TeamAssignment], error)
	DeleteAssignment(ctx context.Context, id int64) (Result[bool], error)
}

// StatisticService defines per-game statistic and aggregation use cases.
type StatisticService interface {
	AddStatistic(ctx context.Context, dto model.CreateStatisticDTO, actorID string) (Result[model.GameStatistic], error)
	UpdateStatistic(ctx context.Context, id int64, dto model.UpdateStatisticDTO, actorID string) (Result[model.GameStatistic], error)
	DeleteStatistic(ctx context.Context, id int64) (Result[bool], error)
	GetAggregates(ctx context.Context, playerID int64, assignmentID *int64) (Result[model.AggregateResult], error)
	GetStatistic(ctx context.Context, id int64) (Result[model.GameStatistic], error)
	GetStatisticsByAssignment(ctx context.Context, assignmentID int64) (Result[[]model.GameStatistic], error)
	GetStatisticsByPlayer(ctx context.Context, playerID int64, r model.DateRange) (Result[[]model.GameStatistic], error)
}

// checkCall enforces the argument contract shared by every use case.
func checkCall(ctx context.Context, actorID *string, ids ...int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if actorID != nil && strings.TrimSpace(*actorID) == "" {
		return fmt.Errorf("%w: actor id must not be blank", ErrInvalidArgument)
	}
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: id must be > 0, got %d", ErrInvalidArgument, id)
		}
	}
	return nil
}

// failure normalizes a repository fault into a failed Result. Cancellation is the
// only fault that escapes as an error.
func failure[T any](log zerolog.Logger, op string, err error) (Result[T], error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Result[T]{}, err
	case errors.Is(err, repository.ErrConcurrencyConflict):
		log.Warn().Err(err).Str("op", op).Msg("concurrency conflict")
		return Fail[T](MsgConcurrencyConflict), nil
	case errors.Is(err, repository.ErrDuplicateActiveAssignment):
		return Invalid[T](map[string][]string{validation.FieldDuplicateAssignment: {MsgDuplicateAssignment}}), nil
	case errors.Is(err, repository.ErrConflict):
		log.Warn().Err(err).Str("op", op).Msg("referenced record vanished")
		return Fail[T](MsgRelatedMissing), nil
	default:
		log.Error().Err(err).Str("op", op).Msg("repository failure")
		return Fail[T](unexpected(op)), nil
	}
}

func unableToDelete(entity string, id int64) string {
	return fmt.Sprintf("Unable to delete %s with ID %d.", entity, id)
}
