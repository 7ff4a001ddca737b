package repository

import (
	"context"

	"github.com/maxviazov/roster-stats-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// PlayerRepository declares persistence operations for players.
// GetByID returns (nil, nil) when the player does not exist.
// Update compares Version and fails with ErrConcurrencyConflict when it moved.
type PlayerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Player, error)
	ListByUser(ctx context.Context, userID string, p Page) (PageResult[model.Player], error)
	Add(ctx context.Context, p model.Player) (model.Player, error)
	Update(ctx context.Context, p model.Player) (model.Player, error)
	// Delete removes the player together with its assignments and their statistics.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// AssignmentRepository declares persistence operations for team assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id int64) (*model.TeamAssignment, error)
	// ListByPlayer returns the player's assignments, most recently joined first.
	ListByPlayer(ctx context.Context, playerID int64, includeInactive bool) ([]model.TeamAssignment, error)
	// Add fails with ErrDuplicateActiveAssignment when an active assignment already exists
	// for the same player, team and championship.
	Add(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error)
	Update(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error)
	// Delete is administrative removal; it cascades to the assignment's statistics.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// HasActiveDuplicate reports whether an active assignment exists for the triple,
	// optionally ignoring excludeID (the record being edited).
	HasActiveDuplicate(ctx context.Context, playerID int64, teamName, championshipName string, excludeID *int64) (bool, error)
}

// StatisticRepository declares operations for per-game statistics.
type StatisticRepository interface {
	GetByID(ctx context.Context, id int64) (*model.GameStatistic, error)
	// ListByAssignment returns statistics for one assignment, most recent game first.
	ListByAssignment(ctx context.Context, assignmentID int64) ([]model.GameStatistic, error)
	// ListByPlayer returns statistics across all of a player's assignments within the range, most recent game first.
	ListByPlayer(ctx context.Context, playerID int64, r model.DateRange) ([]model.GameStatistic, error)
	Add(ctx context.Context, s model.GameStatistic) (model.GameStatistic, error)
	Update(ctx context.Context, s model.GameStatistic) (model.GameStatistic, error)
	// Delete reports false when no row was affected.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetAggregates sums the player's statistics in one pass; a nil assignmentID covers every assignment.
	GetAggregates(ctx context.Context, playerID int64, assignmentID *int64) (model.AggregateResult, error)
}
