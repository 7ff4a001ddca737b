package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type statisticRepository struct{ pool *pgxpool.Pool }

func NewStatisticRepository(pool *pgxpool.Pool) repository.StatisticRepository {
	return &statisticRepository{pool: pool}
}

const statisticColumns = `gs.id, gs.team_assignment_id, gs.game_date, gs.minutes_played, gs.starter, gs.jersey_number, gs.goals, gs.assists, gs.version, gs.created_at, gs.created_by, gs.updated_at, gs.updated_by`

func scanStatistic(row scanner) (model.GameStatistic, error) {
	var s model.GameStatistic
	err := row.Scan(
		&s.ID, &s.AssignmentID, &s.GameDate, &s.MinutesPlayed, &s.Starter, &s.JerseyNumber, &s.Goals, &s.Assists, &s.Version,
		&s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return model.GameStatistic{}, err
	}
	utc(&s.GameDate)
	utc(&s.CreatedAt)
	utcPtr(s.UpdatedAt)
	return s, nil
}

func (r *statisticRepository) collect(ctx context.Context, rows pgx.Rows, op string) ([]model.GameStatistic, error) {
	defer rows.Close()
	res := make([]model.GameStatistic, 0, 8)
	for rows.Next() {
		it, err := scanStatistic(rows)
		if err != nil {
			return nil, fail(ctx, op, err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, op, err)
	}
	return res, nil
}

func (r *statisticRepository) GetByID(ctx context.Context, id int64) (*model.GameStatistic, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+statisticColumns+` FROM game_statistics gs WHERE gs.id = $1`, id)
	s, err := scanStatistic(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fail(ctx, "get statistic", err)
	}
	return &s, nil
}

func (r *statisticRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]model.GameStatistic, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+statisticColumns+`
		 FROM game_statistics gs
		 WHERE gs.team_assignment_id = $1
		 ORDER BY gs.game_date DESC, gs.id DESC`, assignmentID,
	)
	if err != nil {
		return nil, fail(ctx, "list statistics", err)
	}
	return r.collect(ctx, rows, "list statistics")
}

// ListByPlayer spans every assignment of the player; zero range bounds are open.
func (r *statisticRepository) ListByPlayer(ctx context.Context, playerID int64, rng model.DateRange) ([]model.GameStatistic, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+statisticColumns+`
		 FROM game_statistics gs
		 INNER JOIN team_assignments ta ON ta.id = gs.team_assignment_id
		 WHERE ta.player_id = $1
		   AND ($2::TIMESTAMPTZ IS NULL OR gs.game_date >= $2)
		   AND ($3::TIMESTAMPTZ IS NULL OR gs.game_date <= $3)
		 ORDER BY gs.game_date DESC, gs.id DESC`,
		playerID, optionalTime(rng.From), optionalTime(rng.To),
	)
	if err != nil {
		return nil, fail(ctx, "list player statistics", err)
	}
	return r.collect(ctx, rows, "list player statistics")
}

func (r *statisticRepository) Add(ctx context.Context, s model.GameStatistic) (model.GameStatistic, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameStatistic{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO game_statistics AS gs (
			team_assignment_id, game_date, minutes_played, starter, jersey_number, goals, assists, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+statisticColumns,
		s.AssignmentID, s.GameDate, s.MinutesPlayed, s.Starter, s.JerseyNumber, s.Goals, s.Assists, s.CreatedAt, s.CreatedBy,
	)
	out, err := scanStatistic(row)
	if err != nil {
		return model.GameStatistic{}, fail(ctx, "add statistic", err)
	}
	return out, nil
}

func (r *statisticRepository) Update(ctx context.Context, s model.GameStatistic) (model.GameStatistic, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.GameStatistic{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE game_statistics AS gs
		 SET team_assignment_id = $3, game_date = $4, minutes_played = $5, starter = $6,
		     jersey_number = $7, goals = $8, assists = $9,
		     updated_at = $10, updated_by = $11, version = gs.version + 1
		 WHERE gs.id = $1 AND gs.version = $2
		 RETURNING `+statisticColumns,
		s.ID, s.Version, s.AssignmentID, s.GameDate, s.MinutesPlayed, s.Starter,
		s.JerseyNumber, s.Goals, s.Assists, s.UpdatedAt, s.UpdatedBy,
	)
	out, err := scanStatistic(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GameStatistic{}, repository.ErrConcurrencyConflict
		}
		return model.GameStatistic{}, fail(ctx, "update statistic", err)
	}
	return out, nil
}

func (r *statisticRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM game_statistics WHERE id = $1`, id)
	if err != nil {
		return false, fail(ctx, "delete statistic", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *statisticRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM game_statistics WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fail(ctx, "statistic exists", err)
	}
	return exists, nil
}

// GetAggregates sums in one round trip; averages are derived in Go so an empty
// set yields exact zeros.
func (r *statisticRepository) GetAggregates(ctx context.Context, playerID int64, assignmentID *int64) (model.AggregateResult, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.AggregateResult{}, err
	}
	query := `
		SELECT
			COUNT(gs.id) AS games,
			COALESCE(SUM(gs.goals), 0) AS total_goals,
			COALESCE(SUM(gs.assists), 0) AS total_assists,
			COALESCE(SUM(gs.minutes_played), 0) AS total_minutes
		FROM
			game_statistics gs
		INNER JOIN team_assignments ta ON ta.id = gs.team_assignment_id
		WHERE
			ta.player_id = $1 AND ($2::BIGINT IS NULL OR gs.team_assignment_id = $2)
	`
	var games, goals, assists, minutes int
	err := getQ(ctx, r.pool).QueryRow(ctx, query, playerID, assignmentID).Scan(&games, &goals, &assists, &minutes)
	if err != nil {
		return model.AggregateResult{}, fail(ctx, "aggregate statistics", err)
	}
	return model.NewAggregateResult(games, goals, assists, minutes), nil
}

var _ repository.StatisticRepository = (*statisticRepository)(nil)
