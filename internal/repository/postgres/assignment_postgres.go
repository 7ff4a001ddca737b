package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type assignmentRepository struct{ pool *pgxpool.Pool }

func NewAssignmentRepository(pool *pgxpool.Pool) repository.AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

const assignmentColumns = `id, player_id, team_name, championship_name, joined_date, left_date, version, created_at, created_by, updated_at, updated_by`

func scanAssignment(row scanner) (model.TeamAssignment, error) {
	var a model.TeamAssignment
	err := row.Scan(
		&a.ID, &a.PlayerID, &a.TeamName, &a.ChampionshipName, &a.JoinedDate, &a.LeftDate, &a.Version,
		&a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy,
	)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	utc(&a.JoinedDate)
	utcPtr(a.LeftDate)
	utc(&a.CreatedAt)
	utcPtr(a.UpdatedAt)
	return a, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*model.TeamAssignment, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+assignmentColumns+` FROM team_assignments WHERE id = $1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fail(ctx, "get assignment", err)
	}
	return &a, nil
}

func (r *assignmentRepository) ListByPlayer(ctx context.Context, playerID int64, includeInactive bool) ([]model.TeamAssignment, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+assignmentColumns+`
		 FROM team_assignments
		 WHERE player_id = $1 AND ($2 OR left_date IS NULL)
		 ORDER BY joined_date DESC, id DESC`,
		playerID, includeInactive,
	)
	if err != nil {
		return nil, fail(ctx, "list assignments", err)
	}
	defer rows.Close()
	res := make([]model.TeamAssignment, 0, 4)
	for rows.Next() {
		it, err := scanAssignment(rows)
		if err != nil {
			return nil, fail(ctx, "list assignments", err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(ctx, "list assignments", err)
	}
	return res, nil
}

// Add relies on ux_team_assignments_active to reject a second active membership;
// MapPgError turns that violation into ErrDuplicateActiveAssignment.
func (r *assignmentRepository) Add(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.TeamAssignment{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO team_assignments (player_id, team_name, championship_name, joined_date, left_date, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+assignmentColumns,
		a.PlayerID, a.TeamName, a.ChampionshipName, a.JoinedDate, a.LeftDate, a.CreatedAt, a.CreatedBy,
	)
	out, err := scanAssignment(row)
	if err != nil {
		return model.TeamAssignment{}, fail(ctx, "add assignment", err)
	}
	return out, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.TeamAssignment{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE team_assignments
		 SET team_name = $3, championship_name = $4, joined_date = $5, left_date = $6,
		     updated_at = $7, updated_by = $8, version = version + 1
		 WHERE id = $1 AND version = $2
		 RETURNING `+assignmentColumns,
		a.ID, a.Version, a.TeamName, a.ChampionshipName, a.JoinedDate, a.LeftDate, a.UpdatedAt, a.UpdatedBy,
	)
	out, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TeamAssignment{}, repository.ErrConcurrencyConflict
		}
		return model.TeamAssignment{}, fail(ctx, "update assignment", err)
	}
	return out, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM team_assignments WHERE id = $1`, id)
	if err != nil {
		return false, fail(ctx, "delete assignment", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *assignmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM team_assignments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fail(ctx, "assignment exists", err)
	}
	return exists, nil
}

// HasActiveDuplicate uses the same normalization as ux_team_assignments_active.
func (r *assignmentRepository) HasActiveDuplicate(ctx context.Context, playerID int64, teamName, championshipName string, excludeID *int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM team_assignments
			WHERE player_id = $1
			  AND left_date IS NULL
			  AND lower(btrim(team_name)) = lower(btrim($2))
			  AND lower(btrim(championship_name)) = lower(btrim($3))
			  AND ($4::BIGINT IS NULL OR id <> $4)
		)`,
		playerID, teamName, championshipName, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fail(ctx, "check duplicate assignment", err)
	}
	return exists, nil
}

var _ repository.AssignmentRepository = (*assignmentRepository)(nil)
