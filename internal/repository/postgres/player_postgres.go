package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

const playerColumns = `id, user_id, name, date_of_birth, gender, photo_url, version, created_at, created_by, updated_at, updated_by`

func scanPlayer(row scanner, extra ...any) (model.Player, error) {
	var p model.Player
	dest := append([]any{
		&p.ID, &p.UserID, &p.Name, &p.DateOfBirth, &p.Gender, &p.PhotoURL, &p.Version,
		&p.CreatedAt, &p.CreatedBy, &p.UpdatedAt, &p.UpdatedBy,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Player{}, err
	}
	utc(&p.DateOfBirth)
	utc(&p.CreatedAt)
	utcPtr(p.UpdatedAt)
	return p, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (*model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fail(ctx, "get player", err)
	}
	return &p, nil
}

func (r *playerRepository) ListByUser(ctx context.Context, userID string, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p = p.Normalize()
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players WHERE user_id = $1
		 ORDER BY name, id
		 LIMIT $2 OFFSET $3`,
		userID, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Player]{}, fail(ctx, "list players", err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, p.Limit)}
	for rows.Next() {
		var total int
		it, err := scanPlayer(rows, &total)
		if err != nil {
			return repository.PageResult[model.Player]{}, fail(ctx, "list players", err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, fail(ctx, "list players", err)
	}
	// an offset past the end returns no rows, so the window count is unavailable
	if len(res.Items) == 0 && p.Offset > 0 {
		if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE user_id = $1`, userID).Scan(&res.Total); err != nil {
			return repository.PageResult[model.Player]{}, fail(ctx, "count players", err)
		}
	}
	return res, nil
}

func (r *playerRepository) Add(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO players (user_id, name, date_of_birth, gender, photo_url, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+playerColumns,
		p.UserID, p.Name, p.DateOfBirth, p.Gender, p.PhotoURL, p.CreatedAt, p.CreatedBy,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, fail(ctx, "add player", err)
	}
	return out, nil
}

// Update writes only when the stored version still matches p.Version.
func (r *playerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE players
		 SET name = $3, date_of_birth = $4, gender = $5, photo_url = $6,
		     updated_at = $7, updated_by = $8, version = version + 1
		 WHERE id = $1 AND version = $2
		 RETURNING `+playerColumns,
		p.ID, p.Version, p.Name, p.DateOfBirth, p.Gender, p.PhotoURL, p.UpdatedAt, p.UpdatedBy,
	)
	out, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrConcurrencyConflict
		}
		return model.Player{}, fail(ctx, "update player", err)
	}
	return out, nil
}

// Delete relies on ON DELETE CASCADE for assignments and statistics.
func (r *playerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return false, fail(ctx, "delete player", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists performs a lightweight check to see if a player with the given ID exists.
func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fail(ctx, "player exists", err)
	}
	return exists, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
