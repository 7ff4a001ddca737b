package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type PlayerRepository struct{ s *Store }

func clonePlayer(p model.Player) model.Player {
	p.Gender = cloneString(p.Gender)
	p.PhotoURL = cloneString(p.PhotoURL)
	p.Audit = cloneAudit(p.Audit)
	return p
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, nil
	}
	out := clonePlayer(p)
	return &out, nil
}

func (r *PlayerRepository) ListByUser(ctx context.Context, userID string, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ctx.Err(); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p = p.Normalize()
	r.s.mu.RLock()
	var all []model.Player
	for _, pl := range r.s.players {
		if pl.UserID == userID {
			all = append(all, clonePlayer(pl))
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(all, func(a, b model.Player) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	res := repository.PageResult[model.Player]{Items: []model.Player{}, Total: len(all)}
	if p.Offset < len(all) {
		end := min(p.Offset+p.Limit, len(all))
		res.Items = all[p.Offset:end]
	}
	return res, nil
}

func (r *PlayerRepository) Add(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	defer r.s.lockWrite(ctx)()
	p.ID = r.s.nextID(kindPlayer)
	p.Version = 1
	r.s.players[p.ID] = clonePlayer(p)
	return p, nil
}

func (r *PlayerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, err
	}
	defer r.s.lockWrite(ctx)()
	cur, ok := r.s.players[p.ID]
	if !ok || cur.Version != p.Version {
		return model.Player{}, repository.ErrConcurrencyConflict
	}
	p.Version++
	r.s.players[p.ID] = clonePlayer(p)
	return p, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.players[id]; !ok {
		return false, nil
	}
	for aid, a := range r.s.assignments {
		if a.PlayerID == id {
			r.s.deleteAssignmentLocked(aid)
		}
	}
	delete(r.s.players, id)
	return true, nil
}

func (r *PlayerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.players[id]
	return ok, nil
}

var _ repository.PlayerRepository = (*PlayerRepository)(nil)
