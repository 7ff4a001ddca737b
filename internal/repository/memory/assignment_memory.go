package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type AssignmentRepository struct{ s *Store }

func cloneAssignment(a model.TeamAssignment) model.TeamAssignment {
	a.LeftDate = cloneTime(a.LeftDate)
	a.Audit = cloneAudit(a.Audit)
	return a
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*model.TeamAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, nil
	}
	out := cloneAssignment(a)
	return &out, nil
}

func (r *AssignmentRepository) ListByPlayer(ctx context.Context, playerID int64, includeInactive bool) ([]model.TeamAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]model.TeamAssignment, 0, 4)
	for _, a := range r.s.assignments {
		if a.PlayerID != playerID || (!includeInactive && !a.IsActive()) {
			continue
		}
		out = append(out, cloneAssignment(a))
	}
	r.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.TeamAssignment) int {
		return cmp.Or(b.JoinedDate.Compare(a.JoinedDate), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

// Add enforces the single-active-assignment rule under the store lock, the way the
// Postgres partial unique index does, so concurrent adds cannot both succeed.
func (r *AssignmentRepository) Add(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error) {
	if err := ctx.Err(); err != nil {
		return model.TeamAssignment{}, err
	}
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.players[a.PlayerID]; !ok {
		return model.TeamAssignment{}, repository.ErrConflict
	}
	if a.IsActive() && r.s.hasActiveDuplicateLocked(a.PlayerID, a.TeamName, a.ChampionshipName, nil) {
		return model.TeamAssignment{}, repository.ErrDuplicateActiveAssignment
	}
	a.ID = r.s.nextID(kindAssignment)
	a.Version = 1
	r.s.assignments[a.ID] = cloneAssignment(a)
	return a, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, a model.TeamAssignment) (model.TeamAssignment, error) {
	if err := ctx.Err(); err != nil {
		return model.TeamAssignment{}, err
	}
	defer r.s.lockWrite(ctx)()
	cur, ok := r.s.assignments[a.ID]
	if !ok || cur.Version != a.Version {
		return model.TeamAssignment{}, repository.ErrConcurrencyConflict
	}
	if a.IsActive() && r.s.hasActiveDuplicateLocked(a.PlayerID, a.TeamName, a.ChampionshipName, &a.ID) {
		return model.TeamAssignment{}, repository.ErrDuplicateActiveAssignment
	}
	a.Version++
	r.s.assignments[a.ID] = cloneAssignment(a)
	return a, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer r.s.lockWrite(ctx)()
	return r.s.deleteAssignmentLocked(id), nil
}

func (r *AssignmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.assignments[id]
	return ok, nil
}

func (r *AssignmentRepository) HasActiveDuplicate(ctx context.Context, playerID int64, teamName, championshipName string, excludeID *int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.hasActiveDuplicateLocked(playerID, teamName, championshipName, excludeID), nil
}

func (s *Store) hasActiveDuplicateLocked(playerID int64, teamName, championshipName string, excludeID *int64) bool {
	for _, a := range s.assignments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.PlayerID == playerID && a.IsActive() &&
			sameKey(a.TeamName, teamName) && sameKey(a.ChampionshipName, championshipName) {
			return true
		}
	}
	return false
}

// deleteAssignmentLocked removes an assignment and its statistics; mu must be held for writing.
func (s *Store) deleteAssignmentLocked(id int64) bool {
	if _, ok := s.assignments[id]; !ok {
		return false
	}
	for sid, st := range s.statistics {
		if st.AssignmentID == id {
			delete(s.statistics, sid)
		}
	}
	delete(s.assignments, id)
	return true
}

var _ repository.AssignmentRepository = (*AssignmentRepository)(nil)
