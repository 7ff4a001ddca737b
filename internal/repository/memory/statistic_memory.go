package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type StatisticRepository struct{ s *Store }

func cloneStatistic(st model.GameStatistic) model.GameStatistic {
	st.Audit = cloneAudit(st.Audit)
	return st
}

func byGameDateDesc(a, b model.GameStatistic) int {
	return cmp.Or(b.GameDate.Compare(a.GameDate), cmp.Compare(b.ID, a.ID))
}

func (r *StatisticRepository) GetByID(ctx context.Context, id int64) (*model.GameStatistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.statistics[id]
	if !ok {
		return nil, nil
	}
	out := cloneStatistic(st)
	return &out, nil
}

func (r *StatisticRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]model.GameStatistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]model.GameStatistic, 0, 8)
	for _, st := range r.s.statistics {
		if st.AssignmentID == assignmentID {
			out = append(out, cloneStatistic(st))
		}
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, byGameDateDesc)
	return out, nil
}

func (r *StatisticRepository) ListByPlayer(ctx context.Context, playerID int64, rng model.DateRange) ([]model.GameStatistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]model.GameStatistic, 0, 8)
	for _, st := range r.s.statistics {
		a, ok := r.s.assignments[st.AssignmentID]
		if !ok || a.PlayerID != playerID || !rng.Contains(st.GameDate) {
			continue
		}
		out = append(out, cloneStatistic(st))
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, byGameDateDesc)
	return out, nil
}

func (r *StatisticRepository) Add(ctx context.Context, st model.GameStatistic) (model.GameStatistic, error) {
	if err := ctx.Err(); err != nil {
		return model.GameStatistic{}, err
	}
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.assignments[st.AssignmentID]; !ok {
		return model.GameStatistic{}, repository.ErrConflict
	}
	st.ID = r.s.nextID(kindStatistic)
	st.Version = 1
	r.s.statistics[st.ID] = cloneStatistic(st)
	return st, nil
}

func (r *StatisticRepository) Update(ctx context.Context, st model.GameStatistic) (model.GameStatistic, error) {
	if err := ctx.Err(); err != nil {
		return model.GameStatistic{}, err
	}
	defer r.s.lockWrite(ctx)()
	cur, ok := r.s.statistics[st.ID]
	if !ok || cur.Version != st.Version {
		return model.GameStatistic{}, repository.ErrConcurrencyConflict
	}
	if _, ok := r.s.assignments[st.AssignmentID]; !ok {
		return model.GameStatistic{}, repository.ErrConflict
	}
	st.Version++
	r.s.statistics[st.ID] = cloneStatistic(st)
	return st, nil
}

func (r *StatisticRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer r.s.lockWrite(ctx)()
	if _, ok := r.s.statistics[id]; !ok {
		return false, nil
	}
	delete(r.s.statistics, id)
	return true, nil
}

func (r *StatisticRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.statistics[id]
	return ok, nil
}

// GetAggregates sums a player's games in one pass, optionally narrowed to a single assignment.
func (r *StatisticRepository) GetAggregates(ctx context.Context, playerID int64, assignmentID *int64) (model.AggregateResult, error) {
	if err := ctx.Err(); err != nil {
		return model.AggregateResult{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var games, goals, assists, minutes int
	for _, st := range r.s.statistics {
		if assignmentID != nil && st.AssignmentID != *assignmentID {
			continue
		}
		a, ok := r.s.assignments[st.AssignmentID]
		if !ok || a.PlayerID != playerID {
			continue
		}
		games++
		goals += st.Goals
		assists += st.Assists
		minutes += st.MinutesPlayed
	}
	return model.NewAggregateResult(games, goals, assists, minutes), nil
}

var _ repository.StatisticRepository = (*StatisticRepository)(nil)
