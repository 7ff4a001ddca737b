// Package contract holds backend-agnostic behavior suites. Every repository
// implementation runs the same suites so the memory and Postgres backends stay interchangeable.
package contract

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
)

type PlayerFactory func(t *testing.T) (repo repository.PlayerRepository, cleanup func())

type AssignmentFactory func(t *testing.T) (repo repository.AssignmentRepository, mkPlayer func(ctx context.Context) (int64, error), cleanup func())

type StatisticFactory func(t *testing.T) (repo repository.StatisticRepository, mkAssignment func(ctx context.Context, playerID int64) (int64, error), mkPlayer func(ctx context.Context) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, players repository.PlayerRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

var (
	day0    = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newPlayer(userID, name string) model.Player {
	return model.Player{
		UserID:      userID,
		Name:        name,
		DateOfBirth: time.Date(2010, 5, 15, 0, 0, 0, 0, time.UTC),
		Audit:       model.Audit{CreatedAt: created, CreatedBy: "coach"},
	}
}

func newAssignment(playerID int64, team, champ string, joined time.Time) model.TeamAssignment {
	return model.TeamAssignment{
		PlayerID:         playerID,
		TeamName:         team,
		ChampionshipName: champ,
		JoinedDate:       joined,
		Audit:            model.Audit{CreatedAt: created, CreatedBy: "coach"},
	}
}

func newStatistic(assignmentID int64, game time.Time, goals, assists, minutes int) model.GameStatistic {
	return model.GameStatistic{
		AssignmentID:  assignmentID,
		GameDate:      game,
		MinutesPlayed: minutes,
		JerseyNumber:  10,
		Goals:         goals,
		Assists:       assists,
		Audit:         model.Audit{CreatedAt: created, CreatedBy: "coach"},
	}
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("add_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		gender := "Female"
		in := newPlayer("coach-1", "Jane Doe")
		in.Gender = &gender
		out, err := repo.Add(ctx, in)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if out.ID <= 0 || out.Version != 1 {
			t.Fatalf("expected generated id and version 1, got %+v", out)
		}
		got, err := repo.GetByID(ctx, out.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got == nil || got.Name != "Jane Doe" || got.UserID != "coach-1" || got.Gender == nil || *got.Gender != gender {
			t.Fatalf("mismatch: %+v", got)
		}
		if !got.DateOfBirth.Equal(in.DateOfBirth) || got.CreatedBy != "coach" || got.UpdatedAt != nil {
			t.Fatalf("unexpected persisted fields: %+v", got)
		}
	})

	t.Run("get_missing_returns_nil", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), 424242)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
		}
		ok, err := repo.Exists(context.Background(), 424242)
		if err != nil || ok {
			t.Fatalf("expected not exists, got %v %v", ok, err)
		}
	})

	t.Run("update_bumps_version_and_detects_stale_writes", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p, err := repo.Add(ctx, newPlayer("coach-1", "Jane"))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		stale := p
		p.Name = "Jane Smith"
		p.Touch("coach-2", created.Add(time.Hour))
		updated, err := repo.Update(ctx, p)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Version != 2 || updated.Name != "Jane Smith" {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		stale.Name = "Lost write"
		if _, err := repo.Update(ctx, stale); !errors.Is(err, repository.ErrConcurrencyConflict) {
			t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
		}
		got, _ := repo.GetByID(ctx, p.ID)
		if got.Name != "Jane Smith" || got.UpdatedBy == nil || *got.UpdatedBy != "coach-2" {
			t.Fatalf("stale write leaked: %+v", got)
		}
	})

	t.Run("update_missing_is_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		p := newPlayer("coach-1", "Ghost")
		p.ID, p.Version = 999999, 1
		if _, err := repo.Update(context.Background(), p); !errors.Is(err, repository.ErrConcurrencyConflict) {
			t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
		}
	})

	t.Run("list_by_user_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			if _, err := repo.Add(ctx, newPlayer("coach-1", "P-"+string(rune('A'+i)))); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		if _, err := repo.Add(ctx, newPlayer("coach-2", "Other")); err != nil {
			t.Fatalf("seed other: %v", err)
		}
		res, err := repo.ListByUser(ctx, "coach-1", repository.Page{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].Name != "P-C" || res.Items[1].Name != "P-D" {
			t.Fatalf("expected name order, got %s, %s", res.Items[0].Name, res.Items[1].Name)
		}
	})

	t.Run("delete_reports_affected", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p, _ := repo.Add(ctx, newPlayer("coach-1", "Jane"))
		ok, err := repo.Delete(ctx, p.ID)
		if err != nil || !ok {
			t.Fatalf("expected delete true, got %v %v", ok, err)
		}
		ok, err = repo.Delete(ctx, p.ID)
		if err != nil || ok {
			t.Fatalf("expected second delete false, got %v %v", ok, err)
		}
	})

	t.Run("canceled_context", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := repo.Add(ctx, newPlayer("coach-1", "Jane")); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func RunAssignmentRepositoryContract(t *testing.T, makeRepo AssignmentFactory) {
	t.Helper()

	t.Run("add_get_and_list_order", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, err := mkPlayer(ctx)
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		older, err := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
		if err != nil {
			t.Fatalf("add older: %v", err)
		}
		newer, err := repo.Add(ctx, newAssignment(pid, "Tigers", "Spring 2024", day0.AddDate(0, 1, 0)))
		if err != nil {
			t.Fatalf("add newer: %v", err)
		}
		got, err := repo.GetByID(ctx, older.ID)
		if err != nil || got == nil || got.TeamName != "Lions" || !got.IsActive() || got.Version != 1 {
			t.Fatalf("get mismatch: %+v %v", got, err)
		}
		list, err := repo.ListByPlayer(ctx, pid, true)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Fatalf("expected newest joined first, got %+v", list)
		}
	})

	t.Run("get_missing_returns_nil", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), 777777)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("add_for_missing_player_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Add(context.Background(), newAssignment(9999999, "Lions", "Spring 2024", day0))
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("duplicate_active_rejected_case_insensitively", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		first, err := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		_, err = repo.Add(ctx, newAssignment(pid, "lions", "SPRING 2024", day0.AddDate(0, 0, 1)))
		if !errors.Is(err, repository.ErrDuplicateActiveAssignment) {
			t.Fatalf("expected ErrDuplicateActiveAssignment, got %v", err)
		}

		dup, err := repo.HasActiveDuplicate(ctx, pid, "LIONS", "spring 2024", nil)
		if err != nil || !dup {
			t.Fatalf("expected duplicate, got %v %v", dup, err)
		}
		dup, err = repo.HasActiveDuplicate(ctx, pid, "Lions", "Spring 2024", &first.ID)
		if err != nil || dup {
			t.Fatalf("expected excluded record to be ignored, got %v %v", dup, err)
		}
	})

	t.Run("rejoin_after_leaving", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		a, _ := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
		if err := a.Leave(day0.AddDate(0, 2, 0), "coach", created); err != nil {
			t.Fatalf("leave: %v", err)
		}
		left, err := repo.Update(ctx, a)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if left.Version != 2 || left.IsActive() {
			t.Fatalf("unexpected update result: %+v", left)
		}
		if _, err := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0.AddDate(0, 3, 0))); err != nil {
			t.Fatalf("rejoin should succeed: %v", err)
		}
		active, _ := repo.ListByPlayer(ctx, pid, false)
		all, _ := repo.ListByPlayer(ctx, pid, true)
		if len(active) != 1 || len(all) != 2 {
			t.Fatalf("expected 1 active of 2, got %d of %d", len(active), len(all))
		}
	})

	t.Run("stale_update_conflict", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		a, _ := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
		stale := a
		a.TeamName = "Lions FC"
		if _, err := repo.Update(ctx, a); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := repo.Update(ctx, stale); !errors.Is(err, repository.ErrConcurrencyConflict) {
			t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
		}
	})

	t.Run("concurrent_adds_single_winner", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
			}(i)
		}
		wg.Wait()

		var ok, dup int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, repository.ErrDuplicateActiveAssignment):
				dup++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if ok != 1 || dup != n-1 {
			t.Fatalf("expected one winner, got ok=%d dup=%d", ok, dup)
		}
	})

	t.Run("delete_reports_affected", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		a, _ := repo.Add(ctx, newAssignment(pid, "Lions", "Spring 2024", day0))
		if ok, err := repo.Delete(ctx, a.ID); err != nil || !ok {
			t.Fatalf("expected delete true, got %v %v", ok, err)
		}
		if ok, err := repo.Exists(ctx, a.ID); err != nil || ok {
			t.Fatalf("expected gone, got %v %v", ok, err)
		}
	})
}

func RunStatisticRepositoryContract(t *testing.T, makeRepo StatisticFactory) {
	t.Helper()

	t.Run("add_get_and_list_order", func(t *testing.T) {
		repo, mkAssignment, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		aid, err := mkAssignment(ctx, pid)
		if err != nil {
			t.Fatalf("seed assignment: %v", err)
		}
		first, err := repo.Add(ctx, newStatistic(aid, day0.AddDate(0, 0, 7), 1, 0, 60))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		second, _ := repo.Add(ctx, newStatistic(aid, day0.AddDate(0, 0, 14), 2, 1, 90))
		got, err := repo.GetByID(ctx, first.ID)
		if err != nil || got == nil || got.Goals != 1 || got.AssignmentID != aid || got.Version != 1 {
			t.Fatalf("get mismatch: %+v %v", got, err)
		}
		list, err := repo.ListByAssignment(ctx, aid)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != second.ID {
			t.Fatalf("expected most recent game first, got %+v", list)
		}
	})

	t.Run("get_missing_returns_nil", func(t *testing.T) {
		repo, _, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), 313131)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("add_for_missing_assignment_conflict", func(t *testing.T) {
		repo, _, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Add(context.Background(), newStatistic(8888888, day0, 0, 0, 10))
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list_by_player_spans_assignments_within_range", func(t *testing.T) {
		repo, mkAssignment, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		other, _ := mkPlayer(ctx)
		a1, _ := mkAssignment(ctx, pid)
		a2, _ := mkAssignment(ctx, pid)
		a3, _ := mkAssignment(ctx, other)
		for _, s := range []model.GameStatistic{
			newStatistic(a1, day0, 1, 0, 30),
			newStatistic(a2, day0.AddDate(0, 0, 10), 1, 0, 30),
			newStatistic(a2, day0.AddDate(0, 0, 40), 1, 0, 30),
			newStatistic(a3, day0.AddDate(0, 0, 10), 1, 0, 30),
		} {
			if _, err := repo.Add(ctx, s); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		all, err := repo.ListByPlayer(ctx, pid, model.DateRange{})
		if err != nil || len(all) != 3 {
			t.Fatalf("expected 3 statistics, got %d %v", len(all), err)
		}
		ranged, err := repo.ListByPlayer(ctx, pid, model.DateRange{From: day0, To: day0.AddDate(0, 0, 10)})
		if err != nil || len(ranged) != 2 {
			t.Fatalf("expected inclusive range to hold 2, got %d %v", len(ranged), err)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		repo, mkAssignment, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		a1, _ := mkAssignment(ctx, pid)
		a2, _ := mkAssignment(ctx, pid)

		empty, err := repo.GetAggregates(ctx, pid, nil)
		if err != nil {
			t.Fatalf("aggregates: %v", err)
		}
		if empty != (model.AggregateResult{}) {
			t.Fatalf("expected zero aggregate, got %+v", empty)
		}

		seed := []model.GameStatistic{
			newStatistic(a1, day0, 2, 1, 90),
			newStatistic(a1, day0.AddDate(0, 0, 7), 1, 0, 60),
			newStatistic(a2, day0.AddDate(0, 0, 14), 0, 2, 45),
		}
		for _, s := range seed {
			if _, err := repo.Add(ctx, s); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		all, err := repo.GetAggregates(ctx, pid, nil)
		if err != nil {
			t.Fatalf("aggregates all: %v", err)
		}
		if all != model.NewAggregateResult(3, 3, 3, 195) {
			t.Fatalf("unexpected totals: %+v", all)
		}
		one, err := repo.GetAggregates(ctx, pid, &a1)
		if err != nil {
			t.Fatalf("aggregates one: %v", err)
		}
		if one.GameCount != 2 || one.TotalGoals != 3 || one.AverageMinutes != 75 {
			t.Fatalf("unexpected assignment totals: %+v", one)
		}
	})

	t.Run("update_and_delete", func(t *testing.T) {
		repo, mkAssignment, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		pid, _ := mkPlayer(ctx)
		aid, _ := mkAssignment(ctx, pid)
		s, _ := repo.Add(ctx, newStatistic(aid, day0, 0, 0, 10))
		stale := s
		s.Goals = 3
		updated, err := repo.Update(ctx, s)
		if err != nil || updated.Version != 2 || updated.Goals != 3 {
			t.Fatalf("update: %+v %v", updated, err)
		}
		if _, err := repo.Update(ctx, stale); !errors.Is(err, repository.ErrConcurrencyConflict) {
			t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
		}
		if ok, err := repo.Delete(ctx, s.ID); err != nil || !ok {
			t.Fatalf("delete: %v %v", ok, err)
		}
		if ok, err := repo.Delete(ctx, s.ID); err != nil || ok {
			t.Fatalf("second delete should report false: %v %v", ok, err)
		}
	})
}

// RunCascadeContract checks that deleting a player removes its assignments and their statistics.
func RunCascadeContract(t *testing.T, makeRepos func(t *testing.T) (repository.PlayerRepository, repository.AssignmentRepository, repository.StatisticRepository, func())) {
	t.Helper()
	t.Run("player_delete_cascades", func(t *testing.T) {
		players, assignments, stats, cleanup := makeRepos(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p, err := players.Add(ctx, newPlayer("coach-1", "Jane"))
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		a, err := assignments.Add(ctx, newAssignment(p.ID, "Lions", "Spring 2024", day0))
		if err != nil {
			t.Fatalf("seed assignment: %v", err)
		}
		s, err := stats.Add(ctx, newStatistic(a.ID, day0, 1, 1, 30))
		if err != nil {
			t.Fatalf("seed statistic: %v", err)
		}
		if ok, err := players.Delete(ctx, p.ID); err != nil || !ok {
			t.Fatalf("delete: %v %v", ok, err)
		}
		if ok, _ := assignments.Exists(ctx, a.ID); ok {
			t.Fatalf("assignment survived player delete")
		}
		if ok, _ := stats.Exists(ctx, s.ID); ok {
			t.Fatalf("statistic survived player delete")
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := players.Add(ctx, newPlayer("coach-1", "TxCommit"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if got, err := players.GetByID(ctx, createdID); err != nil || got == nil {
			t.Fatalf("expected committed row visible, got %+v err=%v", got, err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := players.Add(ctx, newPlayer("coach-1", "TxRollback"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if got, err := players.GetByID(ctx, createdID); err != nil || got != nil {
			t.Fatalf("expected no row after rollback, got %+v err=%v", got, err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
