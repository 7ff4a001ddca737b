package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/validation"
)

const coach = "coach-1"

// TestRosterLifecycle walks a player through joining, leaving, re-joining and recording games.
func TestRosterLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	// add player and first assignment
	pr, err := e.players.CreatePlayer(ctx, model.CreatePlayerDTO{UserID: coach, Name: "Jane Doe", DateOfBirth: date(2010, 5, 15)}, coach)
	require.NoError(t, err)
	require.True(t, pr.Success, "%+v", pr)
	jane := pr.Data

	first, err := e.assignments.AddPlayerToTeam(ctx, model.CreateAssignmentDTO{
		PlayerID: jane.ID, TeamName: "Lions", ChampionshipName: "Spring 2024", JoinedDate: date(2024, 1, 10),
	}, coach)
	require.NoError(t, err)
	require.True(t, first.Success, "%+v", first)
	assert.True(t, first.Data.IsActive())
	assert.Equal(t, coach, first.Data.CreatedBy)
	assert.Equal(t, testNow, first.Data.CreatedAt)

	dup, err := e.assignments.AddPlayerToTeam(ctx, model.CreateAssignmentDTO{
		PlayerID: jane.ID, TeamName: "Lions", ChampionshipName: "Spring 2024", JoinedDate: date(2024, 2, 1),
	}, coach)
	require.NoError(t, err)
	assert.False(t, dup.Success)
	assert.Contains(t, dup.ValidationErrors, validation.FieldDuplicateAssignment)

	// leave, then re-join the same team
	left, err := e.assignments.RemovePlayerFromTeam(ctx, first.Data.ID, date(2024, 6, 1), coach)
	require.NoError(t, err)
	require.True(t, left.Success, "%+v", left)
	assert.False(t, left.Data.IsActive())
	require.NotNil(t, left.Data.UpdatedBy)
	assert.Equal(t, coach, *left.Data.UpdatedBy)

	rejoin, err := e.assignments.AddPlayerToTeam(ctx, model.CreateAssignmentDTO{
		PlayerID: jane.ID, TeamName: "Lions", ChampionshipName: "Spring 2024", JoinedDate: date(2024, 6, 15),
	}, coach)
	require.NoError(t, err)
	require.True(t, rejoin.Success, "%+v", rejoin)
	assert.NotEqual(t, first.Data.ID, rejoin.Data.ID, "re-join creates a new record")

	all, err := e.assignments.GetTeamsByPlayer(ctx, jane.ID, true)
	require.NoError(t, err)
	require.Len(t, all.Data, 2)
	assert.Equal(t, rejoin.Data.ID, all.Data[0].ID, "most recently joined first")
	active, err := e.assignments.GetActiveTeamsByPlayer(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, active.Data, 1)
	assert.Equal(t, rejoin.Data.ID, active.Data[0].ID)

	// record games
	game, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{
		TeamPlayerID: rejoin.Data.ID, GameDate: date(2024, 6, 20), MinutesPlayed: 90, JerseyNumber: 9, Goals: 2, Assists: 1,
	}, coach)
	require.NoError(t, err)
	require.True(t, game.Success, "%+v", game)

	bad, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{
		TeamPlayerID: rejoin.Data.ID, GameDate: date(2024, 6, 21), MinutesPlayed: -5, JerseyNumber: 9,
	}, coach)
	require.NoError(t, err)
	assert.False(t, bad.Success)
	assert.Contains(t, bad.ValidationErrors, validation.FieldMinutesPlayed)

	agg, err := e.stats.GetAggregates(ctx, jane.ID, nil)
	require.NoError(t, err)
	require.True(t, agg.Success)
	assert.Equal(t, model.NewAggregateResult(1, 2, 1, 90), agg.Data)
}

func TestScenario_StatisticForActiveAssignment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	jane := mustPlayer(t, e)
	a := mustAssignment(t, e, jane.ID, "Lions", date(2024, 1, 10))

	ok, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{
		TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 90, JerseyNumber: 9, Goals: 2, Assists: 1,
	}, coach)
	require.NoError(t, err)
	require.True(t, ok.Success, "%+v", ok)
	assert.Equal(t, int64(1), ok.Data.Version)

	neg, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{
		TeamPlayerID: a.ID, GameDate: date(2024, 2, 8), MinutesPlayed: -5, JerseyNumber: 9,
	}, coach)
	require.NoError(t, err)
	assert.False(t, neg.Success)
	assert.Equal(t, []string{"Minutes played must be between 0 and 120."}, neg.ValidationErrors[validation.FieldMinutesPlayed])
	assert.Empty(t, neg.ErrorMessages)
}

func TestScenario_AggregatesWithoutStatistics(t *testing.T) {
	e := newEnv(t)
	jane := mustPlayer(t, e)

	res, err := e.stats.GetAggregates(context.Background(), jane.ID, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 0, res.Data.GameCount)
	assert.Equal(t, 0, res.Data.TotalGoals)
	assert.Zero(t, res.Data.AverageGoals)
	assert.Zero(t, res.Data.AverageAssists)
	assert.Zero(t, res.Data.AverageMinutes)
}

func TestScenario_UpdateAssignmentIDMismatch(t *testing.T) {
	e := newEnv(t)
	res, err := e.assignments.UpdateAssignment(context.Background(), 1, model.UpdateAssignmentDTO{
		TeamPlayerID: 2, TeamName: "Lions", ChampionshipName: "Spring 2024", JoinedDate: date(2024, 1, 10),
	}, coach)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"The ID in the URL does not match the ID in the request body."}, res.ErrorMessages)
	assert.Empty(t, res.ValidationErrors)
}

func TestScenario_DeleteStatistic(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	missing, err := e.stats.DeleteStatistic(ctx, 99)
	require.NoError(t, err)
	assert.False(t, missing.Success)
	require.Len(t, missing.ErrorMessages, 1)
	assert.Contains(t, missing.ErrorMessages[0], "could not be found")

	jane := mustPlayer(t, e)
	a := mustAssignment(t, e, jane.ID, "Lions", date(2024, 1, 10))
	st, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 60, JerseyNumber: 7}, coach)
	require.NoError(t, err)
	require.True(t, st.Success)

	del, err := e.stats.DeleteStatistic(ctx, st.Data.ID)
	require.NoError(t, err)
	assert.True(t, del.Success)
	assert.True(t, del.Data)
}

func mustPlayer(t *testing.T, e *env) model.Player {
	t.Helper()
	res, err := e.players.CreatePlayer(context.Background(), model.CreatePlayerDTO{UserID: coach, Name: "Jane Doe", DateOfBirth: date(2010, 5, 15)}, coach)
	require.NoError(t, err)
	require.True(t, res.Success, "%+v", res)
	return res.Data
}

func mustAssignment(t *testing.T, e *env, playerID int64, team string, joined time.Time) model.TeamAssignment {
	t.Helper()
	res, err := e.assignments.AddPlayerToTeam(context.Background(), model.CreateAssignmentDTO{
		PlayerID: playerID, TeamName: team, ChampionshipName: "Spring 2024", JoinedDate: joined,
	}, coach)
	require.NoError(t, err)
	require.True(t, res.Success, "%+v", res)
	return res.Data
}
