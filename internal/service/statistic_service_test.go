package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/internal/validation"
)

func TestStatisticService_AddStatistic(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := mustPlayer(t, e)
	a := mustAssignment(t, e, p.ID, "Lions", date(2024, 1, 10))

	cases := []struct {
		name    string
		dto     model.CreateStatisticDTO
		wantOK  bool
		field   string
		message string
	}{
		{"minutes 0", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 0, JerseyNumber: 1}, true, "", ""},
		{"minutes 120", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 120, JerseyNumber: 99}, true, "", ""},
		{"minutes 121", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 121, JerseyNumber: 9}, false, validation.FieldMinutesPlayed, ""},
		{"jersey 0", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), JerseyNumber: 0}, false, validation.FieldJerseyNumber, ""},
		{"jersey 100", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: date(2024, 2, 1), JerseyNumber: 100}, false, validation.FieldJerseyNumber, ""},
		{"game today", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: testNow, JerseyNumber: 5}, true, "", ""},
		{"game tomorrow", model.CreateStatisticDTO{TeamPlayerID: a.ID, GameDate: testNow.AddDate(0, 0, 1), JerseyNumber: 5}, false, validation.FieldGameDate, ""},
		{"unknown assignment", model.CreateStatisticDTO{TeamPlayerID: 404, GameDate: date(2024, 2, 1), JerseyNumber: 5}, false, "", "Team assignment with ID 404 could not be found."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := e.stats.AddStatistic(ctx, tc.dto, coach)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, res.Success, "%+v", res)
			if tc.field != "" {
				assert.Contains(t, res.ValidationErrors, tc.field)
			}
			if tc.message != "" {
				assert.Equal(t, []string{tc.message}, res.ErrorMessages)
				assert.Empty(t, res.ValidationErrors)
			}
		})
	}
}

func TestStatisticService_UpdateStatistic(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := mustPlayer(t, e)
	lions := mustAssignment(t, e, p.ID, "Lions", date(2024, 1, 10))
	tigers := mustAssignment(t, e, p.ID, "Tigers", date(2024, 1, 11))
	added, err := e.stats.AddStatistic(ctx, model.CreateStatisticDTO{TeamPlayerID: lions.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 45, JerseyNumber: 9}, coach)
	require.NoError(t, err)
	require.True(t, added.Success)
	id := added.Data.ID

	t.Run("mismatch", func(t *testing.T) {
		res, err := e.stats.UpdateStatistic(ctx, id, model.UpdateStatisticDTO{PlayerStatisticID: id + 1}, coach)
		require.NoError(t, err)
		assert.Equal(t, []string{service.MsgIDMismatch}, res.ErrorMessages)
	})

	t.Run("missing", func(t *testing.T) {
		res, err := e.stats.UpdateStatistic(ctx, 999, model.UpdateStatisticDTO{PlayerStatisticID: 999}, coach)
		require.NoError(t, err)
		assert.Equal(t, []string{"Statistic with ID 999 could not be found."}, res.ErrorMessages)
	})

	t.Run("moving to a missing assignment", func(t *testing.T) {
		res, err := e.stats.UpdateStatistic(ctx, id, model.UpdateStatisticDTO{
			PlayerStatisticID: id, TeamPlayerID: 555, GameDate: date(2024, 2, 1), MinutesPlayed: 45, JerseyNumber: 9,
		}, coach)
		require.NoError(t, err)
		assert.Equal(t, []string{"Team assignment with ID 555 could not be found."}, res.ErrorMessages)
	})

	t.Run("collects several field errors", func(t *testing.T) {
		res, err := e.stats.UpdateStatistic(ctx, id, model.UpdateStatisticDTO{
			PlayerStatisticID: id, TeamPlayerID: lions.ID, GameDate: date(2024, 2, 1), MinutesPlayed: -1, JerseyNumber: 0,
		}, coach)
		require.NoError(t, err)
		assert.Contains(t, res.ValidationErrors, validation.FieldMinutesPlayed)
		assert.Contains(t, res.ValidationErrors, validation.FieldJerseyNumber)
	})

	t.Run("moves to another assignment", func(t *testing.T) {
		res, err := e.stats.UpdateStatistic(ctx, id, model.UpdateStatisticDTO{
			PlayerStatisticID: id, TeamPlayerID: tigers.ID, GameDate: date(2024, 2, 2), MinutesPlayed: 50, JerseyNumber: 10, Goals: 1, Starter: true,
		}, "coach-2")
		require.NoError(t, err)
		require.True(t, res.Success, "%+v", res)
		assert.Equal(t, tigers.ID, res.Data.AssignmentID)
		assert.True(t, res.Data.Starter)
		assert.Equal(t, "coach-2", *res.Data.UpdatedBy)

		onLions, err := e.stats.GetStatisticsByAssignment(ctx, lions.ID)
		require.NoError(t, err)
		assert.Empty(t, onLions.Data)
	})
}

func TestStatisticService_Aggregates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := mustPlayer(t, e)
	lions := mustAssignment(t, e, p.ID, "Lions", date(2024, 1, 10))
	tigers := mustAssignment(t, e, p.ID, "Tigers", date(2024, 1, 11))

	for _, dto := range []model.CreateStatisticDTO{
		{TeamPlayerID: lions.ID, GameDate: date(2024, 2, 1), MinutesPlayed: 90, JerseyNumber: 9, Goals: 2, Assists: 1},
		{TeamPlayerID: lions.ID, GameDate: date(2024, 2, 8), MinutesPlayed: 60, JerseyNumber: 9, Goals: 1},
		{TeamPlayerID: tigers.ID, GameDate: date(2024, 2, 15), MinutesPlayed: 30, JerseyNumber: 4, Assists: 2},
	} {
		res, err := e.stats.AddStatistic(ctx, dto, coach)
		require.NoError(t, err)
		require.True(t, res.Success, "%+v", res)
	}

	all, err := e.stats.GetAggregates(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Data.GameCount)
	assert.Equal(t, 3, all.Data.TotalGoals)
	assert.Equal(t, 3, all.Data.TotalAssists)
	assert.Equal(t, 180, all.Data.TotalMinutes)
	assert.InDelta(t, 1.0, all.Data.AverageGoals, 1e-9)
	assert.InDelta(t, 60.0, all.Data.AverageMinutes, 1e-9)

	again, err := e.stats.GetAggregates(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, all.Data, again.Data, "aggregation is idempotent")

	one, err := e.stats.GetAggregates(ctx, p.ID, &lions.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NewAggregateResult(2, 3, 1, 150), one.Data)

	_, err = e.stats.GetAggregates(ctx, p.ID, ptr(int64(0)))
	assert.ErrorIs(t, err, service.ErrInvalidArgument)
}

func TestStatisticService_ListsAreNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := mustPlayer(t, e)
	lions := mustAssignment(t, e, p.ID, "Lions", date(2024, 1, 10))
	tigers := mustAssignment(t, e, p.ID, "Tigers", date(2024, 1, 11))

	for _, dto := range []model.CreateStatisticDTO{
		{TeamPlayerID: lions.ID, GameDate: date(2024, 2, 1), JerseyNumber: 9},
		{TeamPlayerID: tigers.ID, GameDate: date(2024, 3, 1), JerseyNumber: 9},
		{TeamPlayerID: lions.ID, GameDate: date(2024, 4, 1), JerseyNumber: 9},
	} {
		_, err := e.stats.AddStatistic(ctx, dto, coach)
		require.NoError(t, err)
	}

	byAssignment, err := e.stats.GetStatisticsByAssignment(ctx, lions.ID)
	require.NoError(t, err)
	require.Len(t, byAssignment.Data, 2)
	assert.Equal(t, date(2024, 4, 1), byAssignment.Data[0].GameDate)

	byPlayer, err := e.stats.GetStatisticsByPlayer(ctx, p.ID, model.DateRange{From: date(2024, 2, 1), To: date(2024, 3, 1)})
	require.NoError(t, err)
	require.Len(t, byPlayer.Data, 2)
	assert.Equal(t, date(2024, 3, 1), byPlayer.Data[0].GameDate)
	assert.Equal(t, date(2024, 2, 1), byPlayer.Data[1].GameDate)

	inverted, err := e.stats.GetStatisticsByPlayer(ctx, p.ID, model.DateRange{From: date(2024, 3, 1), To: date(2024, 2, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{service.MsgInvalidRange}, inverted.ValidationErrors[validation.FieldGameDate])
}
