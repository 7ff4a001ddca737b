package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/internal/validation"
)

func TestPlayerService_CreatePlayer(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		dto    model.CreatePlayerDTO
		wantOK bool
		field  string
	}{
		{"ok", model.CreatePlayerDTO{UserID: coach, Name: "Jane Doe", DateOfBirth: date(2010, 5, 15)}, true, ""},
		{"born today", model.CreatePlayerDTO{UserID: coach, Name: "Jane", DateOfBirth: testNow}, false, validation.FieldDateOfBirth},
		{"exactly 100 years", model.CreatePlayerDTO{UserID: coach, Name: "Old", DateOfBirth: testNow.AddDate(-100, 0, 0)}, true, ""},
		{"blank name", model.CreatePlayerDTO{UserID: coach, Name: "   ", DateOfBirth: date(2010, 5, 15)}, false, validation.FieldName},
		{"bad photo", model.CreatePlayerDTO{UserID: coach, Name: "Jane", DateOfBirth: date(2010, 5, 15), PhotoURL: ptr("mailto:jane@example.com")}, false, validation.FieldPhotoURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			res, err := e.players.CreatePlayer(ctx, tc.dto, coach)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, res.Success, "%+v", res)
			if tc.field != "" {
				assert.Contains(t, res.ValidationErrors, tc.field)
				assert.Empty(t, res.ErrorMessages)
			}
		})
	}
}

func TestPlayerService_NormalizesOptionalFields(t *testing.T) {
	e := newEnv(t)
	res, err := e.players.CreatePlayer(context.Background(), model.CreatePlayerDTO{
		UserID: coach, Name: "  Jane Doe ", DateOfBirth: date(2010, 5, 15), Gender: ptr("FEMALE"), PhotoURL: ptr("  "),
	}, coach)
	require.NoError(t, err)
	require.True(t, res.Success, "%+v", res)
	assert.Equal(t, "Jane Doe", res.Data.Name)
	require.NotNil(t, res.Data.Gender)
	assert.Equal(t, "Female", *res.Data.Gender)
	assert.Nil(t, res.Data.PhotoURL)
}

func TestPlayerService_UpdateAndConflict(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := mustPlayer(t, e)

	mismatch, err := e.players.UpdatePlayer(ctx, p.ID, model.UpdatePlayerDTO{PlayerID: p.ID + 1}, coach)
	require.NoError(t, err)
	assert.Equal(t, []string{service.MsgIDMismatch}, mismatch.ErrorMessages)

	dto := model.UpdatePlayerDTO{PlayerID: p.ID, Name: "Jane Smith", DateOfBirth: p.DateOfBirth}
	res, err := e.players.UpdatePlayer(ctx, p.ID, dto, "coach-2")
	require.NoError(t, err)
	require.True(t, res.Success, "%+v", res)
	assert.Equal(t, int64(2), res.Data.Version)

	// a stale write from another session loses against the version check
	stale := p
	stale.Name = "Stale"
	_, err = e.store.Players().Update(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)

	missing, err := e.players.UpdatePlayer(ctx, 77, model.UpdatePlayerDTO{PlayerID: 77}, coach)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player with ID 77 could not be found."}, missing.ErrorMessages)
}

func TestPlayerService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for _, name := range []string{"Cara", "Abby", "Bea"} {
		res, err := e.players.CreatePlayer(ctx, model.CreatePlayerDTO{UserID: coach, Name: name, DateOfBirth: date(2011, 1, 1)}, coach)
		require.NoError(t, err)
		require.True(t, res.Success)
	}
	other, err := e.players.CreatePlayer(ctx, model.CreatePlayerDTO{UserID: "coach-2", Name: "Zed", DateOfBirth: date(2011, 1, 1)}, "coach-2")
	require.NoError(t, err)

	page, err := e.players.GetPlayersByUser(ctx, coach, repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Data.Total)
	require.Len(t, page.Data.Items, 2)
	assert.Equal(t, "Abby", page.Data.Items[0].Name)

	_, err = e.players.GetPlayersByUser(ctx, " ", repository.Page{})
	assert.ErrorIs(t, err, service.ErrInvalidArgument)

	a := mustAssignment(t, e, other.Data.ID, "Lions", date(2024, 1, 10))
	del, err := e.players.DeletePlayer(ctx, other.Data.ID)
	require.NoError(t, err)
	assert.True(t, del.Data)

	gone, err := e.assignments.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, gone.Success, "assignments go with their player")

	again, err := e.players.DeletePlayer(ctx, other.Data.ID)
	require.NoError(t, err)
	assert.False(t, again.Success)

	get, err := e.players.GetPlayer(ctx, other.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player with ID 4 could not be found."}, get.ErrorMessages)
}
