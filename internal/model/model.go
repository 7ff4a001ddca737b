// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior is the
// assignment Active -> Inactive transition.
package model

import (
	"errors"
	"time"
)

// Audit holds who touched a record and when. UpdatedAt/UpdatedBy stay nil until the first edit.
type Audit struct {
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy string     `json:"created_by"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	UpdatedBy *string    `json:"updated_by,omitempty"`
}

// Touch stamps the record as modified by actor at the given moment.
func (a *Audit) Touch(actor string, at time.Time) {
	a.UpdatedAt = &at
	a.UpdatedBy = &actor
}

// Player is a tracked athlete owned by a user account.
type Player struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      *string   `json:"gender,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Version     int64     `json:"version"`
	Audit
}

// TeamAssignment is one player's membership on one team within one championship
// for a single continuous interval. A nil LeftDate means the membership is active.
type TeamAssignment struct {
	ID               int64      `json:"id"`
	PlayerID         int64      `json:"player_id"`
	TeamName         string     `json:"team_name"`
	ChampionshipName string     `json:"championship_name"`
	JoinedDate       time.Time  `json:"joined_date"`
	LeftDate         *time.Time `json:"left_date,omitempty"`
	Version          int64      `json:"version"`
	Audit
}

// ErrAssignmentInactive is returned when a transition is attempted on an assignment that already left.
var ErrAssignmentInactive = errors.New("assignment is already inactive")

// IsActive reports whether the player is still on the team.
func (a TeamAssignment) IsActive() bool { return a.LeftDate == nil }

// Leave moves the assignment from Active to Inactive. The transition is one-way:
// a re-join is a new assignment, never a reactivation of this one.
func (a *TeamAssignment) Leave(leftDate time.Time, actor string, at time.Time) error {
	if !a.IsActive() {
		return ErrAssignmentInactive
	}
	ld := leftDate.UTC()
	a.LeftDate = &ld
	a.Touch(actor, at)
	return nil
}

// GameStatistic is a per-game performance record scoped to an assignment,
// so historical numbers stay with the team/season they were earned in.
type GameStatistic struct {
	ID            int64     `json:"id"`
	AssignmentID  int64     `json:"team_player_id"`
	GameDate      time.Time `json:"game_date"`
	MinutesPlayed int       `json:"minutes_played"`
	Starter       bool      `json:"starter"`
	JerseyNumber  int       `json:"jersey_number"`
	Goals         int       `json:"goals"`
	Assists       int       `json:"assists"`
	Version       int64     `json:"version"`
	Audit
}

// AggregateResult holds calculated totals and averages for a player's statistics,
// optionally narrowed to one assignment. It is a read-only projection and never persisted.
type AggregateResult struct {
	GameCount      int     `json:"game_count"`
	TotalGoals     int     `json:"total_goals"`
	TotalAssists   int     `json:"total_assists"`
	TotalMinutes   int     `json:"total_minutes"`
	AverageGoals   float64 `json:"average_goals"`
	AverageAssists float64 `json:"average_assists"`
	AverageMinutes float64 `json:"average_minutes"`
}

// NewAggregateResult derives averages from raw totals. Averages are exactly 0 when
// there are no games, so callers never see NaN.
func NewAggregateResult(games, goals, assists, minutes int) AggregateResult {
	res := AggregateResult{
		GameCount:    games,
		TotalGoals:   goals,
		TotalAssists: assists,
		TotalMinutes: minutes,
	}
	if games > 0 {
		n := float64(games)
		res.AverageGoals = float64(goals) / n
		res.AverageAssists = float64(assists) / n
		res.AverageMinutes = float64(minutes) / n
	}
	return res
}

// DateRange bounds a game-date query. Zero values leave that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// CreatePlayerDTO is the input for registering a player.
type CreatePlayerDTO struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      *string   `json:"gender,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
}

// UpdatePlayerDTO is the input for editing a player; PlayerID must match the target id.
type UpdatePlayerDTO struct {
	PlayerID    int64     `json:"player_id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      *string   `json:"gender,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
}

// CreateAssignmentDTO is the input for adding a player to a team.
type CreateAssignmentDTO struct {
	PlayerID         int64     `json:"player_id"`
	TeamName         string    `json:"team_name"`
	ChampionshipName string    `json:"championship_name"`
	JoinedDate       time.Time `json:"joined_date"`
}

// UpdateAssignmentDTO is the input for editing an assignment; TeamPlayerID must match the target id.
type UpdateAssignmentDTO struct {
	TeamPlayerID     int64      `json:"team_player_id"`
	TeamName         string     `json:"team_name"`
	ChampionshipName string     `json:"championship_name"`
	JoinedDate       time.Time  `json:"joined_date"`
	LeftDate         *time.Time `json:"left_date,omitempty"`
}

// CreateStatisticDTO is the input for recording one game.
type CreateStatisticDTO struct {
	TeamPlayerID  int64     `json:"team_player_id"`
	GameDate      time.Time `json:"game_date"`
	MinutesPlayed int       `json:"minutes_played"`
	Starter       bool      `json:"starter"`
	JerseyNumber  int       `json:"jersey_number"`
	Goals         int       `json:"goals"`
	Assists       int       `json:"assists"`
}

// UpdateStatisticDTO is the input for editing a game record; PlayerStatisticID must match the target id.
type UpdateStatisticDTO struct {
	PlayerStatisticID int64     `json:"player_statistic_id"`
	TeamPlayerID      int64     `json:"team_player_id"`
	GameDate          time.Time `json:"game_date"`
	MinutesPlayed     int       `json:"minutes_played"`
	Starter           bool      `json:"starter"`
	JerseyNumber      int       `json:"jersey_number"`
	Goals             int       `json:"goals"`
	Assists           int       `json:"assists"`
}
