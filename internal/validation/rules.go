package validation

import (
	"strings"
	"time"

	"github.com/maxviazov/roster-stats-service/internal/model"
)

// CreatePlayer validates a new player.
func CreatePlayer(dto model.CreatePlayerDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	if strings.TrimSpace(dto.UserID) == "" {
		r.Add(FieldUserID, "User ID is required.")
	}
	checkRequiredText(&r, FieldName, "Name", dto.Name)
	checkDateOfBirth(&r, dto.DateOfBirth, now)
	checkOptionalGender(&r, dto.Gender)
	checkOptionalPhotoURL(&r, dto.PhotoURL)
	return r
}

// UpdatePlayer validates an edit of an existing player.
func UpdatePlayer(dto model.UpdatePlayerDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	checkPositiveID(&r, FieldPlayerID, "Player ID", dto.PlayerID)
	checkRequiredText(&r, FieldName, "Name", dto.Name)
	checkDateOfBirth(&r, dto.DateOfBirth, now)
	checkOptionalGender(&r, dto.Gender)
	checkOptionalPhotoURL(&r, dto.PhotoURL)
	return r
}

// CreateAssignment validates adding a player to a team.
func CreateAssignment(dto model.CreateAssignmentDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	checkPositiveID(&r, FieldPlayerID, "Player ID", dto.PlayerID)
	checkRequiredText(&r, FieldTeamName, "Team name", dto.TeamName)
	checkRequiredText(&r, FieldChampionshipName, "Championship name", dto.ChampionshipName)
	checkJoinedDate(&r, dto.JoinedDate, now)
	return r
}

// UpdateAssignment validates an assignment edit, including left-after-joined
// evaluated against the dto's own joined date.
func UpdateAssignment(dto model.UpdateAssignmentDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	checkPositiveID(&r, FieldTeamPlayerID, "Team assignment ID", dto.TeamPlayerID)
	checkRequiredText(&r, FieldTeamName, "Team name", dto.TeamName)
	checkRequiredText(&r, FieldChampionshipName, "Championship name", dto.ChampionshipName)
	checkJoinedDate(&r, dto.JoinedDate, now)
	checkLeftDate(&r, dto.LeftDate, dto.JoinedDate, now)
	return r
}

// CreateStatistic validates a new game record.
func CreateStatistic(dto model.CreateStatisticDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	checkPositiveID(&r, FieldTeamPlayerID, "Team assignment ID", dto.TeamPlayerID)
	checkStatNumbers(&r, dto.GameDate, dto.MinutesPlayed, dto.JerseyNumber, dto.Goals, dto.Assists, now)
	return r
}

// UpdateStatistic validates an edit of a game record.
func UpdateStatistic(dto model.UpdateStatisticDTO, now time.Time) Result {
	now = now.UTC()
	var r Result
	checkPositiveID(&r, FieldPlayerStatisticID, "Statistic ID", dto.PlayerStatisticID)
	checkPositiveID(&r, FieldTeamPlayerID, "Team assignment ID", dto.TeamPlayerID)
	checkStatNumbers(&r, dto.GameDate, dto.MinutesPlayed, dto.JerseyNumber, dto.Goals, dto.Assists, now)
	return r
}
