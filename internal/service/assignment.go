package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/validation"
	"github.com/rs/zerolog"
)

// assignmentService owns the Active -> Inactive lifecycle of team memberships.
// The duplicate check and the write share one transaction; the store's own uniqueness
// guard catches the race that remains between two concurrent transactions.
type assignmentService struct {
	tx          repository.TxManager
	players     repository.PlayerRepository
	assignments repository.AssignmentRepository
	clock       clockwork.Clock
	log         zerolog.Logger
}

func NewAssignmentService(
	tx repository.TxManager,
	players repository.PlayerRepository,
	assignments repository.AssignmentRepository,
	clock clockwork.Clock,
	logger zerolog.Logger,
) AssignmentService {
	l := logger.With().Str("module", "service").Str("component", "assignment").Logger()
	return &assignmentService{tx: tx, players: players, assignments: assignments, clock: clock, log: l}
}

func duplicateAssignment[T any]() Result[T] {
	return Invalid[T](map[string][]string{validation.FieldDuplicateAssignment: {MsgDuplicateAssignment}})
}

func (s *assignmentService) AddPlayerToTeam(ctx context.Context, dto model.CreateAssignmentDTO, actorID string) (Result[model.TeamAssignment], error) {
	if err := checkCall(ctx, &actorID); err != nil {
		return Result[model.TeamAssignment]{}, err
	}
	start := time.Now()
	now := s.clock.Now().UTC()

	if v := validation.CreateAssignment(dto, now); !v.IsValid() {
		s.log.Debug().Interface("field_errors", v.Errors).Msg("assignment validation failed")
		return Invalid[model.TeamAssignment](v.Errors), nil
	}

	a := model.TeamAssignment{
		PlayerID:         dto.PlayerID,
		TeamName:         strings.TrimSpace(dto.TeamName),
		ChampionshipName: strings.TrimSpace(dto.ChampionshipName),
		JoinedDate:       dto.JoinedDate.UTC(),
		Audit:            model.Audit{CreatedAt: now, CreatedBy: actorID},
	}

	var res Result[model.TeamAssignment]
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.players.Exists(ctx, a.PlayerID)
		if err != nil {
			return err
		}
		if !ok {
			res = Fail[model.TeamAssignment](notFound("Player", a.PlayerID))
			return nil
		}
		dup, err := s.assignments.HasActiveDuplicate(ctx, a.PlayerID, a.TeamName, a.ChampionshipName, nil)
		if err != nil {
			return err
		}
		if dup {
			res = duplicateAssignment[model.TeamAssignment]()
			return nil
		}
		out, err := s.assignments.Add(ctx, a)
		if err != nil {
			return err
		}
		res = Ok(out)
		return nil
	})
	if err != nil {
		return failure[model.TeamAssignment](s.log, "adding the player to the team", err)
	}
	if res.Success {
		s.log.Info().Dur("took", time.Since(start)).Int64("assignment_id", res.Data.ID).Int64("player_id", a.PlayerID).Msg("player added to team")
	}
	return res, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, id int64, dto model.UpdateAssignmentDTO, actorID string) (Result[model.TeamAssignment], error) {
	if err := checkCall(ctx, &actorID, id); err != nil {
		return Result[model.TeamAssignment]{}, err
	}
	if dto.TeamPlayerID != id {
		return Fail[model.TeamAssignment](MsgIDMismatch), nil
	}
	now := s.clock.Now().UTC()

	var res Result[model.TeamAssignment]
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.assignments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			res = Fail[model.TeamAssignment](notFound("Team assignment", id))
			return nil
		}

		v := validation.UpdateAssignment(dto, now)
		if !existing.IsActive() && dto.LeftDate == nil {
			v.Add(validation.FieldLeftDate, MsgNoReactivation)
		}
		if !v.IsValid() {
			s.log.Debug().Int64("assignment_id", id).Interface("field_errors", v.Errors).Msg("assignment validation failed")
			res = Invalid[model.TeamAssignment](v.Errors)
			return nil
		}

		a := *existing
		a.TeamName = strings.TrimSpace(dto.TeamName)
		a.ChampionshipName = strings.TrimSpace(dto.ChampionshipName)
		a.JoinedDate = dto.JoinedDate.UTC()
		a.LeftDate = nil
		if dto.LeftDate != nil {
			ld := dto.LeftDate.UTC()
			a.LeftDate = &ld
		}
		a.Touch(actorID, now)

		if a.IsActive() {
			dup, err := s.assignments.HasActiveDuplicate(ctx, a.PlayerID, a.TeamName, a.ChampionshipName, &a.ID)
			if err != nil {
				return err
			}
			if dup {
				res = duplicateAssignment[model.TeamAssignment]()
				return nil
			}
		}

		out, err := s.assignments.Update(ctx, a)
		if err != nil {
			return err
		}
		res = Ok(out)
		return nil
	})
	if err != nil {
		return failure[model.TeamAssignment](s.log, "updating the team assignment", err)
	}
	if res.Success {
		s.log.Info().Int64("assignment_id", id).Bool("active", res.Data.IsActive()).Msg("assignment updated")
	}
	return res, nil
}

// RemovePlayerFromTeam is the soft removal path: it records the left date and keeps the row.
func (s *assignmentService) RemovePlayerFromTeam(ctx context.Context, id int64, leftDate time.Time, actorID string) (Result[model.TeamAssignment], error) {
	if err := checkCall(ctx, &actorID, id); err != nil {
		return Result[model.TeamAssignment]{}, err
	}
	now := s.clock.Now().UTC()

	var res Result[model.TeamAssignment]
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.assignments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			res = Fail[model.TeamAssignment](notFound("Team assignment", id))
			return nil
		}

		a := *existing
		if err := a.Leave(leftDate, actorID, now); err != nil {
			if errors.Is(err, model.ErrAssignmentInactive) {
				res = Invalid[model.TeamAssignment](map[string][]string{validation.FieldLeftDate: {MsgAlreadyInactive}})
				return nil
			}
			return err
		}

		v := validation.UpdateAssignment(model.UpdateAssignmentDTO{
			TeamPlayerID:     a.ID,
			TeamName:         a.TeamName,
			ChampionshipName: a.ChampionshipName,
			JoinedDate:       a.JoinedDate,
			LeftDate:         a.LeftDate,
		}, now)
		if !v.IsValid() {
			s.log.Debug().Int64("assignment_id", id).Interface("field_errors", v.Errors).Msg("leave validation failed")
			res = Invalid[model.TeamAssignment](v.Errors)
			return nil
		}

		out, err := s.assignments.Update(ctx, a)
		if err != nil {
			return err
		}
		res = Ok(out)
		return nil
	})
	if err != nil {
		return failure[model.TeamAssignment](s.log, "removing the player from the team", err)
	}
	if res.Success {
		s.log.Info().Int64("assignment_id", id).Time("left_date", *res.Data.LeftDate).Msg("player removed from team")
	}
	return res, nil
}

func (s *assignmentService) GetTeamsByPlayer(ctx context.Context, playerID int64, includeInactive bool) (Result[[]model.TeamAssignment], error) {
	if err := checkCall(ctx, nil, playerID); err != nil {
		return Result[[]model.TeamAssignment]{}, err
	}
	list, err := s.assignments.ListByPlayer(ctx, playerID, includeInactive)
	if err != nil {
		return failure[[]model.TeamAssignment](s.log, "loading the player's teams", err)
	}
	return Ok(list), nil
}

func (s *assignmentService) GetActiveTeamsByPlayer(ctx context.Context, playerID int64) (Result[[]model.TeamAssignment], error) {
	return s.GetTeamsByPlayer(ctx, playerID, false)
}

func (s *assignmentService) GetAssignment(ctx context.Context, id int64) (Result[model.TeamAssignment], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[model.TeamAssignment]{}, err
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return failure[model.TeamAssignment](s.log, "loading the team assignment", err)
	}
	if a == nil {
		return Fail[model.TeamAssignment](notFound("Team assignment", id)), nil
	}
	return Ok(*a), nil
}

// DeleteAssignment is administrative removal; statistics recorded against it go with it.
func (s *assignmentService) DeleteAssignment(ctx context.Context, id int64) (Result[bool], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[bool]{}, err
	}
	ok, err := s.assignments.Exists(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the team assignment", err)
	}
	if !ok {
		return Fail[bool](notFound("Team assignment", id)), nil
	}
	deleted, err := s.assignments.Delete(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the team assignment", err)
	}
	if !deleted {
		return Fail[bool](unableToDelete("team assignment", id)), nil
	}
	s.log.Info().Int64("assignment_id", id).Msg("assignment deleted")
	return Ok(true), nil
}
