package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/validation"
	"github.com/rs/zerolog"
)

// MsgInvalidRange is reported when a date-range query has From after To.
const MsgInvalidRange = "The start date must not be after the end date."

type statisticService struct {
	stats       repository.StatisticRepository
	assignments repository.AssignmentRepository
	clock       clockwork.Clock
	log         zerolog.Logger
}

func NewStatisticService(
	stats repository.StatisticRepository,
	assignments repository.AssignmentRepository,
	clock clockwork.Clock,
	logger zerolog.Logger,
) StatisticService {
	l := logger.With().Str("module", "service").Str("component", "statistic").Logger()
	return &statisticService{stats: stats, assignments: assignments, clock: clock, log: l}
}

func (s *statisticService) AddStatistic(ctx context.Context, dto model.CreateStatisticDTO, actorID string) (Result[model.GameStatistic], error) {
	if err := checkCall(ctx, &actorID); err != nil {
		return Result[model.GameStatistic]{}, err
	}
	start := time.Now()
	now := s.clock.Now().UTC()

	if v := validation.CreateStatistic(dto, now); !v.IsValid() {
		s.log.Debug().Interface("field_errors", v.Errors).Msg("statistic validation failed")
		return Invalid[model.GameStatistic](v.Errors), nil
	}

	ok, err := s.assignments.Exists(ctx, dto.TeamPlayerID)
	if err != nil {
		return failure[model.GameStatistic](s.log, "adding the statistic", err)
	}
	if !ok {
		return Fail[model.GameStatistic](notFound("Team assignment", dto.TeamPlayerID)), nil
	}

	out, err := s.stats.Add(ctx, model.GameStatistic{
		AssignmentID:  dto.TeamPlayerID,
		GameDate:      dto.GameDate.UTC(),
		MinutesPlayed: dto.MinutesPlayed,
		Starter:       dto.Starter,
		JerseyNumber:  dto.JerseyNumber,
		Goals:         dto.Goals,
		Assists:       dto.Assists,
		Audit:         model.Audit{CreatedAt: now, CreatedBy: actorID},
	})
	if err != nil {
		return failure[model.GameStatistic](s.log, "adding the statistic", err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("statistic_id", out.ID).Int64("assignment_id", out.AssignmentID).Msg("statistic recorded")
	return Ok(out), nil
}

func (s *statisticService) UpdateStatistic(ctx context.Context, id int64, dto model.UpdateStatisticDTO, actorID string) (Result[model.GameStatistic], error) {
	if err := checkCall(ctx, &actorID, id); err != nil {
		return Result[model.GameStatistic]{}, err
	}
	if dto.PlayerStatisticID != id {
		return Fail[model.GameStatistic](MsgIDMismatch), nil
	}

	existing, err := s.stats.GetByID(ctx, id)
	if err != nil {
		return failure[model.GameStatistic](s.log, "updating the statistic", err)
	}
	if existing == nil {
		return Fail[model.GameStatistic](notFound("Statistic", id)), nil
	}
	if dto.TeamPlayerID != existing.AssignmentID && dto.TeamPlayerID > 0 {
		ok, err := s.assignments.Exists(ctx, dto.TeamPlayerID)
		if err != nil {
			return failure[model.GameStatistic](s.log, "updating the statistic", err)
		}
		if !ok {
			return Fail[model.GameStatistic](notFound("Team assignment", dto.TeamPlayerID)), nil
		}
	}

	now := s.clock.Now().UTC()
	if v := validation.UpdateStatistic(dto, now); !v.IsValid() {
		s.log.Debug().Int64("statistic_id", id).Interface("field_errors", v.Errors).Msg("statistic validation failed")
		return Invalid[model.GameStatistic](v.Errors), nil
	}

	st := *existing
	st.AssignmentID = dto.TeamPlayerID
	st.GameDate = dto.GameDate.UTC()
	st.MinutesPlayed = dto.MinutesPlayed
	st.Starter = dto.Starter
	st.JerseyNumber = dto.JerseyNumber
	st.Goals = dto.Goals
	st.Assists = dto.Assists
	st.Touch(actorID, now)

	out, err := s.stats.Update(ctx, st)
	if err != nil {
		return failure[model.GameStatistic](s.log, "updating the statistic", err)
	}
	s.log.Info().Int64("statistic_id", id).Int64("version", out.Version).Msg("statistic updated")
	return Ok(out), nil
}

// DeleteStatistic reports Data=false when the row vanished between the existence
// check and the delete; that race is benign but still surfaces as a failure message.
func (s *statisticService) DeleteStatistic(ctx context.Context, id int64) (Result[bool], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[bool]{}, err
	}
	ok, err := s.stats.Exists(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the statistic", err)
	}
	if !ok {
		return Fail[bool](notFound("Statistic", id)), nil
	}
	deleted, err := s.stats.Delete(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the statistic", err)
	}
	if !deleted {
		s.log.Warn().Int64("statistic_id", id).Msg("statistic vanished before delete")
		return Fail[bool](unableToDelete("statistic", id)), nil
	}
	s.log.Info().Int64("statistic_id", id).Msg("statistic deleted")
	return Ok(true), nil
}

// GetAggregates returns zero totals and averages for a player without statistics.
func (s *statisticService) GetAggregates(ctx context.Context, playerID int64, assignmentID *int64) (Result[model.AggregateResult], error) {
	ids := []int64{playerID}
	if assignmentID != nil {
		ids = append(ids, *assignmentID)
	}
	if err := checkCall(ctx, nil, ids...); err != nil {
		return Result[model.AggregateResult]{}, err
	}
	agg, err := s.stats.GetAggregates(ctx, playerID, assignmentID)
	if err != nil {
		return failure[model.AggregateResult](s.log, "calculating aggregates", err)
	}
	return Ok(agg), nil
}

func (s *statisticService) GetStatistic(ctx context.Context, id int64) (Result[model.GameStatistic], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[model.GameStatistic]{}, err
	}
	st, err := s.stats.GetByID(ctx, id)
	if err != nil {
		return failure[model.GameStatistic](s.log, "loading the statistic", err)
	}
	if st == nil {
		return Fail[model.GameStatistic](notFound("Statistic", id)), nil
	}
	return Ok(*st), nil
}

func (s *statisticService) GetStatisticsByAssignment(ctx context.Context, assignmentID int64) (Result[[]model.GameStatistic], error) {
	if err := checkCall(ctx, nil, assignmentID); err != nil {
		return Result[[]model.GameStatistic]{}, err
	}
	list, err := s.stats.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return failure[[]model.GameStatistic](s.log, "loading statistics", err)
	}
	return Ok(list), nil
}

func (s *statisticService) GetStatisticsByPlayer(ctx context.Context, playerID int64, r model.DateRange) (Result[[]model.GameStatistic], error) {
	if err := checkCall(ctx, nil, playerID); err != nil {
		return Result[[]model.GameStatistic]{}, err
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return Invalid[[]model.GameStatistic](map[string][]string{validation.FieldGameDate: {MsgInvalidRange}}), nil
	}
	list, err := s.stats.ListByPlayer(ctx, playerID, r)
	if err != nil {
		return failure[[]model.GameStatistic](s.log, "loading statistics", err)
	}
	return Ok(list), nil
}
