package service

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/validation"
	"github.com/rs/zerolog"
)

type playerService struct {
	players repository.PlayerRepository
	clock   clockwork.Clock
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, clock clockwork.Clock, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, clock: clock, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, dto model.CreatePlayerDTO, actorID string) (Result[model.Player], error) {
	if err := checkCall(ctx, &actorID); err != nil {
		return Result[model.Player]{}, err
	}
	start := time.Now()
	now := s.clock.Now().UTC()

	if v := validation.CreatePlayer(dto, now); !v.IsValid() {
		s.log.Debug().Interface("field_errors", v.Errors).Msg("player validation failed")
		return Invalid[model.Player](v.Errors), nil
	}

	p := model.Player{
		UserID:      strings.TrimSpace(dto.UserID),
		Name:        strings.TrimSpace(dto.Name),
		DateOfBirth: dto.DateOfBirth.UTC(),
		Gender:      canonicalGender(dto.Gender),
		PhotoURL:    trimmed(dto.PhotoURL),
		Audit:       model.Audit{CreatedAt: now, CreatedBy: actorID},
	}
	out, err := s.players.Add(ctx, p)
	if err != nil {
		return failure[model.Player](s.log, "creating the player", err)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return Ok(out), nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int64, dto model.UpdatePlayerDTO, actorID string) (Result[model.Player], error) {
	if err := checkCall(ctx, &actorID, id); err != nil {
		return Result[model.Player]{}, err
	}
	if dto.PlayerID != id {
		return Fail[model.Player](MsgIDMismatch), nil
	}

	existing, err := s.players.GetByID(ctx, id)
	if err != nil {
		return failure[model.Player](s.log, "updating the player", err)
	}
	if existing == nil {
		return Fail[model.Player](notFound("Player", id)), nil
	}

	now := s.clock.Now().UTC()
	if v := validation.UpdatePlayer(dto, now); !v.IsValid() {
		s.log.Debug().Int64("player_id", id).Interface("field_errors", v.Errors).Msg("player validation failed")
		return Invalid[model.Player](v.Errors), nil
	}

	p := *existing
	p.Name = strings.TrimSpace(dto.Name)
	p.DateOfBirth = dto.DateOfBirth.UTC()
	p.Gender = canonicalGender(dto.Gender)
	p.PhotoURL = trimmed(dto.PhotoURL)
	p.Touch(actorID, now)

	out, err := s.players.Update(ctx, p)
	if err != nil {
		return failure[model.Player](s.log, "updating the player", err)
	}
	s.log.Info().Int64("player_id", id).Int64("version", out.Version).Msg("player updated")
	return Ok(out), nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (Result[model.Player], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[model.Player]{}, err
	}
	p, err := s.players.GetByID(ctx, id)
	if err != nil {
		return failure[model.Player](s.log, "loading the player", err)
	}
	if p == nil {
		return Fail[model.Player](notFound("Player", id)), nil
	}
	return Ok(*p), nil
}

func (s *playerService) GetPlayersByUser(ctx context.Context, userID string, page repository.Page) (Result[repository.PageResult[model.Player]], error) {
	if err := checkCall(ctx, &userID); err != nil {
		return Result[repository.PageResult[model.Player]]{}, err
	}
	p := page.Normalize()
	res, err := s.players.ListByUser(ctx, strings.TrimSpace(userID), p)
	if err != nil {
		return failure[repository.PageResult[model.Player]](s.log, "listing players", err)
	}
	return Ok(res), nil
}

// DeletePlayer removes the player with every assignment and statistic it owns.
func (s *playerService) DeletePlayer(ctx context.Context, id int64) (Result[bool], error) {
	if err := checkCall(ctx, nil, id); err != nil {
		return Result[bool]{}, err
	}
	ok, err := s.players.Exists(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the player", err)
	}
	if !ok {
		return Fail[bool](notFound("Player", id)), nil
	}
	deleted, err := s.players.Delete(ctx, id)
	if err != nil {
		return failure[bool](s.log, "deleting the player", err)
	}
	if !deleted {
		return Fail[bool](unableToDelete("player", id)), nil
	}
	s.log.Info().Int64("player_id", id).Msg("player deleted")
	return Ok(true), nil
}

func canonicalGender(g *string) *string {
	if g == nil || strings.TrimSpace(*g) == "" {
		return nil
	}
	if c, ok := validation.CanonicalGender(*g); ok {
		return &c
	}
	return trimmed(g)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
