package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

type gameService struct {
	games repository.GameRepository
	teams repository.TeamRepository
	log   zerolog.Logger
}

func NewGameService(games repository.GameRepository, teams repository.TeamRepository, logger zerolog.Logger) GameService {
	l := logger.With().Str("module", "service").Str("component", "game").Logger()
	return &gameService{games: games, teams: teams, log: l}
}

func (s *gameService) CreateGame(ctx context.Context, g model.Game) (model.Game, error) {
	start := time.Now()
	g.Season = strings.TrimSpace(g.Season)
	g.Opponent = strings.TrimSpace(g.Opponent)
	g.HomeAway = strings.ToLower(strings.TrimSpace(g.HomeAway))
	g.Status = strings.ToLower(strings.TrimSpace(g.Status))
	if g.Status == "" {
		g.Status = "scheduled"
	}

	var ferrs []FieldError
	if g.TeamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if !isValidSeason(g.Season) {
		ferrs = append(ferrs, FieldError{Field: "season", Message: "must be in YYYY-YY format"})
	}
	if g.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be a valid date"})
	} else if isValidSeason(g.Season) && !seasonContains(g.Season, g.Date) {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must fall within the season"})
	}
	if g.Opponent == "" {
		ferrs = append(ferrs, FieldError{Field: "opponent", Message: "must not be empty"})
	}
	if !isValidHomeAway(g.HomeAway) {
		ferrs = append(ferrs, FieldError{Field: "home_away", Message: "must be home or away"})
	}
	if !isValidGameStatus(g.Status) {
		ferrs = append(ferrs, FieldError{Field: "status", Message: "must be one of scheduled, in_progress, finished"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("game validation failed")
		return model.Game{}, err
	}

	if ok, err := s.teams.Exists(ctx, g.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Game{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
		}
		return model.Game{}, err
	} else if !ok {
		return model.Game{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
	}

	out, err := s.games.Create(ctx, g)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", g.TeamID).Str("season", g.Season).Msg("create game failed")
		return model.Game{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("game_id", out.ID).Msg("game created")
	return out, nil
}

func (s *gameService) GetGame(ctx context.Context, id int64) (model.Game, error) {
	if id <= 0 {
		return model.Game{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.games.GetByID(ctx, id)
}

func (s *gameService) ListGames(ctx context.Context, f repository.GameListFilter, page repository.Page) (repository.PageResult[model.Game], error) {
	var ferrs []FieldError
	if f.Season != "" && !isValidSeason(f.Season) {
		ferrs = append(ferrs, FieldError{Field: "season", Message: "must be in YYYY-YY format"})
	}
	if f.HomeAway != "" && !isValidHomeAway(f.HomeAway) {
		ferrs = append(ferrs, FieldError{Field: "home_away", Message: "must be home or away"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return repository.PageResult[model.Game]{}, err
	}

	p := normalizePage(page)
	res, err := s.games.List(ctx, f, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list games failed")
		return repository.PageResult[model.Game]{}, err
	}
	return res, nil
}

var _ GameService = (*gameService)(nil)
