package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

const (
	maxFouls        = 6
	maxMinutesFloat = 48.0
)

type statsService struct {
	stats     repository.StatsRepository
	teamStats repository.TeamStatsRepository
	players   repository.PlayerRepository
	games     repository.GameRepository
	tx        repository.TxManager
	log       zerolog.Logger
}

func NewStatsService(stats repository.StatsRepository, teamStats repository.TeamStatsRepository, players repository.PlayerRepository, games repository.GameRepository, tx repository.TxManager, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, teamStats: teamStats, players: players, games: games, tx: tx, log: l}
}

func (s *statsService) UpsertStatLine(ctx context.Context, line model.PlayerStatLine) (model.PlayerStatLine, error) {
	var ferrs []FieldError
	if line.PlayerID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must be > 0"})
	}
	if line.GameID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "game_id", Message: "must be > 0"})
	}
	if line.Points < 0 {
		ferrs = append(ferrs, FieldError{Field: "points", Message: "must be >= 0"})
	}
	if line.Rebounds < 0 {
		ferrs = append(ferrs, FieldError{Field: "rebounds", Message: "must be >= 0"})
	}
	if line.Assists < 0 {
		ferrs = append(ferrs, FieldError{Field: "assists", Message: "must be >= 0"})
	}
	if line.Steals < 0 {
		ferrs = append(ferrs, FieldError{Field: "steals", Message: "must be >= 0"})
	}
	if line.Blocks < 0 {
		ferrs = append(ferrs, FieldError{Field: "blocks", Message: "must be >= 0"})
	}
	if line.Fouls < 0 || line.Fouls > maxFouls {
		ferrs = append(ferrs, FieldError{Field: "fouls", Message: "must be between 0 and 6"})
	}
	if line.Turnovers < 0 {
		ferrs = append(ferrs, FieldError{Field: "turnovers", Message: "must be >= 0"})
	}
	if line.MinutesPlayed < 0 || line.MinutesPlayed > maxMinutesFloat {
		ferrs = append(ferrs, FieldError{Field: "minutes_played", Message: "must be between 0 and 48.0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.PlayerStatLine{}, err
	}

	var existenceErrs []FieldError
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.players.GetByID(ctx, line.PlayerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				existenceErrs = append(existenceErrs, FieldError{Field: "player_id", Message: "player does not exist"})
				return nil // continue checks
			}
			return err
		}
		if _, err := s.games.GetByID(ctx, line.GameID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				existenceErrs = append(existenceErrs, FieldError{Field: "game_id", Message: "game does not exist"})
				return nil
			}
			return err
		}
		return nil
	}); err != nil {
		return model.PlayerStatLine{}, err
	}
	if err := NewInvalidInputError(existenceErrs); err != nil {
		return model.PlayerStatLine{}, err
	}

	return s.stats.UpsertStatLine(ctx, line)
}

func (s *statsService) UpsertTeamStatLine(ctx context.Context, line model.TeamStatLine) (model.TeamStatLine, error) {
	var ferrs []FieldError
	if line.GameID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "game_id", Message: "must be > 0"})
	}
	if line.Points < 0 {
		ferrs = append(ferrs, FieldError{Field: "points", Message: "must be >= 0"})
	}
	if line.OpponentPoints < 0 {
		ferrs = append(ferrs, FieldError{Field: "opponent_points", Message: "must be >= 0"})
	}
	if line.Rebounds < 0 {
		ferrs = append(ferrs, FieldError{Field: "rebounds", Message: "must be >= 0"})
	}
	if line.Assists < 0 {
		ferrs = append(ferrs, FieldError{Field: "assists", Message: "must be >= 0"})
	}
	if line.Turnovers < 0 {
		ferrs = append(ferrs, FieldError{Field: "turnovers", Message: "must be >= 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.TeamStatLine{}, err
	}

	if _, err := s.games.GetByID(ctx, line.GameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.TeamStatLine{}, NewInvalidInputError([]FieldError{{Field: "game_id", Message: "game does not exist"}})
		}
		return model.TeamStatLine{}, err
	}

	return s.teamStats.UpsertTeamStatLine(ctx, line)
}

func (s *statsService) ListStatsByGame(ctx context.Context, gameID int64) ([]model.PlayerStatLine, error) {
	if gameID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "game_id", Message: "must be > 0"}})
	}
	return s.stats.ListByGame(ctx, gameID)
}

// GetGameFullStats bundles the game with its team line and player lines. A
// missing team line is not an error; it comes back nil.
func (s *statsService) GetGameFullStats(ctx context.Context, gameID int64) (model.GameFullStats, error) {
	if gameID <= 0 {
		return model.GameFullStats{}, NewInvalidInputError([]FieldError{{Field: "game_id", Message: "must be > 0"}})
	}

	var out model.GameFullStats
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		game, err := s.games.GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		out.Game = game

		team, err := s.teamStats.GetByGame(ctx, gameID)
		switch {
		case err == nil:
			out.TeamStats = &team
		case errors.Is(err, repository.ErrNotFound):
			// no team line recorded yet
		default:
			return err
		}

		lines, err := s.stats.ListByGame(ctx, gameID)
		if err != nil {
			return err
		}
		out.PlayerStats = lines
		return nil
	}); err != nil {
		return model.GameFullStats{}, err
	}
	if out.PlayerStats == nil {
		out.PlayerStats = []model.PlayerStatLine{}
	}
	return out, nil
}

var _ StatsService = (*statsService)(nil)
