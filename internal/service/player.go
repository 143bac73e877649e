package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
)

const (
	minHeightCm = 100
	maxHeightCm = 260
	minWeightKg = 40
	maxWeightKg = 200
)

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	start := time.Now()
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Position = query.NormalizePosition(p.Position)

	var ferrs []FieldError
	if p.TeamID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	if p.FirstName == "" {
		ferrs = append(ferrs, FieldError{Field: "first_name", Message: "must not be empty"})
	}
	if p.LastName == "" {
		ferrs = append(ferrs, FieldError{Field: "last_name", Message: "must not be empty"})
	}
	if !query.IsValidPosition(p.Position) {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of PG, SG, SF, PF, C"})
	}
	if p.JerseyNumber < 0 || p.JerseyNumber > 99 {
		ferrs = append(ferrs, FieldError{Field: "jersey_number", Message: "must be between 0 and 99"})
	}
	if p.HeightCm < minHeightCm || p.HeightCm > maxHeightCm {
		ferrs = append(ferrs, FieldError{Field: "height_cm", Message: "must be between 100 and 260"})
	}
	if p.WeightKg < minWeightKg || p.WeightKg > maxWeightKg {
		ferrs = append(ferrs, FieldError{Field: "weight_kg", Message: "must be between 40 and 200"})
	}
	if p.BirthDate.IsZero() || !p.BirthDate.Before(time.Now()) {
		ferrs = append(ferrs, FieldError{Field: "birth_date", Message: "must be a date in the past"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	if ok, err := s.teams.Exists(ctx, p.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Player{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
		}
		return model.Player{}, err
	} else if !ok {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
	}

	out, err := s.players.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", p.TeamID).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.players.GetByID(ctx, id)
}

// playerSortFields is the whitelist accepted on the listing endpoint. The
// repository maps the names onto actual columns.
var playerSortFields = map[string]struct{}{
	"last_name":     {},
	"jersey_number": {},
	"height":        {},
}

func (s *playerService) ListPlayers(ctx context.Context, f repository.PlayerListFilter, page repository.Page) (repository.PageResult[model.Player], error) {
	var ferrs []FieldError
	if f.Position != "" {
		f.Position = query.NormalizePosition(f.Position)
		if !query.IsValidPosition(f.Position) {
			ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of PG, SG, SF, PF, C"})
		}
	}
	if f.HeightMin < 0 {
		ferrs = append(ferrs, FieldError{Field: "height_min", Message: "must be >= 0"})
	}
	if f.HeightMax < 0 {
		ferrs = append(ferrs, FieldError{Field: "height_max", Message: "must be >= 0"})
	}
	if f.HeightMin > 0 && f.HeightMax > 0 && f.HeightMin > f.HeightMax {
		ferrs = append(ferrs, FieldError{Field: "height_min", Message: "must not exceed height_max"})
	}
	if f.SortBy != "" {
		if _, ok := playerSortFields[f.SortBy]; !ok {
			ferrs = append(ferrs, FieldError{Field: "sort", Message: "must be one of last_name, jersey_number, height"})
		}
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return repository.PageResult[model.Player]{}, err
	}

	p := normalizePage(page)
	res, err := s.players.List(ctx, f, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error) {
	if teamID <= 0 {
		return repository.PageResult[model.Player]{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "must be > 0"}})
	}
	return s.players.ListByTeam(ctx, teamID, normalizePage(page))
}

var _ PlayerService = (*playerService)(nil)
