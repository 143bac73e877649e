// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, name string) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayers(ctx context.Context, f repository.PlayerListFilter, page repository.Page) (repository.PageResult[model.Player], error)
	ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error)
}

// GameService defines game-oriented use cases.
type GameService interface {
	CreateGame(ctx context.Context, g model.Game) (model.Game, error)
	GetGame(ctx context.Context, id int64) (model.Game, error)
	ListGames(ctx context.Context, f repository.GameListFilter, page repository.Page) (repository.PageResult[model.Game], error)
}

// StatsService defines stat line use cases: per-player lines, the team line
// and the combined per-game view.
type StatsService interface {
	UpsertStatLine(ctx context.Context, line model.PlayerStatLine) (model.PlayerStatLine, error)
	UpsertTeamStatLine(ctx context.Context, line model.TeamStatLine) (model.TeamStatLine, error)
	ListStatsByGame(ctx context.Context, gameID int64) ([]model.PlayerStatLine, error)
	GetGameFullStats(ctx context.Context, gameID int64) (model.GameFullStats, error)
}

// StatsQueryRequest is one parsed statistics query as it arrives from the API
// layer: raw filter parameters plus the reserved controls.
type StatsQueryRequest struct {
	Entity     string
	Filters    map[string]string
	Aggregates []string
	GroupBy    string
	Sort       string
	Project    []string
	Limit      int
}

// StatsQueryResult is the ordered response of one statistics query.
type StatsQueryResult struct {
	Entity  string              `json:"entity"`
	GroupBy string              `json:"group_by,omitempty"`
	Groups  []query.GroupResult `json:"groups"`
}

// StatsQueryService runs ad-hoc filter/aggregate queries against stat lines.
type StatsQueryService interface {
	Query(ctx context.Context, req StatsQueryRequest) (StatsQueryResult, error)
}

// QueryMetrics records per-query observability signals. The metrics package
// provides the Prometheus implementation; tests use a noop.
type QueryMetrics interface {
	ObserveQuery(entity string, status string, took time.Duration)
}
