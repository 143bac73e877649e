package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
)

type fakeStatsRepo struct{}

func (f *fakeStatsRepo) UpsertStatLine(_ context.Context, s model.PlayerStatLine) (model.PlayerStatLine, error) {
	s.ID = 1
	return s, nil
}
func (f *fakeStatsRepo) ListByGame(context.Context, int64) ([]model.PlayerStatLine, error) {
	return []model.PlayerStatLine{}, nil
}

var _ repository.StatsRepository = (*fakeStatsRepo)(nil)

type fakeTeamStatsRepo struct{ existing map[int64]model.TeamStatLine }

func (f *fakeTeamStatsRepo) UpsertTeamStatLine(_ context.Context, s model.TeamStatLine) (model.TeamStatLine, error) {
	s.ID = 1
	return s, nil
}
func (f *fakeTeamStatsRepo) GetByGame(_ context.Context, gameID int64) (model.TeamStatLine, error) {
	if line, ok := f.existing[gameID]; ok {
		return line, nil
	}
	return model.TeamStatLine{}, repository.ErrNotFound
}

var _ repository.TeamStatsRepository = (*fakeTeamStatsRepo)(nil)

type fakePlayerLookup struct{ ok map[int64]bool }

func (f *fakePlayerLookup) Create(_ context.Context, p model.Player) (model.Player, error) {
	p.ID = 1
	return p, nil
}
func (f *fakePlayerLookup) GetByID(_ context.Context, id int64) (model.Player, error) {
	if f.ok[id] {
		return model.Player{ID: id}, nil
	}
	return model.Player{}, repository.ErrNotFound
}
func (f *fakePlayerLookup) List(context.Context, repository.PlayerListFilter, repository.Page) (repository.PageResult[model.Player], error) {
	return repository.PageResult[model.Player]{}, nil
}
func (f *fakePlayerLookup) ListByTeam(context.Context, int64, repository.Page) (repository.PageResult[model.Player], error) {
	return repository.PageResult[model.Player]{}, nil
}
func (f *fakePlayerLookup) Exists(_ context.Context, id int64) (bool, error) { return f.ok[id], nil }

var _ repository.PlayerRepository = (*fakePlayerLookup)(nil)

type fakeGameLookup struct{ ok map[int64]bool }

func (f *fakeGameLookup) Create(context.Context, model.Game) (model.Game, error) {
	return model.Game{}, nil
}
func (f *fakeGameLookup) GetByID(_ context.Context, id int64) (model.Game, error) {
	if f.ok[id] {
		return model.Game{ID: id}, nil
	}
	return model.Game{}, repository.ErrNotFound
}
func (f *fakeGameLookup) List(context.Context, repository.GameListFilter, repository.Page) (repository.PageResult[model.Game], error) {
	return repository.PageResult[model.Game]{}, nil
}

var _ repository.GameRepository = (*fakeGameLookup)(nil)

type fakeTx struct{}

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error { return fn(ctx) }

var _ repository.TxManager = (*fakeTx)(nil)

func newStatsSvc() service.StatsService {
	return service.NewStatsService(
		&fakeStatsRepo{},
		&fakeTeamStatsRepo{existing: map[int64]model.TeamStatLine{3: {ID: 7, GameID: 3, Points: 80}}},
		&fakePlayerLookup{ok: map[int64]bool{2: true}},
		&fakeGameLookup{ok: map[int64]bool{3: true}},
		&fakeTx{},
		zerolog.New(io.Discard),
	)
}

func hasFieldError(err error, field string) bool {
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestStatsService_UpsertStatLine_Validation(t *testing.T) {
	svc := newStatsSvc()

	cases := []struct {
		name    string
		line    model.PlayerStatLine
		wantErr bool
		field   string
	}{
		{"bad ids", model.PlayerStatLine{PlayerID: 0, GameID: 0}, true, "player_id"},
		{"negative stat", model.PlayerStatLine{PlayerID: 2, GameID: 3, Points: -1}, true, "points"},
		{"fouls over limit", model.PlayerStatLine{PlayerID: 2, GameID: 3, Fouls: 7}, true, "fouls"},
		{"minutes over limit", model.PlayerStatLine{PlayerID: 2, GameID: 3, MinutesPlayed: 48.5}, true, "minutes_played"},
		{"player missing", model.PlayerStatLine{PlayerID: 9, GameID: 3}, true, "player_id"},
		{"game missing", model.PlayerStatLine{PlayerID: 2, GameID: 99}, true, "game_id"},
		{"ok", model.PlayerStatLine{PlayerID: 2, GameID: 3, Points: 10, MinutesPlayed: 31.5}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpsertStatLine(context.Background(), tc.line)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Fatalf("want invalid input err, got %v", err)
				}
				if tc.field != "" && !hasFieldError(err, tc.field) {
					t.Fatalf("missing field error %s", tc.field)
				}
			}
		})
	}
}

func TestStatsService_UpsertTeamStatLine(t *testing.T) {
	svc := newStatsSvc()

	_, err := svc.UpsertTeamStatLine(context.Background(), model.TeamStatLine{GameID: 3, Points: -1})
	if !errors.Is(err, service.ErrInvalidInput) || !hasFieldError(err, "points") {
		t.Fatalf("want points field error, got %v", err)
	}

	_, err = svc.UpsertTeamStatLine(context.Background(), model.TeamStatLine{GameID: 99, Points: 80})
	if !hasFieldError(err, "game_id") {
		t.Fatalf("want game_id field error, got %v", err)
	}

	out, err := svc.UpsertTeamStatLine(context.Background(), model.TeamStatLine{GameID: 3, Points: 80, OpponentPoints: 75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID == 0 {
		t.Fatalf("expected persisted line")
	}
}

func TestStatsService_GetGameFullStats(t *testing.T) {
	svc := newStatsSvc()

	out, err := svc.GetGameFullStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TeamStats == nil || out.TeamStats.Points != 80 {
		t.Fatalf("expected team line, got %+v", out.TeamStats)
	}
	if out.PlayerStats == nil {
		t.Fatalf("player stats must not be nil")
	}

	if _, err := svc.GetGameFullStats(context.Background(), 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
