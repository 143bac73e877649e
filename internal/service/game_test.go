package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
)

func validGame() model.Game {
	return model.Game{
		TeamID:   1,
		Season:   "2023-24",
		Date:     time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Opponent: "Bayview Pilots",
		HomeAway: "home",
	}
}

func newGameSvc() service.GameService {
	return service.NewGameService(
		&fakeGameLookup{ok: map[int64]bool{3: true}},
		&fakeTeamRepo{ok: map[int64]bool{1: true}},
		zerolog.New(io.Discard),
	)
}

func TestGameService_CreateGame(t *testing.T) {
	svc := newGameSvc()

	cases := []struct {
		name   string
		mutate func(*model.Game)
		field  string
	}{
		{"bad season", func(g *model.Game) { g.Season = "2023/24" }, "season"},
		{"date outside season", func(g *model.Game) { g.Date = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC) }, "date"},
		{"empty opponent", func(g *model.Game) { g.Opponent = "  " }, "opponent"},
		{"bad home_away", func(g *model.Game) { g.HomeAway = "neutral" }, "home_away"},
		{"bad status", func(g *model.Game) { g.Status = "postponed" }, "status"},
		{"unknown team", func(g *model.Game) { g.TeamID = 9 }, "team_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := validGame()
			tc.mutate(&g)
			_, err := svc.CreateGame(context.Background(), g)
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Fatalf("want invalid input, got %v", err)
			}
			if !hasFieldError(err, tc.field) {
				t.Fatalf("missing field error %s in %v", tc.field, service.FieldErrors(err))
			}
		})
	}

	if _, err := svc.CreateGame(context.Background(), validGame()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGameService_ListGames(t *testing.T) {
	svc := newGameSvc()

	_, err := svc.ListGames(context.Background(), repository.GameListFilter{Season: "23"}, repository.Page{})
	if !hasFieldError(err, "season") {
		t.Fatalf("want season field error, got %v", err)
	}
	_, err = svc.ListGames(context.Background(), repository.GameListFilter{Season: "2023-24", HomeAway: "away"}, repository.Page{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
