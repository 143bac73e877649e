package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
)

type fakeTeamRepo struct{ ok map[int64]bool }

func (f *fakeTeamRepo) Create(_ context.Context, t model.Team) (model.Team, error) {
	t.ID = 1
	return t, nil
}
func (f *fakeTeamRepo) GetByID(_ context.Context, id int64) (model.Team, error) {
	if f.ok[id] {
		return model.Team{ID: id}, nil
	}
	return model.Team{}, repository.ErrNotFound
}
func (f *fakeTeamRepo) List(context.Context, repository.Page) (repository.PageResult[model.Team], error) {
	return repository.PageResult[model.Team]{}, nil
}
func (f *fakeTeamRepo) Exists(_ context.Context, id int64) (bool, error) { return f.ok[id], nil }

var _ repository.TeamRepository = (*fakeTeamRepo)(nil)

func TestTeamService_CreateTeam(t *testing.T) {
	svc := service.NewTeamService(&fakeTeamRepo{}, zerolog.New(io.Discard))

	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "   ", true},
		{"too short", "A", true},
		{"too long", strings.Repeat("x", 51), true},
		{"ok", "  Riverside Hawks  ", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.CreateTeam(context.Background(), tc.input)
			if tc.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Fatalf("want invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Name != "Riverside Hawks" {
				t.Fatalf("name not trimmed: %q", out.Name)
			}
		})
	}
}

func TestTeamService_GetTeam(t *testing.T) {
	svc := service.NewTeamService(&fakeTeamRepo{ok: map[int64]bool{1: true}}, zerolog.New(io.Discard))

	if _, err := svc.GetTeam(context.Background(), 0); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("want invalid input, got %v", err)
	}
	if _, err := svc.GetTeam(context.Background(), 2); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if _, err := svc.GetTeam(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
