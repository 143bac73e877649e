package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

type teamStatsRepository struct{ pool *pgxpool.Pool }

func NewTeamStatsRepository(pool *pgxpool.Pool) repository.TeamStatsRepository {
	return &teamStatsRepository{pool: pool}
}

func (r *teamStatsRepository) UpsertTeamStatLine(ctx context.Context, s model.TeamStatLine) (model.TeamStatLine, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.TeamStatLine{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO team_stats (game_id, points, opponent_points, rebounds, assists, turnovers)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (game_id)
		 DO UPDATE SET
			points = EXCLUDED.points,
			opponent_points = EXCLUDED.opponent_points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			turnovers = EXCLUDED.turnovers,
			updated_at = NOW()
		 RETURNING id, game_id, points, opponent_points, rebounds, assists, turnovers, created_at, updated_at`,
		s.GameID, s.Points, s.OpponentPoints, s.Rebounds, s.Assists, s.Turnovers,
	)
	var out model.TeamStatLine
	if err := row.Scan(&out.ID, &out.GameID, &out.Points, &out.OpponentPoints, &out.Rebounds, &out.Assists, &out.Turnovers, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.TeamStatLine{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamStatsRepository) GetByGame(ctx context.Context, gameID int64) (model.TeamStatLine, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.TeamStatLine{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT id, game_id, points, opponent_points, rebounds, assists, turnovers, created_at, updated_at
		 FROM team_stats WHERE game_id = $1`, gameID,
	)
	var out model.TeamStatLine
	if err := row.Scan(&out.ID, &out.GameID, &out.Points, &out.OpponentPoints, &out.Rebounds, &out.Assists, &out.Turnovers, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TeamStatLine{}, repository.ErrNotFound
		}
		return model.TeamStatLine{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.TeamStatsRepository = (*teamStatsRepository)(nil)
