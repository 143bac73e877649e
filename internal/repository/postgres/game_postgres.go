package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

type gameRepository struct{ pool *pgxpool.Pool }

func NewGameRepository(pool *pgxpool.Pool) repository.GameRepository {
	return &gameRepository{pool: pool}
}

const gameColumns = `id, team_id, season, date, opponent, home_away, status, created_at, updated_at`

func scanGame(row pgx.Row) (model.Game, error) {
	var out model.Game
	err := row.Scan(&out.ID, &out.TeamID, &out.Season, &out.Date, &out.Opponent,
		&out.HomeAway, &out.Status, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (r *gameRepository) Create(ctx context.Context, g model.Game) (model.Game, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Game{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO games (team_id, season, date, opponent, home_away, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+gameColumns,
		g.TeamID, g.Season, g.Date, g.Opponent, g.HomeAway, g.Status,
	)
	out, err := scanGame(row)
	if err != nil {
		return model.Game{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id int64) (model.Game, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Game{}, err
	}
	exec := getQ(ctx, r.pool)
	out, err := scanGame(exec.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Game{}, repository.ErrNotFound
		}
		return model.Game{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *gameRepository) List(ctx context.Context, f repository.GameListFilter, p repository.Page) (repository.PageResult[model.Game], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Game]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)

	var conds []string
	var args []any
	if f.Season != "" {
		args = append(args, f.Season)
		conds = append(conds, fmt.Sprintf("season = $%d", len(args)))
	}
	if f.HomeAway != "" {
		args = append(args, f.HomeAway)
		conds = append(conds, fmt.Sprintf("home_away = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)

	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		fmt.Sprintf(`SELECT `+gameColumns+`, COUNT(*) OVER() AS total FROM games%s
		 ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return repository.PageResult[model.Game]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Game]{Items: make([]model.Game, 0, limit)}
	for rows.Next() {
		var it model.Game
		var total int
		if err := rows.Scan(&it.ID, &it.TeamID, &it.Season, &it.Date, &it.Opponent,
			&it.HomeAway, &it.Status, &it.CreatedAt, &it.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Game]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

var _ repository.GameRepository = (*gameRepository)(nil)
