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

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

const playerColumns = `id, team_id, first_name, last_name, position, jersey_number, height_cm, weight_kg, birth_date, created_at, updated_at`

func scanPlayer(row pgx.Row) (model.Player, error) {
	var out model.Player
	err := row.Scan(&out.ID, &out.TeamID, &out.FirstName, &out.LastName, &out.Position,
		&out.JerseyNumber, &out.HeightCm, &out.WeightKg, &out.BirthDate, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO players (team_id, first_name, last_name, position, jersey_number, height_cm, weight_kg, birth_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+playerColumns,
		p.TeamID, p.FirstName, p.LastName, p.Position, p.JerseyNumber, p.HeightCm, p.WeightKg, p.BirthDate,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	out, err := scanPlayer(exec.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

// playerSortColumns whitelists sortable columns; anything else falls back to
// last_name so a client typo cannot inject SQL.
var playerSortColumns = map[string]string{
	"last_name":     "last_name",
	"jersey_number": "jersey_number",
	"height":        "height_cm",
}

func (r *playerRepository) List(ctx context.Context, f repository.PlayerListFilter, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)

	var conds []string
	var args []any
	if f.Position != "" {
		args = append(args, f.Position)
		conds = append(conds, fmt.Sprintf("position = $%d", len(args)))
	}
	if f.HeightMin > 0 {
		args = append(args, f.HeightMin)
		conds = append(conds, fmt.Sprintf("height_cm >= $%d", len(args)))
	}
	if f.HeightMax > 0 {
		args = append(args, f.HeightMax)
		conds = append(conds, fmt.Sprintf("height_cm <= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	sortCol, ok := playerSortColumns[f.SortBy]
	if !ok {
		sortCol = "last_name"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total FROM players%s
		 ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		where, sortCol, dir, dir, len(args)-1, len(args),
	)

	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, limit)}
	for rows.Next() {
		var it model.Player
		var total int
		if err := rows.Scan(&it.ID, &it.TeamID, &it.FirstName, &it.LastName, &it.Position,
			&it.JerseyNumber, &it.HeightCm, &it.WeightKg, &it.BirthDate, &it.CreatedAt, &it.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players WHERE team_id = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		teamID, limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, limit)}
	for rows.Next() {
		var it model.Player
		var total int
		if err := rows.Scan(&it.ID, &it.TeamID, &it.FirstName, &it.LastName, &it.Position,
			&it.JerseyNumber, &it.HeightCm, &it.WeightKg, &it.BirthDate, &it.CreatedAt, &it.UpdatedAt, &total); err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

// Exists performs a lightweight check to see if a player with the given ID exists.
func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	exec := getQ(ctx, r.pool)
	err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
