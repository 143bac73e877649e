package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
)

// statRowSource is the query subsystem's persistence accessor: it compiles a
// normalized predicate into a parameterized WHERE clause and streams matching
// rows to the caller without materializing the full set.
type statRowSource struct{ pool *pgxpool.Pool }

func NewStatRowSource(pool *pgxpool.Pool) repository.StatRowSource {
	return &statRowSource{pool: pool}
}

// Column bindings per filter field. Aliases: ps player_stats, ts team_stats,
// p players, g games.
var playerStatColumns = map[string]string{
	"season":    "g.season",
	"team":      "p.team_id",
	"player":    "ps.player_id",
	"position":  "p.position",
	"height":    "p.height_cm",
	"date":      "g.date",
	"home_away": "g.home_away",
}

var teamStatColumns = map[string]string{
	"season":    "g.season",
	"team":      "g.team_id",
	"date":      "g.date",
	"home_away": "g.home_away",
}

// compileWhere renders the AND of the predicate's conditions. Condition
// fields come from the filter builder's fixed vocabulary, never from raw
// client input, so interpolating the column name is safe; values always go
// through placeholders.
func compileWhere(cols map[string]string, pred query.Predicate) (string, []any, error) {
	if pred.IsEmpty() {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(pred.Conds))
	args := make([]any, 0, len(pred.Conds))
	for _, c := range pred.Conds {
		col, ok := cols[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unmapped filter field %q", c.Field)
		}
		switch c.Field {
		case "season", "position", "home_away":
			args = append(args, c.Text)
		case "team", "player", "height":
			args = append(args, c.Int)
		case "date":
			args = append(args, c.Time)
		default:
			return "", nil, fmt.Errorf("unmapped filter field %q", c.Field)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, c.Op, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (r *statRowSource) StreamRows(ctx context.Context, kind query.EntityKind, pred query.Predicate, fn func(query.Row) error) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	if kind == query.EntityTeamStat {
		return r.streamTeamStats(ctx, pred, fn)
	}
	return r.streamPlayerStats(ctx, pred, fn)
}

func (r *statRowSource) streamPlayerStats(ctx context.Context, pred query.Predicate, fn func(query.Row) error) error {
	where, args, err := compileWhere(playerStatColumns, pred)
	if err != nil {
		return err
	}
	sql := `SELECT ps.id, ps.player_id, p.team_id, ps.game_id, g.season, g.date, p.position, p.height_cm, g.home_away,
			ps.points, ps.rebounds, ps.assists, ps.steals, ps.blocks, ps.turnovers, ps.fouls, ps.minutes_played
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		JOIN games g ON g.id = ps.game_id` + where + `
		ORDER BY ps.id`

	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return wrapStoreErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var row query.Row
		var points, rebounds, assists, steals, blocks, turnovers, fouls int64
		var minutes float64
		if err := rows.Scan(&row.ID, &row.PlayerID, &row.TeamID, &row.GameID, &row.Season, &row.Date,
			&row.Position, &row.HeightCm, &row.HomeAway,
			&points, &rebounds, &assists, &steals, &blocks, &turnovers, &fouls, &minutes); err != nil {
			return wrapStoreErr(err)
		}
		row.Stats = map[query.Field]query.Decimal{
			query.FieldPoints:        query.DecimalFromInt(points),
			query.FieldRebounds:      query.DecimalFromInt(rebounds),
			query.FieldAssists:       query.DecimalFromInt(assists),
			query.FieldSteals:        query.DecimalFromInt(steals),
			query.FieldBlocks:        query.DecimalFromInt(blocks),
			query.FieldTurnovers:     query.DecimalFromInt(turnovers),
			query.FieldFouls:         query.DecimalFromInt(fouls),
			query.FieldMinutesPlayed: query.DecimalFromFloat(minutes),
		}
		if err := fn(row); err != nil {
			return err // consumer decision, not a store failure
		}
	}
	if err := rows.Err(); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *statRowSource) streamTeamStats(ctx context.Context, pred query.Predicate, fn func(query.Row) error) error {
	where, args, err := compileWhere(teamStatColumns, pred)
	if err != nil {
		return err
	}
	sql := `SELECT ts.id, g.team_id, ts.game_id, g.season, g.date, g.home_away,
			ts.points, ts.opponent_points, ts.rebounds, ts.assists, ts.turnovers
		FROM team_stats ts
		JOIN games g ON g.id = ts.game_id` + where + `
		ORDER BY ts.id`

	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return wrapStoreErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var row query.Row
		var points, oppPoints, rebounds, assists, turnovers int64
		if err := rows.Scan(&row.ID, &row.TeamID, &row.GameID, &row.Season, &row.Date, &row.HomeAway,
			&points, &oppPoints, &rebounds, &assists, &turnovers); err != nil {
			return wrapStoreErr(err)
		}
		row.Stats = map[query.Field]query.Decimal{
			query.FieldPoints:         query.DecimalFromInt(points),
			query.FieldOpponentPoints: query.DecimalFromInt(oppPoints),
			query.FieldRebounds:       query.DecimalFromInt(rebounds),
			query.FieldAssists:        query.DecimalFromInt(assists),
			query.FieldTurnovers:      query.DecimalFromInt(turnovers),
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// wrapStoreErr marks persistence failures with the StoreUnavailable kind
// while keeping deadline errors bare so the service maps them to Timeout.
func wrapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", query.ErrStoreUnavailable, err)
}

var _ repository.StatRowSource = (*statRowSource)(nil)
