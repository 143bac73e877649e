package repository

import (
	"context"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/query"
)

// Pinger represents a minimal readiness probe capability.
// It decouples health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// Context is passed through so nested calls honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// A single entry point keeps transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
// Implementations return domain models and surface the domain errors from
// errors.go rather than PG codes.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	List(ctx context.Context, f PlayerListFilter, p Page) (PageResult[model.Player], error)
	ListByTeam(ctx context.Context, teamID int64, p Page) (PageResult[model.Player], error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PlayerListFilter narrows the player listing. Zero values mean "no filter";
// richer filtering belongs to the query subsystem.
type PlayerListFilter struct {
	Position  string
	HeightMin int
	HeightMax int
	SortBy    string // last_name, jersey_number, height
	SortDesc  bool
}

// GameRepository declares persistence operations for games.
type GameRepository interface {
	Create(ctx context.Context, g model.Game) (model.Game, error)
	GetByID(ctx context.Context, id int64) (model.Game, error)
	List(ctx context.Context, f GameListFilter, p Page) (PageResult[model.Game], error)
}

// GameListFilter narrows the game listing.
type GameListFilter struct {
	Season   string
	HomeAway string
}

// StatsRepository declares operations for player stat lines per game.
type StatsRepository interface {
	UpsertStatLine(ctx context.Context, s model.PlayerStatLine) (model.PlayerStatLine, error)
	ListByGame(ctx context.Context, gameID int64) ([]model.PlayerStatLine, error)
}

// TeamStatsRepository declares operations for team stat lines per game.
type TeamStatsRepository interface {
	UpsertTeamStatLine(ctx context.Context, s model.TeamStatLine) (model.TeamStatLine, error)
	GetByGame(ctx context.Context, gameID int64) (model.TeamStatLine, error)
}

// UserRepository declares persistence operations for API accounts.
type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// StatRowSource is the persistence accessor of the query subsystem: it
// compiles the predicate and streams matching rows to fn in a stable order.
// fn returning an error stops the stream and surfaces that error, which lets
// the aggregation engine abort early on result-size violations. Store
// failures come back wrapped in query.ErrStoreUnavailable.
type StatRowSource interface {
	StreamRows(ctx context.Context, kind query.EntityKind, pred query.Predicate, fn func(query.Row) error) error
}
