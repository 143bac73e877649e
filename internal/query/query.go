// Package query is the statistics query core: it turns raw request
// parameters into a normalized AND-composed predicate, and reduces the
// filtered row stream into grouped aggregates with exact decimal averages.
// The package is pure; persistence and HTTP live elsewhere.
package query

import (
	"strconv"
	"time"
)

// EntityKind selects which stat table a query runs against.
type EntityKind string

const (
	EntityPlayerStat EntityKind = "player_stat"
	EntityTeamStat   EntityKind = "team_stat"
)

// ParseEntityKind validates the entity parameter of a request.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case EntityPlayerStat, EntityTeamStat:
		return EntityKind(s), nil
	default:
		return "", NewDetailError(ErrInvalidFilterValue, "entity", s, "must be player_stat or team_stat")
	}
}

// Field names a numeric stat column usable in aggregates and projections.
type Field string

const (
	FieldPoints         Field = "points"
	FieldRebounds       Field = "rebounds"
	FieldAssists        Field = "assists"
	FieldSteals         Field = "steals"
	FieldBlocks         Field = "blocks"
	FieldTurnovers      Field = "turnovers"
	FieldFouls          Field = "fouls"
	FieldMinutesPlayed  Field = "minutes_played"
	FieldOpponentPoints Field = "opponent_points"
)

var playerStatFields = map[Field]struct{}{
	FieldPoints:        {},
	FieldRebounds:      {},
	FieldAssists:       {},
	FieldSteals:        {},
	FieldBlocks:        {},
	FieldTurnovers:     {},
	FieldFouls:         {},
	FieldMinutesPlayed: {},
}

var teamStatFields = map[Field]struct{}{
	FieldPoints:         {},
	FieldOpponentPoints: {},
	FieldRebounds:       {},
	FieldAssists:        {},
	FieldTurnovers:      {},
}

func statFields(kind EntityKind) map[Field]struct{} {
	if kind == EntityTeamStat {
		return teamStatFields
	}
	return playerStatFields
}

// ValidField reports whether f is a numeric stat field of the given entity kind.
func ValidField(kind EntityKind, f Field) bool {
	_, ok := statFields(kind)[f]
	return ok
}

// Row is one filtered, typed row handed from the persistence accessor to the
// aggregation engine. It carries the relationship fields a predicate or group
// key may touch plus the numeric stat values.
type Row struct {
	ID       int64
	PlayerID int64
	TeamID   int64
	GameID   int64
	Season   string
	Date     time.Time
	Position string
	HeightCm int
	HomeAway string
	Stats    map[Field]Decimal
}

// GroupKey partitions rows before aggregation. It must be one of the entity's
// relationship fields.
type GroupKey string

const (
	GroupByPlayer GroupKey = "player"
	GroupByTeam   GroupKey = "team"
	GroupBySeason GroupKey = "season"
	GroupByGame   GroupKey = "game"
)

// ParseGroupKey validates a group_by parameter against the entity kind.
// Grouping team stat lines by player makes no sense and is rejected.
func ParseGroupKey(kind EntityKind, s string) (GroupKey, error) {
	k := GroupKey(s)
	switch k {
	case GroupByTeam, GroupBySeason, GroupByGame:
		return k, nil
	case GroupByPlayer:
		if kind == EntityPlayerStat {
			return k, nil
		}
		return "", NewDetailError(ErrInvalidGroupKey, "group_by", s, "player grouping requires entity=player_stat")
	default:
		return "", NewDetailError(ErrInvalidGroupKey, "group_by", s, "must be one of player, team, season, game")
	}
}

// keyOf yields the group label and a numeric id for deterministic ordering.
// Season keys order lexically (the format is zero-padded), id keys numerically.
func (k GroupKey) keyOf(r Row) (label string, num int64) {
	switch k {
	case GroupByPlayer:
		return formatID(r.PlayerID), r.PlayerID
	case GroupByTeam:
		return formatID(r.TeamID), r.TeamID
	case GroupByGame:
		return formatID(r.GameID), r.GameID
	case GroupBySeason:
		return r.Season, 0
	default:
		return "", 0
	}
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
