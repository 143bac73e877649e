package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Op is a comparison operator inside a condition.
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Condition is one normalized comparison over a relationship or range field.
// Exactly one of Text, Int or Time is meaningful, determined by Field.
type Condition struct {
	Field string
	Op    Op
	Text  string
	Int   int64
	Time  time.Time
}

// Predicate is the AND of its conditions. An empty predicate matches everything.
type Predicate struct {
	Kind  EntityKind
	Conds []Condition
}

func (p Predicate) IsEmpty() bool { return len(p.Conds) == 0 }

// Matches evaluates the predicate against a row. The Postgres accessor
// compiles the same conditions to SQL; this in-memory form backs stubs and
// the compositionality tests.
func (p Predicate) Matches(r Row) bool {
	for _, c := range p.Conds {
		if !matchCondition(c, r) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, r Row) bool {
	switch c.Field {
	case "season":
		return r.Season == c.Text
	case "position":
		return r.Position == c.Text
	case "home_away":
		return r.HomeAway == c.Text
	case "team":
		return r.TeamID == c.Int
	case "player":
		return r.PlayerID == c.Int
	case "height":
		if c.Op == OpGte {
			return int64(r.HeightCm) >= c.Int
		}
		return int64(r.HeightCm) <= c.Int
	case "date":
		// Inclusive bounds on the game date.
		if c.Op == OpGte {
			return !r.Date.Before(c.Time)
		}
		return !r.Date.After(c.Time)
	default:
		return false
	}
}

var seasonRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsValidSeason reports whether s looks like "2023-24".
func IsValidSeason(s string) bool { return seasonRe.MatchString(s) }

// IsValidPosition reports whether pos is one of the five positions after
// normalization.
func IsValidPosition(pos string) bool {
	switch pos {
	case "PG", "SG", "SF", "PF", "C":
		return true
	default:
		return false
	}
}

type filterParser func(value string) (Condition, error)

func textParser(field string, validate func(string) bool, hint string) filterParser {
	return func(value string) (Condition, error) {
		v := strings.TrimSpace(value)
		if !validate(v) {
			return Condition{}, NewDetailError(ErrInvalidFilterValue, field, value, hint)
		}
		return Condition{Field: field, Op: OpEq, Text: v}, nil
	}
}

func idParser(field string) filterParser {
	return func(value string) (Condition, error) {
		id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || id <= 0 {
			return Condition{}, NewDetailError(ErrInvalidFilterValue, field, value, "must be a positive integer id")
		}
		return Condition{Field: field, Op: OpEq, Int: id}, nil
	}
}

func heightParser(op Op, key string) filterParser {
	return func(value string) (Condition, error) {
		cm, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || cm <= 0 {
			return Condition{}, NewDetailError(ErrInvalidFilterValue, key, value, "must be a positive height in cm")
		}
		return Condition{Field: "height", Op: op, Int: cm}, nil
	}
}

func dateParser(op Op, key string) filterParser {
	return func(value string) (Condition, error) {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(value))
		if err != nil {
			return Condition{}, NewDetailError(ErrInvalidFilterValue, key, value, "must be a date in YYYY-MM-DD format")
		}
		return Condition{Field: "date", Op: op, Time: d}, nil
	}
}

func isHomeAway(s string) bool { return s == "home" || s == "away" }

var playerStatFilters = map[string]filterParser{
	"season":     textParser("season", IsValidSeason, "must be a season in YYYY-YY format"),
	"team":       idParser("team"),
	"player":     idParser("player"),
	"position":   textParser("position", IsValidPosition, "must be one of PG, SG, SF, PF, C"),
	"height_min": heightParser(OpGte, "height_min"),
	"height_max": heightParser(OpLte, "height_max"),
	"date_from":  dateParser(OpGte, "date_from"),
	"date_to":    dateParser(OpLte, "date_to"),
}

var teamStatFilters = map[string]filterParser{
	"season":    textParser("season", IsValidSeason, "must be a season in YYYY-YY format"),
	"team":      idParser("team"),
	"home_away": textParser("home_away", isHomeAway, "must be home or away"),
	"date_from": dateParser(OpGte, "date_from"),
	"date_to":   dateParser(OpLte, "date_to"),
}

// BuildFilter translates recognized filter parameters into a normalized
// predicate. Unknown keys fail with ErrInvalidFilterKey, malformed values
// with ErrInvalidFilterValue; nothing is silently dropped. Keys are visited
// in sorted order so the produced condition list, and therefore the compiled
// SQL, is deterministic for a given request.
func BuildFilter(kind EntityKind, filters map[string]string) (Predicate, error) {
	parsers := playerStatFilters
	if kind == EntityTeamStat {
		parsers = teamStatFilters
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pred := Predicate{Kind: kind}
	for _, k := range keys {
		parse, ok := parsers[k]
		if !ok {
			return Predicate{}, NewDetailError(ErrInvalidFilterKey, k, filters[k], "unrecognized filter")
		}
		cond, err := parse(filters[k])
		if err != nil {
			return Predicate{}, err
		}
		pred.Conds = append(pred.Conds, cond)
	}
	return pred, nil
}

// Position normalization shared with the player service: trims and uppercases.
func NormalizePosition(pos string) string {
	return strings.ToUpper(strings.TrimSpace(pos))
}
