package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/club-stats-service/internal/query"
)

func TestCompileWhereEmpty(t *testing.T) {
	where, args, err := compileWhere(playerStatColumns, query.Predicate{Kind: query.EntityPlayerStat})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestCompileWherePlayerStats(t *testing.T) {
	pred, err := query.BuildFilter(query.EntityPlayerStat, map[string]string{
		"season":     "2023-24",
		"height_min": "200",
		"team":       "7",
	})
	require.NoError(t, err)

	where, args, err := compileWhere(playerStatColumns, pred)
	require.NoError(t, err)
	// BuildFilter visits keys sorted, so placeholders are stable.
	assert.Equal(t, " WHERE p.height_cm >= $1 AND g.season = $2 AND p.team_id = $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, int64(200), args[0])
	assert.Equal(t, "2023-24", args[1])
	assert.Equal(t, int64(7), args[2])
}

func TestCompileWhereTeamStatsDates(t *testing.T) {
	pred, err := query.BuildFilter(query.EntityTeamStat, map[string]string{
		"date_from": "2024-01-01",
		"date_to":   "2024-03-31",
		"home_away": "home",
	})
	require.NoError(t, err)

	where, args, err := compileWhere(teamStatColumns, pred)
	require.NoError(t, err)
	assert.Equal(t, " WHERE g.date >= $1 AND g.date <= $2 AND g.home_away = $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), args[1])
	assert.Equal(t, "home", args[2])
}

func TestCompileWhereUnmappedField(t *testing.T) {
	pred := query.Predicate{
		Kind:  query.EntityTeamStat,
		Conds: []query.Condition{{Field: "position", Op: query.OpEq, Text: "PG"}},
	}
	_, _, err := compileWhere(teamStatColumns, pred)
	assert.Error(t, err)
}
