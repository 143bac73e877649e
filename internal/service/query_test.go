package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/club-stats-service/internal/config"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/service"
)

// fakeRowSource replays a fixed row set through the in-memory predicate,
// mirroring what the SQL accessor does with a WHERE clause. It records
// whether it was called so fail-fast tests can assert it never was.
type fakeRowSource struct {
	rows   []query.Row
	err    error
	called bool
}

func (f *fakeRowSource) StreamRows(_ context.Context, _ query.EntityKind, pred query.Predicate, fn func(query.Row) error) error {
	f.called = true
	if f.err != nil {
		return f.err
	}
	for _, r := range f.rows {
		if !pred.Matches(r) {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func playerRow(id, playerID int64, heightCm int, points int64) query.Row {
	return query.Row{
		ID:       id,
		PlayerID: playerID,
		TeamID:   1,
		GameID:   id,
		Season:   "2023-24",
		Position: "SF",
		HeightCm: heightCm,
		Stats: map[query.Field]query.Decimal{
			query.FieldPoints: query.DecimalFromInt(points),
		},
	}
}

func newQuerySvc(src *fakeRowSource, maxGroups int) service.StatsQueryService {
	cfg := config.QueryConfig{MaxResultGroups: maxGroups, TimeoutSeconds: 5}
	return service.NewStatsQueryService(src, cfg, nil, zerolog.New(io.Discard))
}

func TestQueryFailsFastBeforePersistence(t *testing.T) {
	src := &fakeRowSource{}
	svc := newQuerySvc(src, 100)

	cases := []struct {
		name string
		req  service.StatsQueryRequest
		kind error
	}{
		{"unknown filter key", service.StatsQueryRequest{
			Entity: "player_stat", Filters: map[string]string{"foo": "bar"}, Aggregates: []string{"count"},
		}, query.ErrInvalidFilterKey},
		{"bad filter value", service.StatsQueryRequest{
			Entity: "player_stat", Filters: map[string]string{"season": "23/24"}, Aggregates: []string{"count"},
		}, query.ErrInvalidFilterValue},
		{"bad group key", service.StatsQueryRequest{
			Entity: "player_stat", Aggregates: []string{"count"}, GroupBy: "jersey",
		}, query.ErrInvalidGroupKey},
		{"bad aggregate", service.StatsQueryRequest{
			Entity: "player_stat", Aggregates: []string{"median:points"},
		}, query.ErrInvalidFilterValue},
		{"bad sort", service.StatsQueryRequest{
			Entity: "player_stat", Aggregates: []string{"avg:points"}, Sort: "avg_rebounds",
		}, query.ErrInvalidFilterValue},
		{"empty query", service.StatsQueryRequest{
			Entity: "player_stat", Filters: map[string]string{"season": "2023-24"},
		}, query.ErrEmptyQuery},
		{"bad entity", service.StatsQueryRequest{
			Entity: "coach_stat", Aggregates: []string{"count"},
		}, query.ErrInvalidFilterValue},
		{"projection with aggregates", service.StatsQueryRequest{
			Entity: "player_stat", Aggregates: []string{"count"}, Project: []string{"points"},
		}, query.ErrInvalidFilterValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src.called = false
			_, err := svc.Query(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "want %v, got %v", tc.kind, err)
			assert.False(t, src.called, "persistence must not be touched on validation failure")
		})
	}
}

// Players P1 (height 190) and P2 (height 205) each have three games with
// points [10,20,30] and [5,15,25]. Filtering height_min=200 grouped by player
// must return exactly P2 with an average of 15.00.
func TestQueryHeightFilterGroupByPlayer(t *testing.T) {
	src := &fakeRowSource{rows: []query.Row{
		playerRow(1, 1, 190, 10),
		playerRow(2, 1, 190, 20),
		playerRow(3, 1, 190, 30),
		playerRow(4, 2, 205, 5),
		playerRow(5, 2, 205, 15),
		playerRow(6, 2, 205, 25),
	}}
	svc := newQuerySvc(src, 100)

	req := service.StatsQueryRequest{
		Entity:     "player_stat",
		Filters:    map[string]string{"height_min": "200"},
		Aggregates: []string{"avg:points"},
		GroupBy:    "player",
	}
	res, err := svc.Query(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "2", res.Groups[0].Key)
	v := res.Groups[0].Values["avg_points"]
	assert.False(t, v.NoData)
	assert.Equal(t, "15.00", v.Num.String())

	// Determinism: identical input, identical output.
	res2, err := svc.Query(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, res.Groups, res2.Groups)
}

func TestQueryEmptyMatchUngrouped(t *testing.T) {
	src := &fakeRowSource{rows: []query.Row{playerRow(1, 1, 190, 10)}}
	svc := newQuerySvc(src, 100)

	res, err := svc.Query(context.Background(), service.StatsQueryRequest{
		Entity:     "player_stat",
		Filters:    map[string]string{"height_min": "250"},
		Aggregates: []string{"avg:points", "sum:points", "count"},
	})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	vals := res.Groups[0].Values
	assert.True(t, vals["avg_points"].NoData)
	assert.Equal(t, "0.00", vals["sum_points"].Num.String())
	assert.Equal(t, "0.00", vals["count"].Num.String())
}

func TestQueryResultTooLarge(t *testing.T) {
	rows := make([]query.Row, 0, 5)
	for i := int64(1); i <= 5; i++ {
		rows = append(rows, playerRow(i, i, 200, 10))
	}
	src := &fakeRowSource{rows: rows}
	svc := newQuerySvc(src, 3)

	_, err := svc.Query(context.Background(), service.StatsQueryRequest{
		Entity:     "player_stat",
		Aggregates: []string{"count"},
		GroupBy:    "player",
	})
	assert.True(t, errors.Is(err, query.ErrResultTooLarge), "got %v", err)
}

func TestQueryLimitTruncatesOrderedResult(t *testing.T) {
	src := &fakeRowSource{rows: []query.Row{
		playerRow(1, 1, 200, 10),
		playerRow(2, 2, 200, 30),
		playerRow(3, 3, 200, 20),
	}}
	svc := newQuerySvc(src, 100)

	res, err := svc.Query(context.Background(), service.StatsQueryRequest{
		Entity:     "player_stat",
		Aggregates: []string{"avg:points"},
		GroupBy:    "player",
		Sort:       "-avg_points",
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "2", res.Groups[0].Key)
	assert.Equal(t, "3", res.Groups[1].Key)
}

func TestQueryProjection(t *testing.T) {
	src := &fakeRowSource{rows: []query.Row{
		playerRow(1, 1, 200, 10),
		playerRow(2, 1, 200, 20),
		playerRow(3, 1, 200, 30),
	}}
	svc := newQuerySvc(src, 100)

	res, err := svc.Query(context.Background(), service.StatsQueryRequest{
		Entity:  "player_stat",
		Project: []string{"points"},
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "10.00", res.Groups[0].Values["points"].Num.String())
	assert.Equal(t, "20.00", res.Groups[1].Values["points"].Num.String())
}

func TestQueryTimeoutAndStoreErrors(t *testing.T) {
	src := &fakeRowSource{err: context.DeadlineExceeded}
	svc := newQuerySvc(src, 100)
	_, err := svc.Query(context.Background(), service.StatsQueryRequest{
		Entity: "player_stat", Aggregates: []string{"count"},
	})
	assert.True(t, errors.Is(err, query.ErrTimeout), "got %v", err)

	storeErr := query.NewDetailError(query.ErrStoreUnavailable, "", "", "connection refused")
	src = &fakeRowSource{err: storeErr}
	svc = newQuerySvc(src, 100)
	_, err = svc.Query(context.Background(), service.StatsQueryRequest{
		Entity: "player_stat", Aggregates: []string{"count"},
	})
	assert.True(t, errors.Is(err, query.ErrStoreUnavailable), "got %v", err)
}

func TestQueryMetricsRecorded(t *testing.T) {
	rec := &recordingMetrics{}
	cfg := config.QueryConfig{MaxResultGroups: 10, TimeoutSeconds: 5}
	svc := service.NewStatsQueryService(&fakeRowSource{}, cfg, rec, zerolog.New(io.Discard))

	_, _ = svc.Query(context.Background(), service.StatsQueryRequest{
		Entity: "player_stat", Aggregates: []string{"count"},
	})
	_, _ = svc.Query(context.Background(), service.StatsQueryRequest{Entity: "player_stat"})

	require.Len(t, rec.observed, 2)
	assert.Equal(t, "ok", rec.observed[0].status)
	assert.Equal(t, "empty_query", rec.observed[1].status)
}

type recordingMetrics struct {
	observed []struct {
		entity, status string
	}
}

func (r *recordingMetrics) ObserveQuery(entity, status string, _ time.Duration) {
	r.observed = append(r.observed, struct{ entity, status string }{entity, status})
}
