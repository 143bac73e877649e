package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/config"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/repository"
)

// errStopStream aborts the row stream once a projection has enough rows.
// Never escapes this package.
var errStopStream = errors.New("stop stream")

// statsQueryService orchestrates one statistics query: validate and normalize
// everything up front, then stream rows from the accessor into the engine.
// All validation failures surface before the accessor is touched.
type statsQueryService struct {
	rows    repository.StatRowSource
	cfg     config.QueryConfig
	metrics QueryMetrics
	log     zerolog.Logger
}

func NewStatsQueryService(rows repository.StatRowSource, cfg config.QueryConfig, metrics QueryMetrics, logger zerolog.Logger) StatsQueryService {
	l := logger.With().Str("module", "service").Str("component", "stats_query").Logger()
	return &statsQueryService{rows: rows, cfg: cfg, metrics: metrics, log: l}
}

func (s *statsQueryService) Query(ctx context.Context, req StatsQueryRequest) (StatsQueryResult, error) {
	start := time.Now()
	res, err := s.run(ctx, req)
	status := "ok"
	if err != nil {
		status = errStatus(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveQuery(req.Entity, status, time.Since(start))
	}
	if err != nil {
		s.log.Debug().Err(err).Str("entity", req.Entity).Str("status", status).Msg("stats query failed")
		return StatsQueryResult{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("entity", req.Entity).
		Int("groups", len(res.Groups)).Msg("stats query served")
	return res, nil
}

func (s *statsQueryService) run(ctx context.Context, req StatsQueryRequest) (StatsQueryResult, error) {
	kind, err := query.ParseEntityKind(req.Entity)
	if err != nil {
		return StatsQueryResult{}, err
	}
	if len(req.Aggregates) == 0 && len(req.Project) == 0 {
		return StatsQueryResult{}, query.ErrEmptyQuery
	}

	pred, err := query.BuildFilter(kind, req.Filters)
	if err != nil {
		return StatsQueryResult{}, err
	}

	sortSpec := query.ParseSort(req.Sort)

	if len(req.Project) > 0 {
		return s.runProjection(ctx, kind, pred, sortSpec, req)
	}
	return s.runAggregation(ctx, kind, pred, sortSpec, req)
}

func (s *statsQueryService) runAggregation(ctx context.Context, kind query.EntityKind, pred query.Predicate, sortSpec query.SortSpec, req StatsQueryRequest) (StatsQueryResult, error) {
	specs := make([]query.AggregateSpec, 0, len(req.Aggregates))
	valueNames := make([]string, 0, len(req.Aggregates))
	for _, raw := range req.Aggregates {
		spec, err := query.ParseAggregateSpec(kind, raw)
		if err != nil {
			return StatsQueryResult{}, err
		}
		specs = append(specs, spec)
		valueNames = append(valueNames, spec.Name())
	}

	var groupBy query.GroupKey
	if req.GroupBy != "" {
		gk, err := query.ParseGroupKey(kind, req.GroupBy)
		if err != nil {
			return StatsQueryResult{}, err
		}
		groupBy = gk
	}
	if err := query.ValidateSort(sortSpec, valueNames); err != nil {
		return StatsQueryResult{}, err
	}

	engine := query.NewEngine(specs, groupBy, s.cfg.MaxResultGroups)
	if err := s.stream(ctx, kind, pred, engine.Add); err != nil {
		return StatsQueryResult{}, err
	}

	groups := engine.Results()
	query.SortResults(groups, sortSpec)
	groups = truncate(groups, req.Limit)
	return StatsQueryResult{Entity: string(kind), GroupBy: req.GroupBy, Groups: groups}, nil
}

func (s *statsQueryService) runProjection(ctx context.Context, kind query.EntityKind, pred query.Predicate, sortSpec query.SortSpec, req StatsQueryRequest) (StatsQueryResult, error) {
	if len(req.Aggregates) > 0 {
		return StatsQueryResult{}, query.NewDetailError(query.ErrInvalidFilterValue, "project", "", "projection cannot be combined with aggregates")
	}
	if req.GroupBy != "" {
		return StatsQueryResult{}, query.NewDetailError(query.ErrInvalidFilterValue, "project", "", "projection cannot be combined with group_by")
	}
	fields, err := query.ParseProjection(kind, req.Project)
	if err != nil {
		return StatsQueryResult{}, err
	}
	valueNames := make([]string, len(fields))
	for i, f := range fields {
		valueNames[i] = string(f)
	}
	if err := query.ValidateSort(sortSpec, valueNames); err != nil {
		return StatsQueryResult{}, err
	}

	// Without a sort the stream order is the response order, so the stream
	// can stop as soon as the limit is reached.
	stopEarly := sortSpec.Field == "" && req.Limit > 0

	var out []query.GroupResult
	err = s.stream(ctx, kind, pred, func(r query.Row) error {
		if len(out) >= s.cfg.MaxResultGroups {
			return query.NewDetailError(query.ErrResultTooLarge, "project", "", "row count exceeds the configured maximum; narrow the filters")
		}
		out = append(out, query.NewRowResult(r, fields))
		if stopEarly && len(out) >= req.Limit {
			return errStopStream
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopStream) {
		return StatsQueryResult{}, err
	}

	query.SortResults(out, sortSpec)
	out = truncate(out, req.Limit)
	if out == nil {
		out = []query.GroupResult{}
	}
	return StatsQueryResult{Entity: string(kind), Groups: out}, nil
}

// stream runs the accessor under the configured timeout and maps deadline
// expiry to the Timeout kind. Store failures pass through unmodified.
func (s *statsQueryService) stream(ctx context.Context, kind query.EntityKind, pred query.Predicate, fn func(query.Row) error) error {
	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	err := s.rows.StreamRows(ctx, kind, pred, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return query.ErrTimeout
	}
	return err
}

func truncate(rs []query.GroupResult, limit int) []query.GroupResult {
	if limit > 0 && len(rs) > limit {
		return rs[:limit]
	}
	return rs
}

func errStatus(err error) string {
	switch {
	case errors.Is(err, query.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, query.ErrInvalidFilterKey), errors.Is(err, query.ErrInvalidFilterValue), errors.Is(err, query.ErrInvalidGroupKey):
		return "invalid"
	case errors.Is(err, query.ErrResultTooLarge):
		return "too_large"
	case errors.Is(err, query.ErrTimeout):
		return "timeout"
	case errors.Is(err, query.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}

var _ StatsQueryService = (*statsQueryService)(nil)
