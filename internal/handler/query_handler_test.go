package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/handler"
	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/service"
)

// stubQueryService records the parsed request and returns a canned result.
type stubQueryService struct {
	got service.StatsQueryRequest
	res service.StatsQueryResult
	err error
}

func (s *stubQueryService) Query(_ context.Context, req service.StatsQueryRequest) (service.StatsQueryResult, error) {
	s.got = req
	return s.res, s.err
}

func newQueryRouter(stub *stubQueryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group(handler.APIV1Prefix)
	handler.NewQueryHandler(stub).Register(api)
	return r
}

func TestQueryHandler_ParamMapping(t *testing.T) {
	stub := &stubQueryService{res: service.StatsQueryResult{Entity: "player_stat", Groups: []query.GroupResult{}}}
	r := newQueryRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/stats/query?entity=player_stat&aggregate=avg:points,count&group_by=player&sort=-avg_points&limit=5&season=2023-24&height_min=200", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.got.Entity != "player_stat" || stub.got.GroupBy != "player" || stub.got.Sort != "-avg_points" || stub.got.Limit != 5 {
		t.Fatalf("controls not mapped: %+v", stub.got)
	}
	if len(stub.got.Aggregates) != 2 || stub.got.Aggregates[0] != "avg:points" || stub.got.Aggregates[1] != "count" {
		t.Fatalf("aggregates not split: %+v", stub.got.Aggregates)
	}
	if stub.got.Filters["season"] != "2023-24" || stub.got.Filters["height_min"] != "200" {
		t.Fatalf("filters not passed through: %+v", stub.got.Filters)
	}
	if _, reserved := stub.got.Filters["entity"]; reserved {
		t.Fatalf("reserved param leaked into filters")
	}
}

func TestQueryHandler_BadLimit(t *testing.T) {
	stub := &stubQueryService{}
	r := newQueryRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats/query?entity=player_stat&aggregate=count&limit=zero", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var payload struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.Error != "invalid_filter_value" || payload.Field != "limit" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestQueryHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty query", query.ErrEmptyQuery, http.StatusBadRequest},
		{"unknown key", query.NewDetailError(query.ErrInvalidFilterKey, "foo", "bar", "unrecognized filter"), http.StatusBadRequest},
		{"too large", query.ErrResultTooLarge, http.StatusRequestEntityTooLarge},
		{"timeout", query.ErrTimeout, http.StatusGatewayTimeout},
		{"store down", query.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubQueryService{err: tc.err}
			r := newQueryRouter(stub)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats/query?entity=player_stat&aggregate=count", nil))
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestQueryHandler_DuplicateFilterRejected(t *testing.T) {
	stub := &stubQueryService{}
	r := newQueryRouter(stub)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats/query?entity=player_stat&aggregate=count&season=2023-24&season=2024-25", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
