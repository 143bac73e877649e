package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

type QueryHandler struct {
	svc service.StatsQueryService
}

func NewQueryHandler(svc service.StatsQueryService) *QueryHandler { return &QueryHandler{svc: svc} }

func (h *QueryHandler) Register(r *gin.RouterGroup) {
	r.GET("/stats/query", h.query)
}

// Parameters that steer the query rather than filter rows. Everything else in
// the query string is handed to the filter builder verbatim, so unknown keys
// fail loudly instead of being dropped.
var reservedParams = map[string]struct{}{
	"entity":    {},
	"aggregate": {},
	"group_by":  {},
	"sort":      {},
	"limit":     {},
	"project":   {},
}

func (h *QueryHandler) query(c *gin.Context) {
	values := c.Request.URL.Query()

	req := service.StatsQueryRequest{
		Entity:  c.Query("entity"),
		GroupBy: c.Query("group_by"),
		Sort:    c.Query("sort"),
		Filters: make(map[string]string),
	}

	for _, raw := range values["aggregate"] {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				req.Aggregates = append(req.Aggregates, a)
			}
		}
	}
	for _, raw := range values["project"] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				req.Project = append(req.Project, p)
			}
		}
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.WriteError(c, query.NewDetailError(query.ErrInvalidFilterValue, "limit", raw, "must be a positive integer"))
			return
		}
		req.Limit = n
	}

	for key, vals := range values {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		if len(vals) > 1 {
			response.WriteError(c, query.NewDetailError(query.ErrInvalidFilterValue, key, strings.Join(vals, ","), "filter given more than once"))
			return
		}
		req.Filters[key] = vals[0]
	}

	res, err := h.svc.Query(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
