package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/query"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

// AggregatesHandler serves the fixed per-player and per-team aggregate views.
// Both are convenience wrappers over the stats query service with a pinned
// aggregate set; the generic /stats/query endpoint covers everything else.
type AggregatesHandler struct {
	teams    service.TeamService
	players  service.PlayerService
	querySvc service.StatsQueryService
}

func NewAggregatesHandler(teams service.TeamService, players service.PlayerService, querySvc service.StatsQueryService) *AggregatesHandler {
	return &AggregatesHandler{teams: teams, players: players, querySvc: querySvc}
}

func (h *AggregatesHandler) Register(r *gin.RouterGroup) {
	r.GET("/players/:player_id/aggregates", h.playerAggregates)
	r.GET("/teams/:team_id/aggregates", h.teamAggregates)
}

var playerAggregateSet = []string{
	"avg:points", "avg:rebounds", "avg:assists", "avg:steals",
	"avg:blocks", "avg:turnovers", "avg:fouls", "avg:minutes_played", "count",
}

var teamAggregateSet = []string{
	"avg:points", "avg:opponent_points", "avg:rebounds", "avg:assists", "avg:turnovers", "count",
}

type aggregatesResponse struct {
	Entity string                 `json:"entity"`
	Season string                 `json:"season,omitempty"`
	Values map[string]query.Value `json:"values"`
}

func (h *AggregatesHandler) playerAggregates(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("player_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	// Resolve the player first so an unknown id reads as not found rather
	// than an empty aggregate.
	if _, err := h.players.GetPlayer(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	filters := map[string]string{"player": strconv.FormatInt(id, 10)}
	h.run(c, string(query.EntityPlayerStat), filters, playerAggregateSet)
}

func (h *AggregatesHandler) teamAggregates(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("team_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	if _, err := h.teams.GetTeam(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	filters := map[string]string{"team": strconv.FormatInt(id, 10)}
	h.run(c, string(query.EntityTeamStat), filters, teamAggregateSet)
}

func (h *AggregatesHandler) run(c *gin.Context, entity string, filters map[string]string, aggregates []string) {
	season := c.Query("season")
	if season != "" {
		filters["season"] = season
	}
	res, err := h.querySvc.Query(c.Request.Context(), service.StatsQueryRequest{
		Entity:     entity,
		Filters:    filters,
		Aggregates: aggregates,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := aggregatesResponse{Entity: entity, Season: season}
	if len(res.Groups) > 0 {
		out.Values = res.Groups[0].Values
	}
	response.WriteData(c, http.StatusOK, out)
}
