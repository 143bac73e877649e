package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	r.POST("/stats", h.upsertPlayerLine)
	r.POST("/team-stats", h.upsertTeamLine)
	r.GET("/games/:game_id/stats", h.listByGame)
	r.GET("/games/:game_id/full-stats", h.fullStats)
}

func (h *StatsHandler) upsertPlayerLine(c *gin.Context) {
	var line model.PlayerStatLine
	if err := c.ShouldBindJSON(&line); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	out, err := h.svc.UpsertStatLine(c.Request.Context(), line)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *StatsHandler) upsertTeamLine(c *gin.Context) {
	var line model.TeamStatLine
	if err := c.ShouldBindJSON(&line); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	out, err := h.svc.UpsertTeamStatLine(c.Request.Context(), line)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}

func (h *StatsHandler) listByGame(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "game_id", Message: "must be a valid integer > 0"}}))
		return
	}
	lines, err := h.svc.ListStatsByGame(c.Request.Context(), gameID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, lines)
}

func (h *StatsHandler) fullStats(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "game_id", Message: "must be a valid integer > 0"}}))
		return
	}
	out, err := h.svc.GetGameFullStats(c.Request.Context(), gameID)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
