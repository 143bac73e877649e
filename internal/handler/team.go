package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		// Use a stable wildcard name (team_id) so nested routes (e.g. players) can reuse it without Gin conflicts.
		g.GET("/:team_id", h.getByID)
		g.GET("", h.list)
	}
}

type createTeamRequest struct {
	Name string `json:"name"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("team_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	team, err := h.svc.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.ListTeams(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
