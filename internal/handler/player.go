package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("/:player_id", h.getByID)
		g.GET("", h.list)
	}
	r.GET("/teams/:team_id/players", h.listByTeam)
}

type createPlayerRequest struct {
	TeamID       int64  `json:"team_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	JerseyNumber int    `json:"jersey_number"`
	HeightCm     int    `json:"height_cm"`
	WeightKg     int    `json:"weight_kg"`
	BirthDate    string `json:"birth_date"` // YYYY-MM-DD
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "birth_date", Message: "must be a date in YYYY-MM-DD format"}}))
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), model.Player{
		TeamID:       req.TeamID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		JerseyNumber: req.JerseyNumber,
		HeightCm:     req.HeightCm,
		WeightKg:     req.WeightKg,
		BirthDate:    birthDate,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("player_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	player, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	heightMin, _ := strconv.Atoi(c.Query("height_min"))
	heightMax, _ := strconv.Atoi(c.Query("height_max"))
	sortBy := c.Query("sort")
	desc := strings.HasPrefix(sortBy, "-")
	sortBy = strings.TrimPrefix(sortBy, "-")

	f := repository.PlayerListFilter{
		Position:  c.Query("position"),
		HeightMin: heightMin,
		HeightMax: heightMax,
		SortBy:    sortBy,
		SortDesc:  desc,
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	res, err := h.svc.ListPlayers(c.Request.Context(), f, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *PlayerHandler) listByTeam(c *gin.Context) {
	teamID, err := strconv.ParseInt(c.Param("team_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "team_id", Message: "must be a valid integer"}}))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListPlayersByTeam(c.Request.Context(), teamID, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
