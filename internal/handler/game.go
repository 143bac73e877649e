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

type GameHandler struct {
	svc service.GameService
}

func NewGameHandler(svc service.GameService) *GameHandler { return &GameHandler{svc: svc} }

func (h *GameHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games")
	{
		g.POST("", h.create)
		g.GET("/:game_id", h.getByID)
		g.GET("", h.list)
	}
}

type createGameRequest struct {
	TeamID   int64  `json:"team_id"`
	Season   string `json:"season"`
	Date     string `json:"date"` // YYYY-MM-DD
	Opponent string `json:"opponent"`
	HomeAway string `json:"home_away"`
	Status   string `json:"status"`
}

func (h *GameHandler) create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "date", Message: "must be a date in YYYY-MM-DD format"}}))
		return
	}
	game, err := h.svc.CreateGame(c.Request.Context(), model.Game{
		TeamID:   req.TeamID,
		Season:   req.Season,
		Date:     date,
		Opponent: req.Opponent,
		HomeAway: req.HomeAway,
		Status:   req.Status,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, game)
}

func (h *GameHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	game, err := h.svc.GetGame(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, game)
}

func (h *GameHandler) list(c *gin.Context) {
	f := repository.GameListFilter{
		Season:   c.Query("season"),
		HomeAway: c.Query("home_away"),
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	res, err := h.svc.ListGames(c.Request.Context(), f, repository.Page{Limit: limit, Offset: offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
