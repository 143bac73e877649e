package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/service"
	"github.com/courtside/club-stats-service/pkg/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/auth")
	{
		g.POST("/register", h.register)
		g.POST("/login", h.login)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"token": token})
}
