package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// AuthHandler authentication endpoints
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, pair)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		h.auth.Logout(c.Request.Context(), req.RefreshToken)
	}
	Success(c, nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, user)
}
