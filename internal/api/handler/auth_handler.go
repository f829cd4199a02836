package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/api/middleware"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册
// POST /api/users
// 匿名调用只能注册 student / alumni，带 superadmin 令牌可创建任意角色
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req, middleware.GetPrincipal(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, user)
}

// Login 用户登录
// POST /api/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, result.Message, result)
}

// Logout 登出，吊销当前令牌
// POST /api/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	exp, _ := c.Get(middleware.TokenExpKey)
	expiresAt, _ := exp.(time.Time)

	if err := h.authSvc.Logout(c.Request.Context(), c.GetString(middleware.TokenJTIKey), expiresAt); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Logged out successfully", nil)
}
