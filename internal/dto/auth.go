package dto

import "time"

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// 公开注册仅允许 student / alumni；admin / superadmin 需 superadmin 令牌
type RegisterRequest struct {
	Name       string          `json:"name"       binding:"required,min=2,max=100"`
	Email      string          `json:"email"      binding:"required,email,max=255"`
	Password   string          `json:"password"   binding:"required,min=8,max=72"`
	Role       string          `json:"role"       binding:"required,campus_role"`
	Department string          `json:"department" binding:"required,max=200"`
	CollegeID  string          `json:"college_id" binding:"omitempty,uuid"`
	Profile    *ProfileRequest `json:"profile"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Message    string       `json:"message"`
	Token      string       `json:"token"`
	ExpiresAt  time.Time    `json:"expires_at"`
	User       UserResponse `json:"user"`
	RedirectTo string       `json:"redirectTo"`
}
