package handler

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/api/middleware"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser 获取当前用户信息
// GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetMe(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 用户列表，非 superadmin 只看本学院
// GET /api/users?role=
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	h.list(c, req.Role)
}

// ListUsersByRole 按角色列出用户
// GET /api/users/role/:role
func (h *UserHandler) ListUsersByRole(c *gin.Context) {
	h.list(c, c.Param("role"))
}

func (h *UserHandler) list(c *gin.Context, role string) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	result, err := h.userSvc.List(c.Request.Context(), role, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// GetUser 获取用户详情
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateUser 更新用户
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "User updated successfully", user)
}

// UpdateProfile 更新学生/校友档案
// PUT /api/users/:id/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Profile updated successfully", user)
}

// DeleteUser 删除用户
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "User deleted successfully", nil)
}

// ImportUsers Excel 批量导入学生/校友
// POST /api/users/import  (multipart: file, college_id)
func (h *UserHandler) ImportUsers(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.BodyTooLarge(c)
			return
		}
		response.BadRequest(c, "Please upload an Excel file in the file field")
		return
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".xlsx" {
		response.BadRequest(c, "Only .xlsx files are supported")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(f)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows, c.PostForm("college_id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportUsers 导出用户为 Excel
// GET /api/users/export?role=
func (h *UserHandler) ExportUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	buf, filename, err := h.userSvc.ExportUsers(c.Request.Context(), req.Role, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
