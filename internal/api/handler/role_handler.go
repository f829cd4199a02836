package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// RoleHandler 角色模块 HTTP 处理器
type RoleHandler struct {
	roleSvc service.RoleService
}

// NewRoleHandler 创建 RoleHandler
func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// ListRoles GET /api/roles/list
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles := h.roleSvc.List()
	response.OKList(c, roles, len(roles))
}

// Stats GET /api/roles/stats
func (h *RoleHandler) Stats(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.roleSvc.Stats(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, stats)
}

// ChangeRole 修改用户角色
// PUT /api/roles/change/:userId
func (h *RoleHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	msg, user, err := h.roleSvc.Change(c.Request.Context(), c.Param("userId"), req.Role, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, msg, user)
}
