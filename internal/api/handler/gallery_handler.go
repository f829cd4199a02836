package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// PhotoHandler 相册 HTTP 处理器，读取公开
type PhotoHandler struct {
	photoSvc service.PhotoService
}

// NewPhotoHandler 创建 PhotoHandler
func NewPhotoHandler(photoSvc service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoSvc: photoSvc}
}

// CreatePhoto 上传照片（multipart，image 必填）
// POST /api/photo
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	var req dto.PhotoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	image, done, err := formFile(c, "image")
	if err != nil {
		bindFailed(c, err)
		return
	}
	defer done()

	photo, err := h.photoSvc.Create(c.Request.Context(), &req, image, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, photo)
}

// ListPhotos GET /api/photo
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	list, err := h.photoSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetPhoto GET /api/photo/:id
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	photo, err := h.photoSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, photo)
}

// UpdatePhoto PUT /api/photo/:id
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	var req dto.UpdatePhotoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	image, done, err := formFile(c, "image")
	if err != nil {
		bindFailed(c, err)
		return
	}
	defer done()

	photo, err := h.photoSvc.Update(c.Request.Context(), c.Param("id"), &req, image, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Photo updated successfully", photo)
}

// DeletePhoto DELETE /api/photo/:id
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.photoSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Photo deleted successfully", nil)
}

// LiveUpdateHandler 动态 HTTP 处理器
type LiveUpdateHandler struct {
	updateSvc service.LiveUpdateService
}

// NewLiveUpdateHandler 创建 LiveUpdateHandler
func NewLiveUpdateHandler(updateSvc service.LiveUpdateService) *LiveUpdateHandler {
	return &LiveUpdateHandler{updateSvc: updateSvc}
}

// CreateUpdate POST /api/updates
func (h *LiveUpdateHandler) CreateUpdate(c *gin.Context) {
	var req dto.LiveUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	update, err := h.updateSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, update)
}

// ListUpdates GET /api/updates
func (h *LiveUpdateHandler) ListUpdates(c *gin.Context) {
	list, err := h.updateSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetUpdate GET /api/updates/:id
func (h *LiveUpdateHandler) GetUpdate(c *gin.Context) {
	update, err := h.updateSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, update)
}

// UpdateUpdate PUT /api/updates/:id
func (h *LiveUpdateHandler) UpdateUpdate(c *gin.Context) {
	var req dto.UpdateLiveUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	update, err := h.updateSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Update edited successfully", update)
}

// DeleteUpdate DELETE /api/updates/:id
func (h *LiveUpdateHandler) DeleteUpdate(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.updateSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Update deleted successfully", nil)
}
