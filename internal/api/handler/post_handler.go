package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// PostHandler 帖子模块 HTTP 处理器
type PostHandler struct {
	postSvc service.PostService
}

// NewPostHandler 创建 PostHandler
func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

// CreatePost 发帖（multipart，可选 image）
// POST /api/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
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

	post, err := h.postSvc.Create(c.Request.Context(), &req, image, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, post)
}

// ListPosts 可见范围内的帖子，可按 post_type / reference_id 过滤
// GET /api/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	var req dto.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	list, err := h.postSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetPost GET /api/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	post, err := h.postSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, post)
}

// UpdatePost 修改帖子，上传新图片时替换旧图
// PUT /api/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
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

	post, err := h.postSvc.Update(c.Request.Context(), c.Param("id"), &req, image, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Post updated successfully", post)
}

// DeletePost DELETE /api/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.postSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Post deleted successfully", nil)
}

// ── 互动 ──

// LikePost 点赞/取消点赞
// POST /api/posts/:id/like
func (h *PostHandler) LikePost(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	result, err := h.postSvc.Like(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}

// CommentPost 评论，返回全部评论
// POST /api/posts/:id/comment
func (h *PostHandler) CommentPost(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	comments, err := h.postSvc.Comment(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, comments, len(comments))
}

// SharePost POST /api/posts/:id/share
func (h *PostHandler) SharePost(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	result, err := h.postSvc.Share(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, result)
}
