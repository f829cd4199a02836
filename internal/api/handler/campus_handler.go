package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// ════════════════════════ 学院 ════════════════════════

// CollegeHandler 学院模块 HTTP 处理器（仅 superadmin）
type CollegeHandler struct {
	collegeSvc service.CollegeService
}

// NewCollegeHandler 创建 CollegeHandler
func NewCollegeHandler(collegeSvc service.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeSvc: collegeSvc}
}

// CreateCollege 创建学院，可同时创建学院管理员
// POST /api/colleges
func (h *CollegeHandler) CreateCollege(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	college, err := h.collegeSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, college)
}

// ListColleges GET /api/colleges
func (h *CollegeHandler) ListColleges(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	list, err := h.collegeSvc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetCollege GET /api/colleges/:id
func (h *CollegeHandler) GetCollege(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	college, err := h.collegeSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, college)
}

// UpdateCollege PUT /api/colleges/:id
func (h *CollegeHandler) UpdateCollege(c *gin.Context) {
	var req dto.UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	college, err := h.collegeSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "College updated successfully", college)
}

// DeleteCollege 删除学院及其管理员
// DELETE /api/colleges/:id
func (h *CollegeHandler) DeleteCollege(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.collegeSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "College deleted successfully", nil)
}

// ════════════════════════ 届次 ════════════════════════

// BatchHandler 届次模块 HTTP 处理器
type BatchHandler struct {
	batchSvc service.BatchService
}

// NewBatchHandler 创建 BatchHandler
func NewBatchHandler(batchSvc service.BatchService) *BatchHandler {
	return &BatchHandler{batchSvc: batchSvc}
}

// ResolveCollege 路由参数 :id 对应届次的学院，供范围校验中间件使用
func (h *BatchHandler) ResolveCollege(c *gin.Context) (string, error) {
	return h.batchSvc.CollegeOf(c.Request.Context(), c.Param("id"))
}

// CreateBatch 创建届次；admin 的 college_id 强制为本学院
// POST /api/batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	batch, err := h.batchSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, batch)
}

// ListBatches GET /api/batches
func (h *BatchHandler) ListBatches(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	list, err := h.batchSvc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetBatch GET /api/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	batch, err := h.batchSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, batch)
}

// UpdateBatch PUT /api/batches/:id
func (h *BatchHandler) UpdateBatch(c *gin.Context) {
	var req dto.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	batch, err := h.batchSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Batch updated successfully", batch)
}

// DeleteBatch DELETE /api/batches/:id
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.batchSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Batch deleted successfully", nil)
}

// Calendar 导出可见届次为 iCalendar
// GET /api/batches/calendar.ics
func (h *BatchHandler) Calendar(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	body, err := h.batchSvc.Calendar(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="batches.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// ════════════════════════ 招聘 ════════════════════════

// JobHandler 招聘信息 HTTP 处理器
type JobHandler struct {
	jobSvc service.JobService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// CreateJob POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, job)
}

// ListJobs 本学院与全局招聘
// GET /api/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	list, err := h.jobSvc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetJob GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, job)
}

// UpdateJob PUT /api/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Job updated successfully", job)
}

// DeleteJob DELETE /api/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.jobSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Job deleted successfully", nil)
}

// ════════════════════════ 反馈 ════════════════════════

// FeedbackHandler 反馈 HTTP 处理器
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler 创建 FeedbackHandler
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// CreateFeedback POST /api/feedback
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	fb, err := h.feedbackSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, fb)
}

// ListFeedback GET /api/feedback
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	list, err := h.feedbackSvc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetFeedback GET /api/feedback/:id
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	fb, err := h.feedbackSvc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, fb)
}

// UpdateFeedback PUT /api/feedback/:id
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	fb, err := h.feedbackSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Feedback updated successfully", fb)
}

// DeleteFeedback DELETE /api/feedback/:id
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.feedbackSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		writeError(c, err)
		return
	}

	response.OKMessage(c, "Feedback deleted successfully", nil)
}
