package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

// 业务错误码
const (
	CodeOK           = 0
	CodeValidation   = 10001
	CodeUnauthorized = 10002
	CodeForbidden    = 10003
	CodeRateLimited  = 10004
	CodeBodyTooLarge = 10005
	CodeNotFound     = 10006
	CodeConflict     = 10007
	CodeInternal     = 50000
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListData 列表响应数据
type ListData struct {
	Count int         `json:"count"`
	List  interface{} `json:"list"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// OKMessage 200 带自定义消息
func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeOK,
		Message: "created",
		Data:    data,
	})
}

// OKList 200 列表
func OKList(c *gin.Context, list interface{}, count int) {
	OK(c, ListData{Count: count, List: list})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Error:   details,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidation, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, CodeConflict, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
}

// ── 业务错误映射 ──

// Fail 按错误类别写入响应；内部错误只返回通用消息
func Fail(c *gin.Context, err error) {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		InternalError(c)
		return
	}
	var e *apperrors.Error
	if errors.As(err, &e) {
		Error(c, status, code, e.Message)
		return
	}
	Error(c, status, code, err.Error())
}

// StatusOf 错误类别对应的 HTTP 状态码与业务码
func StatusOf(err error) (int, int) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest, CodeValidation
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized, CodeUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden, CodeForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case apperrors.KindConflict:
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
