package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/internal/api/middleware"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// mustPrincipal 从 Gin 上下文中安全提取调用方。
// 认证中间件未注入时写入 401，调用方应在 ok=false 时直接 return。
func mustPrincipal(c *gin.Context) (*authz.Principal, bool) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		response.Unauthorized(c, authz.ErrUnauthenticated.Message)
		return nil, false
	}
	return p, true
}

// writeError 业务错误按类别响应；内部错误记入 c.Errors 由日志中间件输出
func writeError(c *gin.Context, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		_ = c.Error(err)
	}
	response.Fail(c, err)
}

// bindFailed 参数绑定失败
func bindFailed(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		middleware.BodyTooLarge(c)
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed", err.Error())
}

// formFile 读取 multipart 文件字段；未上传时返回 nil
// 返回的 close 必须调用
func formFile(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{Name: fh.Filename, Reader: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
