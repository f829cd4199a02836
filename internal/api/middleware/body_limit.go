package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（含上传图片）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		// Handler 记录了读取错误但尚未写响应
		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			if IsBodyTooLarge(err.Err) {
				BodyTooLarge(c)
				return
			}
		}
	}
}

// IsBodyTooLarge 错误是否由请求体超限引起
func IsBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// BodyTooLarge 413
func BodyTooLarge(c *gin.Context) {
	response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
	c.Abort()
}
