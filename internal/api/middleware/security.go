package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const uploadsCSP = "default-src 'none'; img-src 'self'; frame-ancestors 'none'"

// SecurityHeaders 安全响应头
// API 响应禁止缓存（含令牌与个人资料）；上传图片允许浏览器缓存
// hsts 为 true 时附加 Strict-Transport-Security，仅 release 模式开启
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", uploadsCSP)
		h.Set("Cross-Origin-Resource-Policy", "same-site")

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
