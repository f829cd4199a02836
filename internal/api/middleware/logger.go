package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 探活与抓取指标的请求只在 debug 级别记录
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Logger 访问日志：5xx 记 Error，4xx 记 Warn，其余 Info
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := accessLevel(c.Request.URL.Path, status)
		ce := logger.Check(level, "http request")
		if ce == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := make([]zap.Field, 0, 10)
		fields = append(fields,
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
		if p := GetPrincipal(c); p != nil {
			fields = append(fields,
				zap.String("user_id", p.UserID),
				zap.String("role", p.Role),
				zap.String("college_id", p.CollegeID))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		ce.Write(fields...)
	}
}

func accessLevel(path string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	}
	if _, ok := quietPaths[path]; ok {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
