package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// 上下文键
const (
	TokenJTIKey = "token_jti"
	TokenExpKey = "token_exp"
)

const (
	msgMissingToken = "Unauthorized: missing token"
	msgInvalidToken = "Unauthorized: invalid or expired token"
	msgUserNotFound = "Unauthorized: user not found"
)

// IdentityLoader 按令牌 sub 加载库中身份
type IdentityLoader interface {
	LoadPrincipal(ctx context.Context, userID string) (*authz.Principal, error)
}

// TokenDenylist 已吊销令牌查询，由 Redis 实现
type TokenDenylist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证令牌，按 sub 加载身份写入上下文
// denylist 为 nil 时不检查吊销
func JWTAuth(jwtMgr *jwt.Manager, loader IdentityLoader, denylist TokenDenylist) gin.HandlerFunc {
	return authenticate(jwtMgr, loader, denylist, false)
}

// OptionalJWTAuth 有令牌时同 JWTAuth，无令牌时匿名放行
func OptionalJWTAuth(jwtMgr *jwt.Manager, loader IdentityLoader, denylist TokenDenylist) gin.HandlerFunc {
	return authenticate(jwtMgr, loader, denylist, true)
}

func authenticate(jwtMgr *jwt.Manager, loader IdentityLoader, denylist TokenDenylist, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			if optional && c.GetHeader("Authorization") == "" {
				c.Next()
				return
			}
			reject(c, msgMissingToken)
			return
		}

		claims, err := jwtMgr.Verify(token)
		if err != nil {
			reject(c, msgInvalidToken)
			return
		}

		// Redis 出错时降级放行
		if denylist != nil && claims.ID != "" {
			if revoked, err := denylist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				reject(c, msgInvalidToken)
				return
			}
		}

		principal, err := loader.LoadPrincipal(c.Request.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || apperrors.Is(err, apperrors.KindNotFound) {
				reject(c, msgUserNotFound)
				return
			}
			_ = c.Error(err)
			response.InternalError(c)
			c.Abort()
			return
		}

		c.Set(authz.ContextKey, principal)
		c.Set(TokenJTIKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpKey, claims.ExpiresAt.Time)
		} else {
			c.Set(TokenExpKey, time.Time{})
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func reject(c *gin.Context, msg string) {
	metrics.RecordDenied("authn", "")
	response.Unauthorized(c, msg)
	c.Abort()
}

// GetPrincipal 读取认证中间件写入的调用方，未认证返回 nil
func GetPrincipal(c *gin.Context) *authz.Principal {
	v, exists := c.Get(authz.ContextKey)
	if !exists {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	denied := authz.RequiresRoles(allowedRoles...)
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			metrics.RecordDenied("authn", "")
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		if p.HasRole(allowedRoles...) {
			c.Next()
			return
		}

		metrics.RecordDenied("role", p.Role)
		response.Forbidden(c, denied.Message)
		c.Abort()
	}
}

// Permit 从策略表解析 object/action 的角色白名单，交给 RoleAuth
func Permit(enf *authz.Enforcer, object, action string) gin.HandlerFunc {
	return RoleAuth(enf.AllowedRoles(object, action)...)
}

// CollegeResolver 解析路由目标对象所属学院
type CollegeResolver func(c *gin.Context) (string, error)

// RequireSameCollegeOrSuper 目标对象与调用方同学院，或调用方为 superadmin
func RequireSameCollegeOrSuper(resolve CollegeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			metrics.RecordDenied("authn", "")
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		collegeID, err := resolve(c)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.NotFound(c, "Not found")
			} else {
				if apperrors.KindOf(err) == apperrors.KindInternal {
					_ = c.Error(err)
				}
				response.Fail(c, err)
			}
			c.Abort()
			return
		}

		if err := authz.RequireSameCollegeOrSuper(p, collegeID); err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
