package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试替身 ──

type fakeLoader struct {
	principals map[string]*authz.Principal
	err        error
}

func (f *fakeLoader) LoadPrincipal(_ context.Context, userID string) (*authz.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.principals[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeDenylist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeDenylist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "middleware-test-secret-2026",
		TokenTTL:  time.Hour,
		Issuer:    "alumni-test",
	})
}

var (
	adminA = &authz.Principal{UserID: "u-admin", Role: model.RoleAdmin, CollegeID: "c-a"}
	super  = &authz.Principal{UserID: "u-super", Role: model.RoleSuperAdmin}
)

func newLoader() *fakeLoader {
	return &fakeLoader{principals: map[string]*authz.Principal{
		adminA.UserID: adminA,
		super.UserID:  super,
	}}
}

func issue(t *testing.T, mgr *jwt.Manager, p *authz.Principal) (string, string) {
	t.Helper()
	token, _, err := mgr.Issue(p.UserID, p.Role, p.CollegeID)
	require.NoError(t, err)
	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	return token, claims.ID
}

func do(r *gin.Engine, method, path, token string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func whoami(c *gin.Context) {
	p := GetPrincipal(c)
	if p == nil {
		response.OK(c, gin.H{"anonymous": true})
		return
	}
	response.OK(c, gin.H{"user_id": p.UserID, "jti": c.GetString(TokenJTIKey)})
}

// ═══════════════════════════════════════════════════════════
// JWTAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth(t *testing.T) {
	mgr := newManager()
	deny := &fakeDenylist{revoked: map[string]bool{}}
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, newLoader(), deny), whoami)

	t.Run("缺少令牌", func(t *testing.T) {
		w, resp := do(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, msgMissingToken, resp.Message)
	})

	t.Run("非 Bearer 方案", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("伪造令牌", func(t *testing.T) {
		w, resp := do(r, http.MethodGet, "/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, msgInvalidToken, resp.Message)
	})

	t.Run("其他密钥签发", func(t *testing.T) {
		other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret", TokenTTL: time.Hour})
		token, _ := issue(t, other, adminA)
		w, _ := do(r, http.MethodGet, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("有效令牌", func(t *testing.T) {
		token, jti := issue(t, mgr, adminA)
		w, resp := do(r, http.MethodGet, "/me", token)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, adminA.UserID, data["user_id"])
		assert.Equal(t, jti, data["jti"])
	})

	t.Run("已吊销", func(t *testing.T) {
		token, jti := issue(t, mgr, adminA)
		deny.revoked[jti] = true
		w, resp := do(r, http.MethodGet, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, msgInvalidToken, resp.Message)
	})

	t.Run("用户已删除", func(t *testing.T) {
		ghost := &authz.Principal{UserID: "u-ghost", Role: model.RoleStudent, CollegeID: "c-a"}
		token, _ := issue(t, mgr, ghost)
		w, resp := do(r, http.MethodGet, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, msgUserNotFound, resp.Message)
	})
}

func TestJWTAuth_DenylistErrorDegrades(t *testing.T) {
	mgr := newManager()
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, newLoader(), &fakeDenylist{err: errors.New("redis down")}), whoami)

	token, _ := issue(t, mgr, adminA)
	w, _ := do(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_LoaderFailure(t *testing.T) {
	mgr := newManager()
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, &fakeLoader{err: errors.New("db down")}, nil), whoami)

	token, _ := issue(t, mgr, adminA)
	w, resp := do(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, response.CodeInternal, resp.Code)
}

// 库中身份优先于令牌中的角色
func TestJWTAuth_UsesStoredIdentity(t *testing.T) {
	mgr := newManager()
	r := gin.New()
	r.GET("/admin", JWTAuth(mgr, newLoader(), nil), RoleAuth(model.RoleSuperAdmin), whoami)

	forged, _, err := mgr.Issue(adminA.UserID, model.RoleSuperAdmin, "")
	require.NoError(t, err)
	w, _ := do(r, http.MethodGet, "/admin", forged)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	mgr := newManager()
	r := gin.New()
	r.GET("/opt", OptionalJWTAuth(mgr, newLoader(), nil), whoami)

	w, resp := do(r, http.MethodGet, "/opt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp.Data.(map[string]any)["anonymous"])

	token, _ := issue(t, mgr, super)
	w, resp = do(r, http.MethodGet, "/opt", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, super.UserID, resp.Data.(map[string]any)["user_id"])

	w, _ = do(r, http.MethodGet, "/opt", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ═══════════════════════════════════════════════════════════
// RoleAuth / Permit
// ═══════════════════════════════════════════════════════════

func withPrincipal(p *authz.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(authz.ContextKey, p)
		}
		c.Next()
	}
}

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		name      string
		principal *authz.Principal
		wantCode  int
		wantMsg   string
	}{
		{"未认证", nil, http.StatusUnauthorized, "Unauthorized"},
		{"角色不符", &authz.Principal{UserID: "s", Role: model.RoleStudent}, http.StatusForbidden, "Forbidden: requires admin or superadmin"},
		{"admin 通过", adminA, http.StatusOK, ""},
		{"superadmin 通过", super, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withPrincipal(tt.principal), RoleAuth(model.RoleAdmin, model.RoleSuperAdmin), whoami)
			w, resp := do(r, http.MethodGet, "/x", "")
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestPermit(t *testing.T) {
	enf, err := authz.NewEnforcer()
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/roles/:id", func(c *gin.Context) {
		c.Set(authz.ContextKey, &authz.Principal{UserID: "x", Role: c.Query("as")})
		c.Next()
	}, Permit(enf, "roles", "change"), whoami)

	w, resp := do(r, http.MethodPut, "/roles/1?as=admin", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: requires superadmin", resp.Message)

	w, _ = do(r, http.MethodPut, "/roles/1?as=superadmin", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// ═══════════════════════════════════════════════════════════
// RequireSameCollegeOrSuper
// ═══════════════════════════════════════════════════════════

func TestRequireSameCollegeOrSuper(t *testing.T) {
	colleges := map[string]string{"b-1": "c-a", "b-2": "c-b"}
	resolve := func(c *gin.Context) (string, error) {
		id, ok := colleges[c.Param("id")]
		if !ok {
			return "", gorm.ErrRecordNotFound
		}
		return id, nil
	}

	tests := []struct {
		name      string
		principal *authz.Principal
		batchID   string
		wantCode  int
	}{
		{"同学院", adminA, "b-1", http.StatusOK},
		{"跨学院", adminA, "b-2", http.StatusForbidden},
		{"superadmin 跨学院", super, "b-2", http.StatusOK},
		{"目标不存在", adminA, "b-9", http.StatusNotFound},
		{"未认证", nil, "b-1", http.StatusUnauthorized},
		{"调用方无学院", &authz.Principal{UserID: "x", Role: model.RoleAdmin}, "b-1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.DELETE("/batches/:id", withPrincipal(tt.principal), RequireSameCollegeOrSuper(resolve), whoami)
			w, _ := do(r, http.MethodDelete, "/batches/"+tt.batchID, "")
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

type fakeChecker struct {
	calls int
	limit int
	err   error
}

func (f *fakeChecker) CheckRateLimit(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	f.calls++
	f.limit = limit
	if f.err != nil {
		return false, f.err
	}
	return f.calls <= limit, nil
}

func TestRateLimit_Redis(t *testing.T) {
	checker := &fakeChecker{}
	r := gin.New()
	r.POST("/login", RateLimit(checker, 2, time.Minute), whoami)

	for i := 0; i < 2; i++ {
		w, _ := do(r, http.MethodPost, "/login", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, resp := do(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.CodeRateLimited, resp.Code)
	assert.Equal(t, 2, checker.limit)
}

func TestRateLimit_LocalFallback(t *testing.T) {
	for _, checker := range []RateChecker{nil, &fakeChecker{err: errors.New("redis down")}} {
		r := gin.New()
		r.POST("/login", RateLimit(checker, 3, time.Minute), whoami)

		codes := make([]int, 0, 4)
		for i := 0; i < 4; i++ {
			w, _ := do(r, http.MethodPost, "/login", "")
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{200, 200, 200, 429}, codes)
	}
}
