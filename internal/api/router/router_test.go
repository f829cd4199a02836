package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/api/handler"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticIdentity map[string]*authz.Principal

func (s staticIdentity) LoadPrincipal(_ context.Context, userID string) (*authz.Principal, error) {
	if p, ok := s[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var identities = staticIdentity{
	"student": {UserID: "student", Role: model.RoleStudent, CollegeID: "c-a"},
	"alumni":  {UserID: "alumni", Role: model.RoleAlumni, CollegeID: "c-a"},
	"admin":   {UserID: "admin", Role: model.RoleAdmin, CollegeID: "c-a"},
}

// newEngine 服务层为空：只验证在进入 Handler 之前就被拦截的请求
func newEngine(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug", UploadDir: t.TempDir(), MaxBodyBytes: 1 << 20},
		Auth: config.AuthConfig{
			JWTSecret:       "router-test-secret-2026",
			TokenTTL:        time.Hour,
			LoginRateLimit:  100,
			LoginRateWindow: time.Minute,
		},
	}
	enf, err := authz.NewEnforcer()
	require.NoError(t, err)

	mgr := jwt.NewManager(&cfg.Auth)
	engine := Setup(cfg, Deps{
		Handler:  handler.NewHandler(&service.Service{}),
		JWT:      mgr,
		Identity: identities,
		Enforcer: enf,
	}, zap.NewNop())
	return engine, mgr
}

func call(t *testing.T, r *gin.Engine, mgr *jwt.Manager, method, path, as string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if as != "" {
		p := identities[as]
		token, _, err := mgr.Issue(p.UserID, p.Role, p.CollegeID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r, mgr := newEngine(t)

	w := call(t, r, mgr, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = call(t, r, mgr, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, mgr := newEngine(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/users/logout"},
		{http.MethodGet, "/api/roles/stats"},
		{http.MethodGet, "/api/colleges"},
		{http.MethodGet, "/api/batches"},
		{http.MethodGet, "/api/batches/calendar.ics"},
		{http.MethodPost, "/api/jobs"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts/p-1/like"},
		{http.MethodPost, "/api/photo"},
		{http.MethodDelete, "/api/updates/u-1"},
		{http.MethodGet, "/api/feedback"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := call(t, r, mgr, rt.method, rt.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoleGuards(t *testing.T) {
	r, mgr := newEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		as     string
	}{
		{"学生不能列出用户", http.MethodGet, "/api/users", "student"},
		{"校友不能删除用户", http.MethodDelete, "/api/users/x", "alumni"},
		{"admin 不能修改角色", http.MethodPut, "/api/roles/change/x", "admin"},
		{"admin 不能管理学院", http.MethodGet, "/api/colleges", "admin"},
		{"学生不能创建届次", http.MethodPost, "/api/batches", "student"},
		{"学生不能发帖", http.MethodPost, "/api/posts", "student"},
		{"admin 不能发帖", http.MethodPost, "/api/posts", "admin"},
		{"学生不能上传照片", http.MethodPost, "/api/photo", "student"},
		{"校友不能修改照片", http.MethodPut, "/api/photo/x", "alumni"},
		{"学生不能发布动态", http.MethodPost, "/api/updates", "student"},
		{"校友不能查看反馈列表", http.MethodGet, "/api/feedback", "alumni"},
		{"学生不能导入用户", http.MethodPost, "/api/users/import", "student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, r, mgr, tt.method, tt.path, tt.as)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestUnknownUserRejected(t *testing.T) {
	r, mgr := newEngine(t)

	token, _, err := mgr.Issue("deleted-user", model.RoleSuperAdmin, "")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/colleges", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
