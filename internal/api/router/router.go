package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/api/handler"
	"github.com/Zerds-Global/Alumini-interaction/internal/api/middleware"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
	"github.com/Zerds-Global/Alumini-interaction/pkg/storage"
)

// Deps 路由依赖
type Deps struct {
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Identity middleware.IdentityLoader
	// Denylist / Limiter 为 nil 表示 Redis 不可用
	Denylist middleware.TokenDenylist
	Limiter  middleware.RateChecker
	Enforcer *authz.Enforcer
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, d Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	h := d.Handler
	permit := func(obj, act string) gin.HandlerFunc { return middleware.Permit(d.Enforcer, obj, act) }

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders(cfg.Server.IsRelease()))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 / 上传文件 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(storage.PublicPrefix, cfg.Server.UploadDir)

	api := r.Group("/api")

	// ── 公开路由 ──
	api.POST("/users",
		middleware.OptionalJWTAuth(d.JWT, d.Identity, d.Denylist),
		h.Auth.Register)
	api.POST("/users/login",
		middleware.RateLimit(d.Limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow),
		h.Auth.Login)
	api.GET("/roles/list", h.Role.ListRoles)
	api.GET("/photo", h.Photo.ListPhotos)
	api.GET("/photo/:id", h.Photo.GetPhoto)
	api.GET("/updates", h.LiveUpdate.ListUpdates)
	api.GET("/updates/:id", h.LiveUpdate.GetUpdate)

	// ── 需要认证的路由 ──
	authorized := api.Group("")
	authorized.Use(middleware.JWTAuth(d.JWT, d.Identity, d.Denylist))
	{
		// 用户模块
		users := authorized.Group("/users")
		{
			users.POST("/logout", h.Auth.Logout)
			users.GET("/me", h.User.GetCurrentUser)
			users.GET("", permit("users", "list"), h.User.ListUsers)
			users.GET("/role/:role", permit("users", "list"), h.User.ListUsersByRole)
			users.POST("/import", permit("users", "import"), h.User.ImportUsers)
			users.GET("/export", permit("users", "export"), h.User.ExportUsers)
			users.GET("/:id", h.User.GetUser)                  // 本人 / 同学院 / superadmin（Service 层鉴权）
			users.PUT("/:id", h.User.UpdateUser)               // 本人 / 同学院 admin / superadmin
			users.PUT("/:id/profile", h.User.UpdateProfile)    // 同上
			users.DELETE("/:id", permit("users", "delete"), h.User.DeleteUser)
		}

		// 角色模块
		roles := authorized.Group("/roles")
		{
			roles.GET("/stats", permit("roles", "stats"), h.Role.Stats)
			roles.PUT("/change/:userId", permit("roles", "change"), h.Role.ChangeRole)
		}

		// 学院模块（仅 superadmin）
		colleges := authorized.Group("/colleges")
		colleges.Use(permit("colleges", "manage"))
		{
			colleges.POST("", h.College.CreateCollege)
			colleges.GET("", h.College.ListColleges)
			colleges.GET("/:id", h.College.GetCollege)
			colleges.PUT("/:id", h.College.UpdateCollege)
			colleges.DELETE("/:id", h.College.DeleteCollege)
		}

		// 届次模块
		batches := authorized.Group("/batches")
		{
			sameCollege := middleware.RequireSameCollegeOrSuper(h.Batch.ResolveCollege)

			batches.GET("", permit("batches", "read"), h.Batch.ListBatches)
			batches.GET("/calendar.ics", permit("batches", "read"), h.Batch.Calendar)
			batches.GET("/:id", permit("batches", "read"), h.Batch.GetBatch)
			batches.POST("", permit("batches", "write"), h.Batch.CreateBatch)
			batches.PUT("/:id", permit("batches", "write"), sameCollege, h.Batch.UpdateBatch)
			batches.DELETE("/:id", permit("batches", "write"), sameCollege, h.Batch.DeleteBatch)
		}

		// 招聘模块
		jobs := authorized.Group("/jobs")
		{
			jobs.POST("", permit("jobs", "create"), h.Job.CreateJob)
			jobs.GET("", permit("jobs", "read"), h.Job.ListJobs)
			jobs.GET("/:id", permit("jobs", "read"), h.Job.GetJob)
			jobs.PUT("/:id", h.Job.UpdateJob) // 所有者 / 同学院 admin / superadmin
			jobs.DELETE("/:id", h.Job.DeleteJob)
		}

		// 帖子模块
		posts := authorized.Group("/posts")
		{
			posts.POST("", permit("posts", "create"), h.Post.CreatePost)
			posts.GET("", permit("posts", "read"), h.Post.ListPosts)
			posts.GET("/:id", permit("posts", "read"), h.Post.GetPost)
			posts.PUT("/:id", h.Post.UpdatePost)
			posts.DELETE("/:id", h.Post.DeletePost)
			posts.POST("/:id/like", h.Post.LikePost) // 严格同学院（Service 层鉴权）
			posts.POST("/:id/comment", h.Post.CommentPost)
			posts.POST("/:id/share", h.Post.SharePost)
		}

		// 相册模块
		photos := authorized.Group("/photo")
		{
			photos.POST("", permit("photos", "create"), h.Photo.CreatePhoto)
			photos.PUT("/:id", permit("photos", "write"), h.Photo.UpdatePhoto)
			photos.DELETE("/:id", permit("photos", "write"), h.Photo.DeletePhoto)
		}

		// 动态模块
		updates := authorized.Group("/updates")
		{
			updates.POST("", permit("updates", "create"), h.LiveUpdate.CreateUpdate)
			updates.PUT("/:id", permit("updates", "write"), h.LiveUpdate.UpdateUpdate)
			updates.DELETE("/:id", permit("updates", "write"), h.LiveUpdate.DeleteUpdate)
		}

		// 反馈模块
		feedback := authorized.Group("/feedback")
		{
			feedback.POST("", permit("feedback", "create"), h.Feedback.CreateFeedback)
			feedback.GET("", permit("feedback", "read"), h.Feedback.ListFeedback)
			feedback.GET("/:id", h.Feedback.GetFeedback) // admin / superadmin / 提交者
			feedback.PUT("/:id", h.Feedback.UpdateFeedback)
			feedback.DELETE("/:id", h.Feedback.DeleteFeedback)
		}
	}

	return r
}
