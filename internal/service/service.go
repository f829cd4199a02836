package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
	"github.com/Zerds-Global/Alumini-interaction/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Role       RoleService
	College    CollegeService
	Batch      BatchService
	Job        JobService
	Post       PostService
	Photo      PhotoService
	LiveUpdate LiveUpdateService
	Feedback   FeedbackService
	Seed       SeedService
	Graduation GraduationService
}

// NewService 创建 Service 聚合
// revoker 为 nil 时登出不吊销令牌
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	store storage.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, revoker, logger),
		User:       NewUserService(cfg, repo, logger),
		Role:       NewRoleService(repo, logger),
		College:    NewCollegeService(cfg, repo, logger),
		Batch:      NewBatchService(repo, logger),
		Job:        NewJobService(repo, logger),
		Post:       NewPostService(repo, store, logger),
		Photo:      NewPhotoService(repo, store, logger),
		LiveUpdate: NewLiveUpdateService(repo, logger),
		Feedback:   NewFeedbackService(repo, logger),
		Seed:       NewSeedService(cfg, repo, logger),
		Graduation: NewGraduationService(repo, logger),
	}
}

// Upload 请求中携带的图片
type Upload struct {
	Name   string
	Reader io.Reader
}

var (
	ErrImageRequired    = apperrors.Validation("image file is required")
	ErrUnsupportedImage = apperrors.Validation("Only jpg, jpeg, png, gif and webp images are allowed")
	ErrImageTooLarge    = apperrors.Validation("Image exceeds the upload size limit")
)

// saveUpload 保存图片，upload 为 nil 时返回空路径
func saveUpload(ctx context.Context, store storage.Store, upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := store.Save(ctx, upload.Reader, upload.Name)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", ErrUnsupportedImage
	case errors.Is(err, storage.ErrTooLarge):
		return "", ErrImageTooLarge
	}
	return path, err
}

// removeUpload 删除旧图片，失败只记录日志
func removeUpload(ctx context.Context, store storage.Store, path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	if err := store.Remove(ctx, path); err != nil {
		logger.Warn("删除上传文件失败", zap.String("path", path), zap.Error(err))
	}
}
