package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
)

// SeedService 初始化数据
type SeedService interface {
	// EnsureSuperAdmin 配置的超级管理员不存在时创建，返回是否新建
	EnsureSuperAdmin(ctx context.Context) (bool, error)
}

type seedService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SeedService {
	return &seedService{cfg: cfg, repo: repo, logger: logger}
}

func (s *seedService) EnsureSuperAdmin(ctx context.Context) (bool, error) {
	seed := s.cfg.Seed
	if seed.SuperAdminEmail == "" || seed.SuperAdminPassword == "" {
		s.logger.Info("未配置超级管理员种子账号，跳过")
		return false, nil
	}

	email := normalizeEmail(seed.SuperAdminEmail)
	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleSuperAdmin {
			s.logger.Warn("种子邮箱已被非超级管理员账号占用", zap.String("email", email), zap.String("role", existing.Role))
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := hashPassword(seed.SuperAdminPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return false, err
	}

	name := seed.SuperAdminName
	if name == "" {
		name = "Super Admin"
	}
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
		Department:   seed.Department,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("超级管理员已创建", zap.String("email", email))
	return true, nil
}
