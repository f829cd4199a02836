package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperrors.Unauthorized("Invalid email or password")
	ErrEmailExists        = apperrors.Conflict("User already exists with this email.")
	ErrCollegeRequired    = apperrors.Validation("College is required.")
	ErrCollegeNotFound    = apperrors.NotFound("College not found")
	ErrPrivilegedRole     = apperrors.Forbidden("Forbidden: only a superadmin may create admin or superadmin accounts")
)

// TokenRevoker 令牌吊销名单（Redis 不可用时为 nil）
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, caller *authz.Principal) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	LoadPrincipal(ctx context.Context, userID string) (*authz.Principal, error)
}

type authService struct {
	cfg     *config.Config
	repo    *repository.Repository
	jwtMgr  *jwt.Manager
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	revoker TokenRevoker,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:     cfg,
		repo:    repo,
		jwtMgr:  jwtMgr,
		revoker: revoker,
		logger:  logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, caller *authz.Principal) (*dto.UserResponse, error) {
	privileged := req.Role == model.RoleAdmin || req.Role == model.RoleSuperAdmin
	if privileged && !caller.IsSuperAdmin() {
		return nil, ErrPrivilegedRole
	}

	email := normalizeEmail(req.Email)
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	// superadmin 不属于任何学院，其余角色必须指定存在的学院
	var college *model.College
	if req.Role != model.RoleSuperAdmin {
		if req.CollegeID == "" {
			return nil, ErrCollegeRequired
		}
		c, err := s.repo.College.GetByID(ctx, req.CollegeID)
		if err != nil {
			return nil, notFound(err, ErrCollegeNotFound)
		}
		college = c
	}

	hash, err := hashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		Department:   req.Department,
	}
	if college != nil {
		user.CollegeID = &college.CollegeID
	}
	if caller != nil {
		user.CreatedBy = &caller.UserID
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		if !user.HasProfile() {
			return nil
		}
		profile := &model.Profile{UserID: user.UserID}
		if college != nil {
			profile.College = college.Name
		}
		if err := applyProfile(profile, req.Profile); err != nil {
			return err
		}
		user.Profile = profile
		return tx.Profile.Upsert(ctx, profile)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		if apperrors.Is(err, apperrors.KindValidation) {
			return nil, err
		}
		s.logger.Error("注册用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	user.College = college
	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID), zap.String("role", user.Role))

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

var welcomeMessages = map[string]string{
	model.RoleSuperAdmin: "Welcome back, Super Admin!",
	model.RoleAdmin:      "Welcome back, College Admin!",
	model.RoleAlumni:     "Welcome back to your alumni network!",
	model.RoleStudent:    "Welcome back, Student!",
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtMgr.Issue(user.UserID, user.Role, model.StrVal(user.CollegeID))
	if err != nil {
		s.logger.Error("签发令牌失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Message:    welcomeMessages[user.Role],
		Token:      token,
		ExpiresAt:  expiresAt,
		User:       toUserResponse(user),
		RedirectTo: "/" + user.Role + "/dash",
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 吊销当前令牌；未配置 Redis 时令牌只能自然过期
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil || jti == "" {
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("吊销令牌失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Identity ──────────────────────

// LoadPrincipal 每次请求从库中重新加载身份，令牌内的角色与学院仅作参考
func (s *authService) LoadPrincipal(ctx context.Context, userID string) (*authz.Principal, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("加载身份失败", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, notFound(err, ErrUserNotFound)
	}
	return &authz.Principal{
		UserID:    user.UserID,
		Role:      user.Role,
		CollegeID: model.StrVal(user.CollegeID),
		Name:      user.Name,
		Email:     user.Email,
	}, nil
}
