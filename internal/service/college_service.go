package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

var (
	ErrCollegeExists     = apperrors.Conflict("College already exists with this name.")
	ErrAdminEmailExists  = apperrors.Conflict("Admin user already exists with this email.")
	ErrCollegeHasMembers = apperrors.Conflict("College still has members; remove them before deleting the college")
)

// CollegeService 学院（租户）管理，仅 superadmin 可用
type CollegeService interface {
	Create(ctx context.Context, req *dto.CreateCollegeRequest, caller *authz.Principal) (*dto.CollegeResponse, error)
	List(ctx context.Context, caller *authz.Principal) ([]dto.CollegeResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.CollegeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, caller *authz.Principal) (*dto.CollegeResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
}

type collegeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCollegeService 创建 CollegeService 实例
func NewCollegeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CollegeService {
	return &collegeService{cfg: cfg, repo: repo, logger: logger}
}

func requireSuperAdmin(caller *authz.Principal) error {
	if caller == nil {
		return authz.ErrUnauthenticated
	}
	if !caller.IsSuperAdmin() {
		return authz.RequiresRoles(model.RoleSuperAdmin)
	}
	return nil
}

// ────────────────────── Create ──────────────────────

// Create 在同一事务中创建学院及其管理员，任一步失败整体回滚
func (s *collegeService) Create(ctx context.Context, req *dto.CreateCollegeRequest, caller *authz.Principal) (*dto.CollegeResponse, error) {
	if err := requireSuperAdmin(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.CollegeName)
	if _, err := s.repo.College.GetByName(ctx, name); err == nil {
		return nil, ErrCollegeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	adminEmail := normalizeEmail(req.AdminEmail)
	if _, err := s.repo.User.GetByEmail(ctx, adminEmail); err == nil {
		return nil, ErrAdminEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.AdminPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	college := &model.College{
		Name:      name,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Phone:     req.Phone,
		Email:     req.Email,
		Website:   req.Website,
		BaseModel: model.BaseModel{CreatedBy: &caller.UserID},
	}
	admin := &model.User{
		Name:         req.AdminName,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Department:   name,
		BaseModel:    model.BaseModel{CreatedBy: &caller.UserID},
	}

	// 预检之后仍可能并发冲突，按写入的表区分学院重名与管理员邮箱重复
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.College.Create(ctx, college); err != nil {
			if isDuplicate(err) {
				return ErrCollegeExists
			}
			return err
		}
		admin.CollegeID = model.StrPtr(college.CollegeID)
		if err := tx.User.Create(ctx, admin); err != nil {
			if isDuplicate(err) {
				return ErrAdminEmailExists
			}
			return err
		}
		college.AdminID = model.StrPtr(admin.UserID)
		return tx.College.Update(ctx, college)
	})
	if err != nil {
		if errors.Is(err, ErrCollegeExists) || errors.Is(err, ErrAdminEmailExists) {
			return nil, err
		}
		s.logger.Error("创建学院失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学院及管理员创建成功",
		zap.String("college_id", college.CollegeID),
		zap.String("admin_id", admin.UserID),
	)
	resp := toCollegeResponse(college, admin)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *collegeService) List(ctx context.Context, caller *authz.Principal) ([]dto.CollegeResponse, error) {
	if err := requireSuperAdmin(caller); err != nil {
		return nil, err
	}

	colleges, err := s.repo.College.List(ctx)
	if err != nil {
		s.logger.Error("查询学院列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.CollegeResponse, 0, len(colleges))
	for i := range colleges {
		list = append(list, toCollegeResponse(&colleges[i], s.admin(ctx, &colleges[i])))
	}
	return list, nil
}

func (s *collegeService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.CollegeResponse, error) {
	if err := requireSuperAdmin(caller); err != nil {
		return nil, err
	}
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}
	resp := toCollegeResponse(college, s.admin(ctx, college))
	return &resp, nil
}

// admin 学院管理员，查询失败时返回 nil
func (s *collegeService) admin(ctx context.Context, c *model.College) *model.User {
	if c.AdminID == nil {
		return nil
	}
	u, err := s.repo.User.GetByID(ctx, *c.AdminID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询学院管理员失败", zap.String("college_id", c.CollegeID), zap.Error(err))
		}
		return nil
	}
	u.Profile = nil
	return u
}

// ────────────────────── Update ──────────────────────

func (s *collegeService) Update(ctx context.Context, id string, req *dto.UpdateCollegeRequest, caller *authz.Principal) (*dto.CollegeResponse, error) {
	if err := requireSuperAdmin(caller); err != nil {
		return nil, err
	}
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}

	if req.CollegeName != nil {
		name := strings.TrimSpace(*req.CollegeName)
		if !strings.EqualFold(name, college.Name) {
			if other, err := s.repo.College.GetByName(ctx, name); err == nil && other.CollegeID != id {
				return nil, ErrCollegeExists
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		college.Name = name
	}
	college.Address = strOr(req.Address, college.Address)
	college.City = strOr(req.City, college.City)
	college.State = strOr(req.State, college.State)
	college.Pincode = strOr(req.Pincode, college.Pincode)
	college.Phone = strOr(req.Phone, college.Phone)
	college.Email = strOr(req.Email, college.Email)
	college.Website = strOr(req.Website, college.Website)
	college.UpdatedBy = &caller.UserID

	if err := s.repo.College.Update(ctx, college); err != nil {
		if isDuplicate(err) {
			return nil, ErrCollegeExists
		}
		s.logger.Error("更新学院失败", zap.String("college_id", id), zap.Error(err))
		return nil, err
	}

	resp := toCollegeResponse(college, s.admin(ctx, college))
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除学院及其管理员；仍有其他成员时拒绝
func (s *collegeService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	if err := requireSuperAdmin(caller); err != nil {
		return err
	}
	college, err := s.repo.College.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrCollegeNotFound)
	}

	adminID := model.StrVal(college.AdminID)
	members, err := s.repo.User.CountMembers(ctx, id, adminID)
	if err != nil {
		return err
	}
	if members > 0 {
		return ErrCollegeHasMembers
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if adminID != "" {
			if err := tx.User.Delete(ctx, adminID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return tx.College.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollegeNotFound
		}
		s.logger.Error("删除学院失败", zap.String("college_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("学院及管理员已删除", zap.String("college_id", id))
	return nil
}
