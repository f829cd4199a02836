package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

var ErrRoleChangeDenied = apperrors.Forbidden("Access denied. Only Super Admin can change user roles.")

// RoleService 角色业务接口
type RoleService interface {
	List() []dto.RoleInfo
	Stats(ctx context.Context, caller *authz.Principal) (*dto.RoleStatsResponse, error)
	// Change 修改用户角色，返回提示消息与更新后的用户
	Change(ctx context.Context, userID, role string, caller *authz.Principal) (string, *dto.UserResponse, error)
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

var roleInfos = []dto.RoleInfo{
	{Role: model.RoleSuperAdmin, Label: "Super Admin", Description: "Manages colleges and every account across institutions"},
	{Role: model.RoleAdmin, Label: "College Admin", Description: "Manages batches, members, galleries and feedback of one college"},
	{Role: model.RoleAlumni, Label: "Alumni", Description: "Publishes posts and jobs for their college network"},
	{Role: model.RoleStudent, Label: "Student", Description: "Browses and engages with content of their college"},
}

func (s *roleService) List() []dto.RoleInfo {
	out := make([]dto.RoleInfo, len(roleInfos))
	copy(out, roleInfos)
	return out
}

// Stats 各角色人数；admin 仅统计本学院
func (s *roleService) Stats(ctx context.Context, caller *authz.Principal) (*dto.RoleStatsResponse, error) {
	collegeID, _, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.User.CountByRole(ctx, collegeID)
	if err != nil {
		s.logger.Error("统计角色人数失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.RoleStatsResponse{Counts: make(map[string]int64, len(authz.Roles))}
	for _, r := range authz.Roles {
		resp.Counts[r] = counts[r]
		resp.Total += counts[r]
	}
	return resp, nil
}

func (s *roleService) Change(ctx context.Context, userID, role string, caller *authz.Principal) (string, *dto.UserResponse, error) {
	if !caller.IsSuperAdmin() {
		return "", nil, ErrRoleChangeDenied
	}
	if !authz.ValidRole(role) {
		return "", nil, ErrInvalidRole
	}
	if userID == caller.UserID {
		return "", nil, ErrSelfRoleChange
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return "", nil, notFound(err, ErrUserNotFound)
	}

	oldRole := user.Role
	if role != model.RoleSuperAdmin && user.CollegeID == nil {
		return "", nil, ErrCollegeRequired
	}
	user.Role = role
	if role == model.RoleSuperAdmin {
		user.CollegeID = nil
	}
	user.UpdatedBy = &caller.UserID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if user.HasProfile() && user.Profile == nil {
			profile := &model.Profile{UserID: user.UserID}
			user.Profile = profile
			return tx.Profile.Upsert(ctx, profile)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("修改角色失败", zap.String("user_id", userID), zap.Error(err))
		return "", nil, err
	}

	s.logger.Info("用户角色已修改",
		zap.String("user_id", userID),
		zap.String("from", oldRole),
		zap.String("to", role),
	)

	resp := toUserResponse(user)
	return fmt.Sprintf("User role changed from %s to %s", oldRole, role), &resp, nil
}
