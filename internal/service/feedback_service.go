package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

var (
	ErrFeedbackNotFound  = apperrors.NotFound("Feedback not found")
	ErrFeedbackNoCollege = apperrors.Validation("College information not found for user")
)

// FeedbackService 反馈业务接口
type FeedbackService interface {
	Create(ctx context.Context, req *dto.CreateFeedbackRequest, caller *authz.Principal) (*dto.FeedbackResponse, error)
	List(ctx context.Context, caller *authz.Principal) ([]dto.FeedbackResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.FeedbackResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateFeedbackRequest, caller *authz.Principal) (*dto.FeedbackResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
}

type feedbackService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(repo *repository.Repository, logger *zap.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: logger}
}

// Create 反馈归属提交者的学院，name/email 缺省取提交者
func (s *feedbackService) Create(ctx context.Context, req *dto.CreateFeedbackRequest, caller *authz.Principal) (*dto.FeedbackResponse, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}
	if caller.CollegeID == "" {
		return nil, ErrFeedbackNoCollege
	}

	name := req.Name
	if name == "" {
		name = caller.Name
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		email = caller.Email
	}

	fb := &model.Feedback{
		Name:       name,
		Email:      email,
		Department: req.Department,
		Message:    req.Message,
		UserID:     caller.UserID,
		CollegeID:  caller.CollegeID,
		BaseModel:  model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Feedback.Create(ctx, fb); err != nil {
		s.logger.Error("提交反馈失败", zap.Error(err))
		return nil, err
	}

	resp := toFeedbackResponse(fb)
	return &resp, nil
}

// List admin 仅看本学院反馈，superadmin 看全部
func (s *feedbackService) List(ctx context.Context, caller *authz.Principal) ([]dto.FeedbackResponse, error) {
	if !caller.HasRole(model.RoleAdmin, model.RoleSuperAdmin) {
		return nil, authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin)
	}
	collegeID, all, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Feedback.List(ctx, repository.Scope{CollegeID: collegeID, All: all})
	if err != nil {
		s.logger.Error("查询反馈列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.FeedbackResponse, 0, len(items))
	for i := range items {
		list = append(list, toFeedbackResponse(&items[i]))
	}
	return list, nil
}

func (s *feedbackService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.FeedbackResponse, error) {
	fb, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFeedbackNotFound)
	}
	// 提交者本人可查看自己的反馈
	if !authz.IsOwner(fb, caller) {
		if err := authz.Authorize(caller, fb, authz.RelationManage); err != nil {
			return nil, err
		}
	}
	resp := toFeedbackResponse(fb)
	return &resp, nil
}

func (s *feedbackService) Update(ctx context.Context, id string, req *dto.UpdateFeedbackRequest, caller *authz.Principal) (*dto.FeedbackResponse, error) {
	fb, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFeedbackNotFound)
	}
	if err := authz.Authorize(caller, fb, authz.RelationModify); err != nil {
		return nil, err
	}

	// name/email/message 传空串时保留原值，与 Create 的缺省规则一致
	fb.Name = nonEmptyOr(strOr(req.Name, fb.Name), fb.Name)
	if req.Email != nil {
		fb.Email = nonEmptyOr(normalizeEmail(*req.Email), fb.Email)
	}
	fb.Department = strOr(req.Department, fb.Department)
	fb.Message = nonEmptyOr(strOr(req.Message, fb.Message), fb.Message)
	fb.UpdatedBy = &caller.UserID

	if err := s.repo.Feedback.Update(ctx, fb); err != nil {
		s.logger.Error("更新反馈失败", zap.String("feedback_id", id), zap.Error(err))
		return nil, err
	}

	resp := toFeedbackResponse(fb)
	return &resp, nil
}

func (s *feedbackService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	fb, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrFeedbackNotFound)
	}
	if err := authz.Authorize(caller, fb, authz.RelationModify); err != nil {
		return err
	}
	if err := s.repo.Feedback.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotFound
		}
		s.logger.Error("删除反馈失败", zap.String("feedback_id", id), zap.Error(err))
		return err
	}
	return nil
}
