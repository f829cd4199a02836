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
	"github.com/Zerds-Global/Alumini-interaction/pkg/storage"
)

var (
	ErrPhotoNotFound      = apperrors.NotFound("Photo not found")
	ErrLiveUpdateNotFound = apperrors.NotFound("Update not found")
)

// contentCollege 新内容的学院：superadmin 发布为全局内容，其余角色必须有学院
func contentCollege(caller *authz.Principal) (*string, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}
	if caller.IsSuperAdmin() {
		return nil, nil
	}
	if caller.CollegeID == "" {
		return nil, authz.ErrNoCollege
	}
	return model.StrPtr(caller.CollegeID), nil
}

// ──────────────────────────────────────────────
// 相册
// ──────────────────────────────────────────────

// PhotoService 相册业务接口，读取公开
type PhotoService interface {
	Create(ctx context.Context, req *dto.PhotoRequest, image *Upload, caller *authz.Principal) (*dto.PhotoResponse, error)
	List(ctx context.Context) ([]dto.PhotoResponse, error)
	Get(ctx context.Context, id string) (*dto.PhotoResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePhotoRequest, image *Upload, caller *authz.Principal) (*dto.PhotoResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
}

type photoService struct {
	repo   *repository.Repository
	store  storage.Store
	logger *zap.Logger
}

// NewPhotoService 创建 PhotoService 实例
func NewPhotoService(repo *repository.Repository, store storage.Store, logger *zap.Logger) PhotoService {
	return &photoService{repo: repo, store: store, logger: logger}
}

func (s *photoService) Create(ctx context.Context, req *dto.PhotoRequest, image *Upload, caller *authz.Principal) (*dto.PhotoResponse, error) {
	if !caller.HasRole(model.RoleAlumni, model.RoleAdmin, model.RoleSuperAdmin) {
		return nil, authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin, model.RoleAlumni)
	}
	collegeID, err := contentCollege(caller)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageRequired
	}

	path, err := saveUpload(ctx, s.store, image)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		Heading:     req.Heading,
		Description: req.Description,
		Image:       path,
		PostedByID:  caller.UserID,
		CollegeID:   collegeID,
		BaseModel:   model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Photo.Create(ctx, photo); err != nil {
		removeUpload(ctx, s.store, path, s.logger)
		s.logger.Error("上传照片失败", zap.Error(err))
		return nil, err
	}

	resp := toPhotoResponse(photo)
	return &resp, nil
}

func (s *photoService) List(ctx context.Context) ([]dto.PhotoResponse, error) {
	photos, err := s.repo.Photo.List(ctx, repository.Scope{All: true})
	if err != nil {
		s.logger.Error("查询相册失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		list = append(list, toPhotoResponse(&photos[i]))
	}
	return list, nil
}

func (s *photoService) Get(ctx context.Context, id string) (*dto.PhotoResponse, error) {
	photo, err := s.repo.Photo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound)
	}
	resp := toPhotoResponse(photo)
	return &resp, nil
}

func (s *photoService) Update(ctx context.Context, id string, req *dto.UpdatePhotoRequest, image *Upload, caller *authz.Principal) (*dto.PhotoResponse, error) {
	photo, err := s.repo.Photo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPhotoNotFound)
	}
	if err := authz.Authorize(caller, photo, authz.RelationManage); err != nil {
		return nil, err
	}

	photo.Heading = strOr(req.Heading, photo.Heading)
	photo.Description = strOr(req.Description, photo.Description)
	photo.UpdatedBy = &caller.UserID

	oldImage := photo.Image
	if image != nil {
		if photo.Image, err = saveUpload(ctx, s.store, image); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Photo.Update(ctx, photo); err != nil {
		if image != nil {
			removeUpload(ctx, s.store, photo.Image, s.logger)
		}
		s.logger.Error("更新照片失败", zap.String("photo_id", id), zap.Error(err))
		return nil, err
	}
	if image != nil {
		removeUpload(ctx, s.store, oldImage, s.logger)
	}

	resp := toPhotoResponse(photo)
	return &resp, nil
}

func (s *photoService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	photo, err := s.repo.Photo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrPhotoNotFound)
	}
	if err := authz.Authorize(caller, photo, authz.RelationManage); err != nil {
		return err
	}
	if err := s.repo.Photo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		s.logger.Error("删除照片失败", zap.String("photo_id", id), zap.Error(err))
		return err
	}
	removeUpload(ctx, s.store, photo.Image, s.logger)
	return nil
}

// ──────────────────────────────────────────────
// 实时动态
// ──────────────────────────────────────────────

// LiveUpdateService 动态业务接口，读取公开
type LiveUpdateService interface {
	Create(ctx context.Context, req *dto.LiveUpdateRequest, caller *authz.Principal) (*dto.LiveUpdateResponse, error)
	List(ctx context.Context) ([]dto.LiveUpdateResponse, error)
	Get(ctx context.Context, id string) (*dto.LiveUpdateResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLiveUpdateRequest, caller *authz.Principal) (*dto.LiveUpdateResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error
}

type liveUpdateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLiveUpdateService 创建 LiveUpdateService 实例
func NewLiveUpdateService(repo *repository.Repository, logger *zap.Logger) LiveUpdateService {
	return &liveUpdateService{repo: repo, logger: logger}
}

func (s *liveUpdateService) Create(ctx context.Context, req *dto.LiveUpdateRequest, caller *authz.Principal) (*dto.LiveUpdateResponse, error) {
	if !caller.HasRole(model.RoleAlumni, model.RoleAdmin, model.RoleSuperAdmin) {
		return nil, authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin, model.RoleAlumni)
	}
	collegeID, err := contentCollege(caller)
	if err != nil {
		return nil, err
	}

	update := &model.LiveUpdate{
		Heading:     req.Heading,
		Description: req.Description,
		PostedByID:  caller.UserID,
		CollegeID:   collegeID,
		BaseModel:   model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.LiveUpdate.Create(ctx, update); err != nil {
		s.logger.Error("发布动态失败", zap.Error(err))
		return nil, err
	}

	resp := toLiveUpdateResponse(update)
	return &resp, nil
}

func (s *liveUpdateService) List(ctx context.Context) ([]dto.LiveUpdateResponse, error) {
	updates, err := s.repo.LiveUpdate.List(ctx, repository.Scope{All: true})
	if err != nil {
		s.logger.Error("查询动态失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.LiveUpdateResponse, 0, len(updates))
	for i := range updates {
		list = append(list, toLiveUpdateResponse(&updates[i]))
	}
	return list, nil
}

func (s *liveUpdateService) Get(ctx context.Context, id string) (*dto.LiveUpdateResponse, error) {
	update, err := s.repo.LiveUpdate.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLiveUpdateNotFound)
	}
	resp := toLiveUpdateResponse(update)
	return &resp, nil
}

func (s *liveUpdateService) Update(ctx context.Context, id string, req *dto.UpdateLiveUpdateRequest, caller *authz.Principal) (*dto.LiveUpdateResponse, error) {
	update, err := s.repo.LiveUpdate.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrLiveUpdateNotFound)
	}
	if err := authz.Authorize(caller, update, authz.RelationManage); err != nil {
		return nil, err
	}

	update.Heading = strOr(req.Heading, update.Heading)
	update.Description = strOr(req.Description, update.Description)
	update.UpdatedBy = &caller.UserID

	if err := s.repo.LiveUpdate.Update(ctx, update); err != nil {
		s.logger.Error("更新动态失败", zap.String("update_id", id), zap.Error(err))
		return nil, err
	}

	resp := toLiveUpdateResponse(update)
	return &resp, nil
}

func (s *liveUpdateService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	update, err := s.repo.LiveUpdate.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrLiveUpdateNotFound)
	}
	if err := authz.Authorize(caller, update, authz.RelationManage); err != nil {
		return err
	}
	if err := s.repo.LiveUpdate.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLiveUpdateNotFound
		}
		s.logger.Error("删除动态失败", zap.String("update_id", id), zap.Error(err))
		return err
	}
	return nil
}
