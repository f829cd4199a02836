package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// ── 相册 ──

// PhotoRepository 相册数据访问接口
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	List(ctx context.Context, scope Scope) ([]model.Photo, error)
	Update(ctx context.Context, photo *model.Photo) error
	Delete(ctx context.Context, id string) error
}

type photoRepo struct {
	db *gorm.DB
}

// NewPhotoRepo 创建 PhotoRepository 实例
func NewPhotoRepo(db *gorm.DB) PhotoRepository {
	return &photoRepo{db: db}
}

func (r *photoRepo) Create(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepo) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	var p model.Photo
	if err := r.db.WithContext(ctx).Where("photo_id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *photoRepo) List(ctx context.Context, scope Scope) ([]model.Photo, error) {
	var photos []model.Photo
	err := scope.apply(r.db.WithContext(ctx).Model(&model.Photo{})).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepo) Update(ctx context.Context, photo *model.Photo) error {
	return r.db.WithContext(ctx).
		Model(&model.Photo{}).
		Where("photo_id = ?", photo.PhotoID).
		Updates(map[string]interface{}{
			"heading":     photo.Heading,
			"description": photo.Description,
			"image":       photo.Image,
			"updated_by":  photo.UpdatedBy,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *photoRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Photo{}, "photo_id", id)
}

// ── 动态 ──

// LiveUpdateRepository 动态数据访问接口
type LiveUpdateRepository interface {
	Create(ctx context.Context, update *model.LiveUpdate) error
	GetByID(ctx context.Context, id string) (*model.LiveUpdate, error)
	List(ctx context.Context, scope Scope) ([]model.LiveUpdate, error)
	Update(ctx context.Context, update *model.LiveUpdate) error
	Delete(ctx context.Context, id string) error
}

type liveUpdateRepo struct {
	db *gorm.DB
}

// NewLiveUpdateRepo 创建 LiveUpdateRepository 实例
func NewLiveUpdateRepo(db *gorm.DB) LiveUpdateRepository {
	return &liveUpdateRepo{db: db}
}

func (r *liveUpdateRepo) Create(ctx context.Context, update *model.LiveUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *liveUpdateRepo) GetByID(ctx context.Context, id string) (*model.LiveUpdate, error) {
	var u model.LiveUpdate
	if err := r.db.WithContext(ctx).Where("update_id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *liveUpdateRepo) List(ctx context.Context, scope Scope) ([]model.LiveUpdate, error) {
	var updates []model.LiveUpdate
	err := scope.apply(r.db.WithContext(ctx).Model(&model.LiveUpdate{})).
		Order("created_at DESC").
		Find(&updates).Error
	return updates, err
}

func (r *liveUpdateRepo) Update(ctx context.Context, update *model.LiveUpdate) error {
	return r.db.WithContext(ctx).
		Model(&model.LiveUpdate{}).
		Where("update_id = ?", update.UpdateID).
		Updates(map[string]interface{}{
			"heading":     update.Heading,
			"description": update.Description,
			"updated_by":  update.UpdatedBy,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *liveUpdateRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.LiveUpdate{}, "update_id", id)
}
