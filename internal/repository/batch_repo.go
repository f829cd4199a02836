package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// BatchRepository 届次数据访问接口
type BatchRepository interface {
	Create(ctx context.Context, batch *model.Batch) error
	GetByID(ctx context.Context, id string) (*model.Batch, error)
	GetByName(ctx context.Context, collegeID, name string) (*model.Batch, error)
	List(ctx context.Context, scope Scope) ([]model.Batch, error)
	Update(ctx context.Context, batch *model.Batch) error
	Delete(ctx context.Context, id string) error
}

type batchRepo struct {
	db *gorm.DB
}

// NewBatchRepo 创建 BatchRepository 实例
func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, batch *model.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepo) GetByID(ctx context.Context, id string) (*model.Batch, error) {
	var b model.Batch
	if err := r.db.WithContext(ctx).Where("batch_id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) GetByName(ctx context.Context, collegeID, name string) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).
		Where("college_id = ? AND batch_name = ?", collegeID, name).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepo) List(ctx context.Context, scope Scope) ([]model.Batch, error) {
	var batches []model.Batch
	err := scope.apply(r.db.WithContext(ctx).Model(&model.Batch{})).
		Order("start_date DESC").
		Find(&batches).Error
	return batches, err
}

// Update 不更新 college_id
func (r *batchRepo) Update(ctx context.Context, batch *model.Batch) error {
	return r.db.WithContext(ctx).
		Model(&model.Batch{}).
		Where("batch_id = ?", batch.BatchID).
		Updates(map[string]interface{}{
			"batch_name": batch.BatchName,
			"start_date": batch.StartDate,
			"end_date":   batch.EndDate,
			"updated_by": batch.UpdatedBy,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *batchRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Batch{}, "batch_id", id)
}

// deleteByID 按主键删除，未命中返回 gorm.ErrRecordNotFound
func deleteByID(ctx context.Context, db *gorm.DB, m interface{}, column, id string) error {
	result := db.WithContext(ctx).Where(column+" = ?", id).Delete(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
