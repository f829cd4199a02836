package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// FeedbackRepository 反馈数据访问接口
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	List(ctx context.Context, scope Scope) ([]model.Feedback, error)
	Update(ctx context.Context, fb *model.Feedback) error
	Delete(ctx context.Context, id string) error
}

type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var fb model.Feedback
	if err := r.db.WithContext(ctx).Where("feedback_id = ?", id).First(&fb).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepo) List(ctx context.Context, scope Scope) ([]model.Feedback, error) {
	var list []model.Feedback
	err := scope.apply(r.db.WithContext(ctx).Model(&model.Feedback{})).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Update 提交者与学院不可变
func (r *feedbackRepo) Update(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("feedback_id = ?", fb.FeedbackID).
		Updates(map[string]interface{}{
			"name":       fb.Name,
			"email":      fb.Email,
			"department": fb.Department,
			"message":    fb.Message,
			"updated_by": fb.UpdatedBy,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *feedbackRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Feedback{}, "feedback_id", id)
}
