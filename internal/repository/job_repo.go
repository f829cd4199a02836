package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// JobRepository 招聘数据访问接口
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, scope Scope) ([]model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id string) error
}

type jobRepo struct {
	db *gorm.DB
}

// NewJobRepo 创建 JobRepository 实例
func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var j model.Job
	if err := r.db.WithContext(ctx).Where("job_id = ?", id).First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) List(ctx context.Context, scope Scope) ([]model.Job, error) {
	var jobs []model.Job
	err := scope.apply(r.db.WithContext(ctx).Model(&model.Job{})).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// Update 仅更新内容字段，发布者与学院不变
func (r *jobRepo) Update(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{
			"title":       job.Title,
			"description": job.Description,
			"company":     job.Company,
			"location":    job.Location,
			"type":        job.Type,
			"eligibility": job.Eligibility,
			"apply_link":  job.ApplyLink,
			"updated_by":  job.UpdatedBy,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Job{}, "job_id", id)
}
