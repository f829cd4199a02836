package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// ProfileRepository 档案数据访问接口
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// Upsert 按 user_id 创建或覆盖档案
	Upsert(ctx context.Context, profile *model.Profile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Upsert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"roll_number", "age", "dob", "address", "phone", "college", "degree", "batch",
				"current_job_title", "current_company", "years_of_experience", "job_description",
				"updated_at", "updated_by",
			}),
		}).
		Create(profile).Error
}
