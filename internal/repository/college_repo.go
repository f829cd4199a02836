package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// CollegeRepository 学院数据访问接口
type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	GetByID(ctx context.Context, id string) (*model.College, error)
	GetByName(ctx context.Context, name string) (*model.College, error)
	List(ctx context.Context) ([]model.College, error)
	Update(ctx context.Context, college *model.College) error
	Delete(ctx context.Context, id string) error
}

type collegeRepo struct {
	db *gorm.DB
}

// NewCollegeRepo 创建 CollegeRepository 实例
func NewCollegeRepo(db *gorm.DB) CollegeRepository {
	return &collegeRepo{db: db}
}

func (r *collegeRepo) Create(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepo) GetByID(ctx context.Context, id string) (*model.College, error) {
	var c model.College
	if err := r.db.WithContext(ctx).Where("college_id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collegeRepo) GetByName(ctx context.Context, name string) (*model.College, error) {
	var c model.College
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collegeRepo) List(ctx context.Context) ([]model.College, error) {
	var colleges []model.College
	err := r.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error
	return colleges, err
}

func (r *collegeRepo) Update(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Save(college).Error
}

func (r *collegeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.College{}, "college_id", id)
}
