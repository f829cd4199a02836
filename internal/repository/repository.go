package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Profile    ProfileRepository
	College    CollegeRepository
	Batch      BatchRepository
	Job        JobRepository
	Post       PostRepository
	Photo      PhotoRepository
	LiveUpdate LiveUpdateRepository
	Feedback   FeedbackRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Profile:    NewProfileRepo(db),
		College:    NewCollegeRepo(db),
		Batch:      NewBatchRepo(db),
		Job:        NewJobRepo(db),
		Post:       NewPostRepo(db),
		Photo:      NewPhotoRepo(db),
		LiveUpdate: NewLiveUpdateRepo(db),
		Feedback:   NewFeedbackRepo(db),
	}
}

// Transaction 在同一事务中执行 fn，fn 返回错误时回滚
// 未绑定数据库（单元测试中的 mock 聚合）时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Scope 列表查询的学院范围
type Scope struct {
	CollegeID string
	All       bool
	// IncludeGlobal 同时返回 college_id 为空的全局数据
	IncludeGlobal bool
}

// apply 追加学院过滤条件
func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.All {
		return db
	}
	if s.IncludeGlobal {
		return db.Where("college_id = ? OR college_id IS NULL", s.CollegeID)
	}
	return db.Where("college_id = ?", s.CollegeID)
}
