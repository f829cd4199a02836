package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// PostListFilters 帖子列表过滤条件
type PostListFilters struct {
	Scope       Scope
	PostType    string
	ReferenceID string
}

// LikeStat 单个帖子的点赞统计
type LikeStat struct {
	Count       int64
	LikedByUser bool
}

// PostRepository 帖子及互动数据访问接口
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, filters *PostListFilters) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error

	// ToggleLike 已点赞则取消，否则点赞；返回当前状态与总数
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, count int64, err error)
	LikeStats(ctx context.Context, postIDs []string, userID string) (map[string]LikeStat, error)
	AddComment(ctx context.Context, comment *model.PostComment) error
	ListComments(ctx context.Context, postID string) ([]model.PostComment, error)
	// IncrementShares 原子自增并返回新值
	IncrementShares(ctx context.Context, postID string) (int, error)
}

type postRepo struct {
	db *gorm.DB
}

// NewPostRepo 创建 PostRepository 实例
func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(post).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("post_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepo) List(ctx context.Context, filters *PostListFilters) ([]model.Post, error) {
	var posts []model.Post

	db := filters.Scope.apply(r.db.WithContext(ctx).Model(&model.Post{}))
	if filters.PostType != "" {
		db = db.Where("post_type = ?", filters.PostType)
	}
	if filters.ReferenceID != "" {
		db = db.Where("reference_id = ?", filters.ReferenceID)
	}

	err := db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Update 仅更新内容字段，作者、学院与互动计数不变
func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("post_id = ?", post.PostID).
		Updates(map[string]interface{}{
			"heading":      post.Heading,
			"description":  post.Description,
			"image":        post.Image,
			"post_type":    post.PostType,
			"reference_id": post.ReferenceID,
			"updated_by":   post.UpdatedBy,
			"updated_at":   gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Post{}, "post_id", id)
}

// ──────── 互动 ────────

func (r *postRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := &model.PostLike{PostID: postID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&model.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *postRepo) LikeStats(ctx context.Context, postIDs []string, userID string) (map[string]LikeStat, error) {
	stats := make(map[string]LikeStat, len(postIDs))
	if len(postIDs) == 0 {
		return stats, nil
	}

	type row struct {
		PostID string
		Count  int64
		Liked  bool
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Select("post_id, COUNT(*) AS count, BOOL_OR(user_id = ?) AS liked", userID).
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		stats[rw.PostID] = LikeStat{Count: rw.Count, LikedByUser: rw.Liked}
	}
	return stats, nil
}

func (r *postRepo) AddComment(ctx context.Context, comment *model.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepo) ListComments(ctx context.Context, postID string) ([]model.PostComment, error) {
	var comments []model.PostComment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *postRepo) IncrementShares(ctx context.Context, postID string) (int, error) {
	var post model.Post
	res := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "shares"}}}).
		Where("post_id = ?", postID).
		UpdateColumn("shares", gorm.Expr("shares + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return post.Shares, nil
}
