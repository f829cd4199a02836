package service

import (
	"context"
	"errors"
	"strings"

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
	ErrPostNotFound     = apperrors.NotFound("Post not found")
	ErrPostAlumniOnly   = apperrors.Forbidden("Only alumni can create posts")
	ErrCommentTextEmpty = apperrors.Validation("text required")
)

// 互动与修改被拒绝时的提示
var (
	errLikeDenied    = apperrors.Forbidden("Not authorized to like posts from other colleges")
	errCommentDenied = apperrors.Forbidden("Not authorized to comment on posts from other colleges")
	errShareDenied   = apperrors.Forbidden("Not authorized to share posts from other colleges")
	errUpdateDenied  = apperrors.Forbidden("Not authorized to update this post")
	errDeleteDenied  = apperrors.Forbidden("Not authorized to delete this post")
)

// PostService 帖子与互动业务接口
type PostService interface {
	Create(ctx context.Context, req *dto.CreatePostRequest, image *Upload, caller *authz.Principal) (*dto.PostResponse, error)
	List(ctx context.Context, req *dto.PostListRequest, caller *authz.Principal) ([]dto.PostResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.PostResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePostRequest, image *Upload, caller *authz.Principal) (*dto.PostResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error

	Like(ctx context.Context, id string, caller *authz.Principal) (*dto.LikeResponse, error)
	Comment(ctx context.Context, id string, req *dto.CommentRequest, caller *authz.Principal) ([]dto.CommentResponse, error)
	Share(ctx context.Context, id string, caller *authz.Principal) (*dto.ShareResponse, error)
}

type postService struct {
	repo   *repository.Repository
	store  storage.Store
	logger *zap.Logger
}

// NewPostService 创建 PostService 实例
func NewPostService(repo *repository.Repository, store storage.Store, logger *zap.Logger) PostService {
	return &postService{repo: repo, store: store, logger: logger}
}

// relabel 将通用的拒绝原因替换为具体操作的提示
func relabel(err error, generic error, specific *apperrors.Error) error {
	if errors.Is(err, generic) {
		return specific
	}
	return err
}

// ────────────────────── Create ──────────────────────

func (s *postService) Create(ctx context.Context, req *dto.CreatePostRequest, image *Upload, caller *authz.Principal) (*dto.PostResponse, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}
	if caller.Role != model.RoleAlumni {
		return nil, ErrPostAlumniOnly
	}
	if caller.CollegeID == "" {
		return nil, authz.ErrNoCollege
	}

	path, err := saveUpload(ctx, s.store, image)
	if err != nil {
		return nil, err
	}

	postType := req.PostType
	if postType == "" {
		postType = "general"
	}
	post := &model.Post{
		Heading:     req.Heading,
		Description: req.Description,
		Image:       path,
		PostType:    postType,
		ReferenceID: req.ReferenceID,
		PostedBy:    caller.Name,
		PostedByID:  caller.UserID,
		CollegeID:   caller.CollegeID,
		BaseModel:   model.BaseModel{CreatedBy: &caller.UserID},
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		removeUpload(ctx, s.store, path, s.logger)
		s.logger.Error("发布帖子失败", zap.Error(err))
		return nil, err
	}

	resp := toPostResponse(post, repository.LikeStat{})
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *postService) List(ctx context.Context, req *dto.PostListRequest, caller *authz.Principal) ([]dto.PostResponse, error) {
	collegeID, all, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}

	filters := &repository.PostListFilters{Scope: repository.Scope{CollegeID: collegeID, All: all}}
	if req != nil {
		filters.PostType = req.PostType
		filters.ReferenceID = req.ReferenceID
	}
	posts, err := s.repo.Post.List(ctx, filters)
	if err != nil {
		s.logger.Error("查询帖子列表失败", zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}
	stats, err := s.repo.Post.LikeStats(ctx, ids, caller.UserID)
	if err != nil {
		s.logger.Error("查询点赞统计失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		list = append(list, toPostResponse(&posts[i], stats[posts[i].PostID]))
	}
	return list, nil
}

func (s *postService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.PostResponse, error) {
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if err := authz.Authorize(caller, post, authz.RelationRead); err != nil {
		return nil, err
	}
	return s.withStats(ctx, post, caller)
}

func (s *postService) withStats(ctx context.Context, post *model.Post, caller *authz.Principal) (*dto.PostResponse, error) {
	stats, err := s.repo.Post.LikeStats(ctx, []string{post.PostID}, caller.UserID)
	if err != nil {
		return nil, err
	}
	resp := toPostResponse(post, stats[post.PostID])
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *postService) Update(ctx context.Context, id string, req *dto.UpdatePostRequest, image *Upload, caller *authz.Principal) (*dto.PostResponse, error) {
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if err := authz.Authorize(caller, post, authz.RelationModify); err != nil {
		return nil, relabel(err, authz.ErrNotOwner, errUpdateDenied)
	}

	post.Heading = strOr(req.Heading, post.Heading)
	post.Description = strOr(req.Description, post.Description)
	post.PostType = strOr(req.PostType, post.PostType)
	post.ReferenceID = strOr(req.ReferenceID, post.ReferenceID)
	post.UpdatedBy = &caller.UserID

	oldImage := post.Image
	if image != nil {
		if post.Image, err = saveUpload(ctx, s.store, image); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Post.Update(ctx, post); err != nil {
		if image != nil {
			removeUpload(ctx, s.store, post.Image, s.logger)
		}
		s.logger.Error("更新帖子失败", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}
	if image != nil {
		removeUpload(ctx, s.store, oldImage, s.logger)
	}

	return s.withStats(ctx, post, caller)
}

// ────────────────────── Delete ──────────────────────

func (s *postService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrPostNotFound)
	}
	if err := authz.Authorize(caller, post, authz.RelationModify); err != nil {
		return relabel(err, authz.ErrNotOwner, errDeleteDenied)
	}

	if err := s.repo.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("删除帖子失败", zap.String("post_id", id), zap.Error(err))
		return err
	}
	removeUpload(ctx, s.store, post.Image, s.logger)
	return nil
}

// ────────────────────── 互动 ──────────────────────

// engageable 加载帖子并校验同学院成员身份
func (s *postService) engageable(ctx context.Context, id string, caller *authz.Principal, denied *apperrors.Error) (*model.Post, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if err := authz.Authorize(caller, post, authz.RelationEngage); err != nil {
		return nil, relabel(err, authz.ErrNotMember, denied)
	}
	return post, nil
}

func (s *postService) Like(ctx context.Context, id string, caller *authz.Principal) (*dto.LikeResponse, error) {
	if _, err := s.engageable(ctx, id, caller, errLikeDenied); err != nil {
		return nil, err
	}

	liked, count, err := s.repo.Post.ToggleLike(ctx, id, caller.UserID)
	if err != nil {
		s.logger.Error("点赞失败", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}
	return &dto.LikeResponse{Likes: count, LikedByUser: liked}, nil
}

func (s *postService) Comment(ctx context.Context, id string, req *dto.CommentRequest, caller *authz.Principal) ([]dto.CommentResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrCommentTextEmpty
	}
	if _, err := s.engageable(ctx, id, caller, errCommentDenied); err != nil {
		return nil, err
	}

	comment := &model.PostComment{
		PostID:   id,
		UserID:   caller.UserID,
		UserName: caller.Name,
		Text:     text,
	}
	if err := s.repo.Post.AddComment(ctx, comment); err != nil {
		s.logger.Error("添加评论失败", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}

	comments, err := s.repo.Post.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommentResponses(comments), nil
}

func (s *postService) Share(ctx context.Context, id string, caller *authz.Principal) (*dto.ShareResponse, error) {
	if _, err := s.engageable(ctx, id, caller, errShareDenied); err != nil {
		return nil, err
	}

	shares, err := s.repo.Post.IncrementShares(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("分享失败", zap.String("post_id", id), zap.Error(err))
		return nil, err
	}
	return &dto.ShareResponse{Shares: shares}, nil
}
