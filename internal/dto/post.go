package dto

import "time"

// ── 帖子 DTO（multipart/form-data） ──

// CreatePostRequest 发帖，图片为可选的 image 文件字段
type CreatePostRequest struct {
	Heading     string `form:"heading"      json:"heading"      binding:"required,max=200"`
	Description string `form:"description"  json:"description"  binding:"omitempty,max=10000"`
	PostType    string `form:"post_type"    json:"post_type"    binding:"omitempty,max=30"`
	ReferenceID string `form:"reference_id" json:"reference_id" binding:"omitempty,max=100"`
}

// UpdatePostRequest 更新帖子
type UpdatePostRequest struct {
	Heading     *string `form:"heading"      json:"heading"      binding:"omitempty,min=1,max=200"`
	Description *string `form:"description"  json:"description"  binding:"omitempty,max=10000"`
	PostType    *string `form:"post_type"    json:"post_type"    binding:"omitempty,max=30"`
	ReferenceID *string `form:"reference_id" json:"reference_id" binding:"omitempty,max=100"`
}

// PostListRequest 帖子列表过滤
type PostListRequest struct {
	PostType    string `form:"post_type"    binding:"omitempty,max=30"`
	ReferenceID string `form:"reference_id" binding:"omitempty,max=100"`
}

// CommentRequest 评论
type CommentRequest struct {
	Text string `json:"text"`
}

// PostResponse 帖子
type PostResponse struct {
	ID          string            `json:"id"`
	Heading     string            `json:"heading"`
	Description string            `json:"description"`
	Image       string            `json:"image,omitempty"`
	PostType    string            `json:"post_type"`
	ReferenceID string            `json:"reference_id,omitempty"`
	PostedBy    string            `json:"posted_by"`
	PostedByID  string            `json:"posted_by_id"`
	CollegeID   string            `json:"college_id"`
	Likes       int64             `json:"likes"`
	LikedByUser bool              `json:"liked_by_user"`
	Comments    []CommentResponse `json:"comments"`
	Shares      int               `json:"shares"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CommentResponse 评论
type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResponse 点赞结果
type LikeResponse struct {
	Likes       int64 `json:"likes"`
	LikedByUser bool  `json:"likedByUser"`
}

// ShareResponse 分享结果
type ShareResponse struct {
	Shares int `json:"shares"`
}

// ── 相册 / 动态 ──

// PhotoRequest 上传照片，image 文件字段必填
type PhotoRequest struct {
	Heading     string `form:"heading"     binding:"required,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

// UpdatePhotoRequest 更新照片，image 文件字段可选
type UpdatePhotoRequest struct {
	Heading     *string `form:"heading"     binding:"omitempty,min=1,max=200"`
	Description *string `form:"description" binding:"omitempty,max=5000"`
}

// PhotoResponse 照片
type PhotoResponse struct {
	ID          string    `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	PostedByID  string    `json:"posted_by_id"`
	CollegeID   string    `json:"college_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LiveUpdateRequest 发布动态
type LiveUpdateRequest struct {
	Heading     string `json:"heading"     binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=10000"`
}

// UpdateLiveUpdateRequest 更新动态
type UpdateLiveUpdateRequest struct {
	Heading     *string `json:"heading"     binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,min=1,max=10000"`
}

// LiveUpdateResponse 动态
type LiveUpdateResponse struct {
	ID          string    `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	PostedByID  string    `json:"posted_by_id"`
	CollegeID   string    `json:"college_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
