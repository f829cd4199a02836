package model

import "time"

// ── 帖子 ──

// Post 校友帖子，对应 posts，仅本学院成员可见
type Post struct {
	PostID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"post_id"`
	Heading     string `gorm:"type:varchar(200);not null"                     json:"heading"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	Image       string `gorm:"type:varchar(500);not null;default:''"          json:"image"`
	PostType    string `gorm:"type:varchar(30);not null;default:'general'"    json:"post_type"`
	ReferenceID string `gorm:"type:varchar(100);not null;default:''"          json:"reference_id"`
	PostedBy    string `gorm:"type:varchar(100);not null;default:''"          json:"posted_by"`
	PostedByID  string `gorm:"type:uuid;not null"                             json:"posted_by_id"`
	CollegeID   string `gorm:"type:uuid;not null"                             json:"college_id"`
	Shares      int    `gorm:"not null;default:0"                             json:"shares"`
	BaseModel

	Comments []PostComment `gorm:"foreignKey:PostID;references:PostID" json:"comments,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string { return "posts" }

func (p *Post) ResourceOwner() string   { return p.PostedByID }
func (p *Post) ResourceCollege() string { return p.CollegeID }

// PostLike 点赞，(post_id, user_id) 联合主键保证每人至多一次
type PostLike struct {
	PostID    string    `gorm:"type:uuid;primaryKey"               json:"post_id"`
	UserID    string    `gorm:"type:uuid;primaryKey"               json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (PostLike) TableName() string { return "post_likes" }

// PostComment 评论
type PostComment struct {
	CommentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"comment_id"`
	PostID    string    `gorm:"type:uuid;not null"                             json:"post_id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	UserName  string    `gorm:"type:varchar(100);not null;default:''"          json:"user_name"`
	Text      string    `gorm:"type:text;not null"                             json:"text"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (PostComment) TableName() string { return "post_comments" }

// ── 招聘 ──

// 职位类型
var JobTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Freelance"}

// Job 招聘信息，对应 jobs；college_id 为空表示 superadmin 发布的全局职位
type Job struct {
	JobID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"job_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string  `gorm:"type:text;not null"                             json:"description"`
	Company     string  `gorm:"type:varchar(150);not null"                     json:"company"`
	Location    string  `gorm:"type:varchar(150);not null"                     json:"location"`
	Type        string  `gorm:"type:varchar(20);not null"                      json:"type"`
	Eligibility string  `gorm:"type:text;not null;default:''"                  json:"eligibility"`
	ApplyLink   string  `gorm:"type:varchar(500);not null;default:''"          json:"apply_link"`
	PostedBy    string  `gorm:"type:varchar(100);not null;default:''"          json:"posted_by"`
	PostedByID  string  `gorm:"type:uuid;not null"                             json:"posted_by_id"`
	CollegeID   *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Job) TableName() string { return "jobs" }

func (j *Job) ResourceOwner() string   { return j.PostedByID }
func (j *Job) ResourceCollege() string { return StrVal(j.CollegeID) }

// ── 相册 / 动态 ──

// Photo 相册，对应 photos
type Photo struct {
	PhotoID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"photo_id"`
	Heading     string  `gorm:"type:varchar(200);not null"                     json:"heading"`
	Description string  `gorm:"type:text;not null;default:''"                  json:"description"`
	Image       string  `gorm:"type:varchar(500);not null"                     json:"image"`
	PostedByID  string  `gorm:"type:uuid;not null"                             json:"posted_by_id"`
	CollegeID   *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Photo) TableName() string { return "photos" }

func (p *Photo) ResourceOwner() string   { return p.PostedByID }
func (p *Photo) ResourceCollege() string { return StrVal(p.CollegeID) }

// LiveUpdate 实时动态，对应 live_updates
type LiveUpdate struct {
	UpdateID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"update_id"`
	Heading     string  `gorm:"type:varchar(200);not null"                     json:"heading"`
	Description string  `gorm:"type:text;not null"                             json:"description"`
	PostedByID  string  `gorm:"type:uuid;not null"                             json:"posted_by_id"`
	CollegeID   *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (LiveUpdate) TableName() string { return "live_updates" }

func (u *LiveUpdate) ResourceOwner() string   { return u.PostedByID }
func (u *LiveUpdate) ResourceCollege() string { return StrVal(u.CollegeID) }

// ── 反馈 ──

// Feedback 反馈，对应 feedback，始终归属提交者的学院
type Feedback struct {
	FeedbackID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email      string `gorm:"type:varchar(255);not null"                     json:"email"`
	Department string `gorm:"type:varchar(200);not null;default:''"          json:"department"`
	Message    string `gorm:"type:text;not null"                             json:"message"`
	UserID     string `gorm:"type:uuid;not null"                             json:"user_id"`
	CollegeID  string `gorm:"type:uuid;not null"                             json:"college_id"`
	BaseModel
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) ResourceOwner() string   { return f.UserID }
func (f *Feedback) ResourceCollege() string { return f.CollegeID }
