package dto

import "time"

// ── 学院 ──

// CreateCollegeRequest 创建学院及其管理员
type CreateCollegeRequest struct {
	CollegeName   string `json:"college_name"   binding:"required,min=2,max=200"`
	Address       string `json:"address"        binding:"omitempty,max=500"`
	City          string `json:"city"           binding:"omitempty,max=100"`
	State         string `json:"state"          binding:"omitempty,max=100"`
	Pincode       string `json:"pincode"        binding:"omitempty,max=20"`
	Phone         string `json:"phone"          binding:"omitempty,max=30"`
	Email         string `json:"email"          binding:"omitempty,email"`
	Website       string `json:"website"        binding:"omitempty,url"`
	AdminName     string `json:"admin_name"     binding:"required,min=2,max=100"`
	AdminEmail    string `json:"admin_email"    binding:"required,email,max=255"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=72"`
}

// UpdateCollegeRequest 更新学院
type UpdateCollegeRequest struct {
	CollegeName *string `json:"college_name" binding:"omitempty,min=2,max=200"`
	Address     *string `json:"address"      binding:"omitempty,max=500"`
	City        *string `json:"city"         binding:"omitempty,max=100"`
	State       *string `json:"state"        binding:"omitempty,max=100"`
	Pincode     *string `json:"pincode"      binding:"omitempty,max=20"`
	Phone       *string `json:"phone"        binding:"omitempty,max=30"`
	Email       *string `json:"email"        binding:"omitempty,email"`
	Website     *string `json:"website"      binding:"omitempty,url"`
}

// CollegeResponse 学院
type CollegeResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	City      string        `json:"city"`
	State     string        `json:"state"`
	Pincode   string        `json:"pincode"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email"`
	Website   string        `json:"website"`
	AdminID   string        `json:"admin_id,omitempty"`
	Admin     *UserResponse `json:"admin,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ── 届次 ──

// CreateBatchRequest 创建届次；college_id 仅 superadmin 可指定
type CreateBatchRequest struct {
	BatchName string `json:"batch_name" binding:"required,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	CollegeID string `json:"college_id" binding:"omitempty,uuid"`
}

// UpdateBatchRequest 更新届次
type UpdateBatchRequest struct {
	BatchName *string `json:"batch_name" binding:"omitempty,max=100"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// BatchResponse 届次
type BatchResponse struct {
	ID        string `json:"id"`
	BatchName string `json:"batch_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CollegeID string `json:"college_id"`
	Ended     bool   `json:"ended"`
}

// ── 招聘 ──

// CreateJobRequest 发布职位
type CreateJobRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=10000"`
	Company     string `json:"company"     binding:"required,max=150"`
	Location    string `json:"location"    binding:"required,max=150"`
	Type        string `json:"type"        binding:"required,oneof=Full-time Part-time Contract Internship Freelance"`
	Eligibility string `json:"eligibility" binding:"omitempty,max=5000"`
	ApplyLink   string `json:"apply_link"  binding:"omitempty,url,max=500"`
}

// UpdateJobRequest 更新职位
type UpdateJobRequest struct {
	Title       *string `json:"title"       binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
	Company     *string `json:"company"     binding:"omitempty,max=150"`
	Location    *string `json:"location"    binding:"omitempty,max=150"`
	Type        *string `json:"type"        binding:"omitempty,oneof=Full-time Part-time Contract Internship Freelance"`
	Eligibility *string `json:"eligibility" binding:"omitempty,max=5000"`
	ApplyLink   *string `json:"apply_link"  binding:"omitempty,url,max=500"`
}

// JobResponse 职位
type JobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Eligibility string    `json:"eligibility"`
	ApplyLink   string    `json:"apply_link"`
	PostedBy    string    `json:"posted_by"`
	PostedByID  string    `json:"posted_by_id"`
	CollegeID   string    `json:"college_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ── 反馈 ──

// CreateFeedbackRequest 提交反馈，name/email 缺省取调用方
type CreateFeedbackRequest struct {
	Name       string `json:"name"       binding:"omitempty,max=100"`
	Email      string `json:"email"      binding:"omitempty,email"`
	Department string `json:"department" binding:"omitempty,max=200"`
	Message    string `json:"message"    binding:"required,max=5000"`
}

// UpdateFeedbackRequest 更新反馈
type UpdateFeedbackRequest struct {
	Name       *string `json:"name"       binding:"omitempty,max=100"`
	Email      *string `json:"email"      binding:"omitempty,email"`
	Department *string `json:"department" binding:"omitempty,max=200"`
	Message    *string `json:"message"    binding:"omitempty,min=1,max=5000"`
}

// FeedbackResponse 反馈
type FeedbackResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Message    string    `json:"message"`
	UserID     string    `json:"user_id"`
	CollegeID  string    `json:"college_id"`
	CreatedAt  time.Time `json:"created_at"`
}
