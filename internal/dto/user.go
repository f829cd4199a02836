package dto

import "time"

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,campus_role"`
}

// UpdateUserRequest 更新身份信息
// role 与 college_id 的修改受调用方角色限制（见 UserService.Update）
type UpdateUserRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Email      *string `json:"email"      binding:"omitempty,email,max=255"`
	Department *string `json:"department" binding:"omitempty,max=200"`
	Role       *string `json:"role"       binding:"omitempty,campus_role"`
	CollegeID  *string `json:"college_id" binding:"omitempty,uuid"`
}

// ProfileRequest 档案字段，nil 表示不修改
type ProfileRequest struct {
	RollNumber        *string `json:"roll_number"         binding:"omitempty,max=50"`
	Age               *int    `json:"age"                 binding:"omitempty,min=0,max=150"`
	DOB               *string `json:"dob"                 binding:"omitempty,datetime=2006-01-02"`
	Address           *string `json:"address"             binding:"omitempty,max=500"`
	Phone             *string `json:"phone"               binding:"omitempty,max=30"`
	College           *string `json:"college"             binding:"omitempty,max=200"`
	Degree            *string `json:"degree"              binding:"omitempty,max=100"`
	Batch             *string `json:"batch"               binding:"omitempty,max=100"`
	CurrentJobTitle   *string `json:"current_job_title"   binding:"omitempty,max=150"`
	CurrentCompany    *string `json:"current_company"     binding:"omitempty,max=150"`
	YearsOfExperience *int    `json:"years_of_experience" binding:"omitempty,min=0,max=80"`
	JobDescription    *string `json:"job_description"     binding:"omitempty,max=5000"`
}

// UserResponse 身份信息（不含密码哈希）
type UserResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Department  string           `json:"department"`
	CollegeID   string           `json:"college_id,omitempty"`
	CollegeName string           `json:"college_name,omitempty"`
	Profile     *ProfileResponse `json:"profile,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ProfileResponse 档案
type ProfileResponse struct {
	RollNumber        string `json:"roll_number"`
	Age               *int   `json:"age,omitempty"`
	DOB               string `json:"dob,omitempty"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	College           string `json:"college"`
	Degree            string `json:"degree"`
	Batch             string `json:"batch"`
	CurrentJobTitle   string `json:"current_job_title"`
	CurrentCompany    string `json:"current_company"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`
	JobDescription    string `json:"job_description"`
}

// UserListResponse 用户列表
type UserListResponse struct {
	Count int            `json:"count"`
	Role  string         `json:"role,omitempty"`
	Users []UserResponse `json:"users"`
}

// ── 批量导入 ──

// ImportUserResponse 批量导入结果
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportUserError `json:"errors,omitempty"`
	Created []ImportedUser    `json:"created,omitempty"`
}

// ImportUserError 导入错误详情
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportedUser 导入成功的账号及其临时密码
type ImportedUser struct {
	Row          int    `json:"row"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// ── 角色 ──

// RoleInfo 角色说明
type RoleInfo struct {
	Role        string `json:"role"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// RoleStatsResponse 各角色人数
type RoleStatsResponse struct {
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

// ChangeRoleRequest 修改角色
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,campus_role"`
}
