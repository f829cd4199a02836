package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// 角色
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleAlumni     = "alumni"
	RoleStudent    = "student"
)

// StrPtr 空串返回 nil，用于可空外键
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal 解引用，nil 返回空串
func StrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
