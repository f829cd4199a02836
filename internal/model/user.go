package model

import "time"

// User 身份表，对应 users
// 除 superadmin 外必须归属某个学院
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	Department   string  `gorm:"type:varchar(200);not null;default:''"          json:"department"`
	CollegeID    *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	BaseModel

	// 关联
	College *College `gorm:"foreignKey:CollegeID;references:CollegeID" json:"college,omitempty"`
	Profile *Profile `gorm:"foreignKey:UserID;references:UserID"       json:"profile,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// ResourceOwner 用户本人即资源所有者
func (u *User) ResourceOwner() string { return u.UserID }

// ResourceCollege 用户所属学院
func (u *User) ResourceCollege() string { return StrVal(u.CollegeID) }

// HasProfile student / alumni 拥有档案
func (u *User) HasProfile() bool {
	return u.Role == RoleStudent || u.Role == RoleAlumni
}

// Profile 学生/校友档案，对应 profiles，与 users 一对一
type Profile struct {
	ProfileID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	UserID            string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	RollNumber        string     `gorm:"type:varchar(50);not null;default:''"           json:"roll_number"`
	Age               *int       `json:"age,omitempty"`
	DOB               *time.Time `gorm:"column:dob;type:date"                           json:"dob,omitempty"`
	Address           string     `gorm:"type:varchar(500);not null;default:''"          json:"address"`
	Phone             string     `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	College           string     `gorm:"type:varchar(200);not null;default:''"          json:"college"`
	Degree            string     `gorm:"type:varchar(100);not null;default:''"          json:"degree"`
	Batch             string     `gorm:"type:varchar(100);not null;default:''"          json:"batch"`
	CurrentJobTitle   string     `gorm:"type:varchar(150);not null;default:''"          json:"current_job_title"`
	CurrentCompany    string     `gorm:"type:varchar(150);not null;default:''"          json:"current_company"`
	YearsOfExperience *int       `json:"years_of_experience,omitempty"`
	JobDescription    string     `gorm:"type:text;not null;default:''"                  json:"job_description"`
	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }
