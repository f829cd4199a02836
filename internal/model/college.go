package model

import "time"

// College 学院（租户），对应 colleges
type College struct {
	CollegeID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"college_id"`
	Name      string  `gorm:"type:varchar(200);not null;uniqueIndex"         json:"name"`
	Address   string  `gorm:"type:varchar(500);not null;default:''"          json:"address"`
	City      string  `gorm:"type:varchar(100);not null;default:''"          json:"city"`
	State     string  `gorm:"type:varchar(100);not null;default:''"          json:"state"`
	Pincode   string  `gorm:"type:varchar(20);not null;default:''"           json:"pincode"`
	Phone     string  `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	Email     string  `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	Website   string  `gorm:"type:varchar(255);not null;default:''"          json:"website"`
	AdminID   *string `gorm:"type:uuid"                                      json:"admin_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (College) TableName() string { return "colleges" }

// Batch 届次，对应 batches，(batch_name, college_id) 唯一
type Batch struct {
	BatchID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"batch_id"`
	BatchName string    `gorm:"type:varchar(100);not null"                     json:"batch_name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	CollegeID string    `gorm:"type:uuid;not null"                             json:"college_id"`
	BaseModel
}

// TableName 指定表名
func (Batch) TableName() string { return "batches" }

func (b *Batch) ResourceOwner() string   { return StrVal(b.CreatedBy) }
func (b *Batch) ResourceCollege() string { return b.CollegeID }

// Ended 截止 now 是否已结束
func (b *Batch) Ended(now time.Time) bool { return b.EndDate.Before(now) }
