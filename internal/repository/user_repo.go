package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

// UserListFilters 用户列表过滤条件
type UserListFilters struct {
	Role      string
	CollegeID string // 为空表示不过滤
}

// UserRepository 身份数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *UserListFilters) ([]model.User, error)
	CountByRole(ctx context.Context, collegeID string) (map[string]int64, error)
	CountMembers(ctx context.Context, collegeID, excludeUserID string) (int64, error)
	PromoteGraduates(ctx context.Context, now time.Time) (int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("College").
		Preload("Profile").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"department":    user.Department,
			"college_id":    user.CollegeID,
			"updated_by":    user.UpdatedBy,
			"updated_at":    time.Now(),
		}).Error
}

// Delete 删除身份，档案由外键级联删除
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.User{}, "user_id", id)
}

func (r *userRepo) List(ctx context.Context, filters *UserListFilters) ([]model.User, error) {
	var users []model.User

	db := r.db.WithContext(ctx).Model(&model.User{}).Preload("Profile")
	if filters != nil {
		if filters.Role != "" {
			db = db.Where("role = ?", filters.Role)
		}
		if filters.CollegeID != "" {
			db = db.Where("college_id = ?", filters.CollegeID)
		}
	}

	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole 按角色统计人数，collegeID 为空表示全部
func (r *userRepo) CountByRole(ctx context.Context, collegeID string) (map[string]int64, error) {
	type row struct {
		Role  string
		Count int64
	}
	var rows []row

	db := r.db.WithContext(ctx).Model(&model.User{}).Select("role, COUNT(*) AS count")
	if collegeID != "" {
		db = db.Where("college_id = ?", collegeID)
	}
	if err := db.Group("role").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Role] = rw.Count
	}
	return counts, nil
}

// CountMembers 学院成员数（排除指定用户，一般为学院管理员）
func (r *userRepo) CountMembers(ctx context.Context, collegeID, excludeUserID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.User{}).Where("college_id = ?", collegeID)
	if excludeUserID != "" {
		db = db.Where("user_id <> ?", excludeUserID)
	}
	err := db.Count(&n).Error
	return n, err
}

// PromoteGraduates 将所在届次已结束的学生晋升为校友，幂等
func (r *userRepo) PromoteGraduates(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE users u
		SET role = ?, updated_at = ?
		FROM profiles p, batches b
		WHERE p.user_id = u.user_id
		  AND b.college_id = u.college_id
		  AND b.batch_name = p.batch
		  AND u.role = ?
		  AND b.end_date < ?`,
		model.RoleAlumni, now, model.RoleStudent, now,
	)
	return result.RowsAffected, result.Error
}
