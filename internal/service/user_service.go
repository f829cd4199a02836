package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = apperrors.NotFound("User not found")
	ErrInvalidRole        = apperrors.Validation("Invalid role. Must be one of: " + strings.Join(authz.Roles, ", "))
	ErrSelfRoleChange     = apperrors.Forbidden("Forbidden: cannot change your own role")
	ErrAdminRoleLimit     = apperrors.Forbidden("Forbidden: admins may only assign student or alumni roles")
	ErrCollegeChange      = apperrors.Forbidden("Forbidden: only a superadmin may move a user to another college")
	ErrSelfDelete         = apperrors.Forbidden("Forbidden: cannot delete your own account")
	ErrCrossCollegeDelete = apperrors.Forbidden("Forbidden: cross-institution delete")
	ErrNoProfile          = apperrors.Validation("Only students and alumni have profiles")
)

// UserService 用户业务接口
type UserService interface {
	GetMe(ctx context.Context, caller *authz.Principal) (*dto.UserResponse, error)
	Get(ctx context.Context, id string, caller *authz.Principal) (*dto.UserResponse, error)
	List(ctx context.Context, role string, caller *authz.Principal) (*dto.UserListResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller *authz.Principal) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id string, req *dto.ProfileRequest, caller *authz.Principal) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, caller *authz.Principal) error

	// ParseImportFile 解析导入 Excel
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	// ImportUsers 将解析后的行导入 collegeID 所指学院
	ImportUsers(ctx context.Context, rows []ImportUserRow, collegeID string, caller *authz.Principal) (*dto.ImportUserResponse, error)
	// ExportUsers 导出调用方可见范围内的用户
	ExportUsers(ctx context.Context, role string, caller *authz.Principal) (*bytes.Buffer, string, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row        int
	Name       string
	Email      string
	Role       string
	Department string
	RollNumber string
	Batch      string
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Get ──────────────────────

func (s *userService) GetMe(ctx context.Context, caller *authz.Principal) (*dto.UserResponse, error) {
	if caller == nil {
		return nil, authz.ErrUnauthenticated
	}
	return s.Get(ctx, caller.UserID, caller)
}

func (s *userService) Get(ctx context.Context, id string, caller *authz.Principal) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if caller == nil || caller.UserID != user.UserID {
		if err := authz.RequireSameCollegeOrSuper(caller, user.ResourceCollege()); err != nil {
			return nil, err
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, role string, caller *authz.Principal) (*dto.UserListResponse, error) {
	if role != "" && !authz.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	collegeID, _, err := authz.ScopeFilter(caller)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.User.List(ctx, &repository.UserListFilters{Role: role, CollegeID: collegeID})
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return &dto.UserListResponse{Count: len(list), Role: role, Users: list}, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller *authz.Principal) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if err := authz.Authorize(caller, user, authz.RelationModify); err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != user.Role {
		if err := s.checkRoleChange(caller, user, *req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}

	if req.CollegeID != nil && *req.CollegeID != model.StrVal(user.CollegeID) {
		if !caller.IsSuperAdmin() {
			return nil, ErrCollegeChange
		}
		if _, err := s.repo.College.GetByID(ctx, *req.CollegeID); err != nil {
			return nil, notFound(err, ErrCollegeNotFound)
		}
		user.CollegeID = model.StrPtr(*req.CollegeID)
	}

	// superadmin 不属于学院；其余角色必须有学院
	if user.Role == model.RoleSuperAdmin {
		user.CollegeID = nil
	} else if model.StrVal(user.CollegeID) == "" {
		return nil, ErrCollegeRequired
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	user.UpdatedBy = &caller.UserID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		// 改为 student / alumni 后补建档案
		if user.HasProfile() && user.Profile == nil {
			return tx.Profile.Upsert(ctx, &model.Profile{UserID: user.UserID})
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户信息已更新", zap.String("user_id", id), zap.String("by", caller.UserID))
	return s.reload(ctx, id)
}

// checkRoleChange 角色修改规则
//   - 不能修改自己的角色
//   - admin 只能在 student / alumni 之间切换
//   - 其余角色无权修改
func (s *userService) checkRoleChange(caller *authz.Principal, target *model.User, newRole string) error {
	if !authz.ValidRole(newRole) {
		return ErrInvalidRole
	}
	if caller.UserID == target.UserID {
		return ErrSelfRoleChange
	}
	switch {
	case caller.IsSuperAdmin():
		return nil
	case caller.IsAdmin():
		if !target.HasProfile() || (newRole != model.RoleStudent && newRole != model.RoleAlumni) {
			return ErrAdminRoleLimit
		}
		return nil
	default:
		return authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin)
	}
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, id string, req *dto.ProfileRequest, caller *authz.Principal) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if err := authz.Authorize(caller, user, authz.RelationModify); err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrNoProfile
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.UserID}
	}
	if err := applyProfile(profile, req); err != nil {
		return nil, err
	}
	profile.UpdatedBy = &caller.UserID

	if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
		s.logger.Error("更新档案失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	user.Profile = profile
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, caller *authz.Principal) error {
	if !caller.HasRole(model.RoleAdmin, model.RoleSuperAdmin) {
		return authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin)
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.UserID == caller.UserID {
		return ErrSelfDelete
	}
	if caller.IsAdmin() && (caller.CollegeID == "" || user.ResourceCollege() != caller.CollegeID) {
		return ErrCrossCollegeDelete
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("user_id", id), zap.String("by", caller.UserID))
	return nil
}

func (s *userService) reload(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = apperrors.Validation("Excel file has no data rows (the first row is the header)")
	ErrImportTooManyRows = apperrors.Validation(fmt.Sprintf("Excel file exceeds the %d row limit", maxImportRows))
	ErrImportBadHeader   = apperrors.Validation("Excel header must contain name and email columns")
	ErrImportBadFile     = apperrors.Validation("Unable to read Excel file")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, ErrImportBadFile.Message, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, ErrImportBadFile.Message, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 表头支持任意列序
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["name"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	cellAt := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:        i + 1,
			Name:       cellAt(row, "name"),
			Email:      cellAt(row, "email"),
			Role:       strings.ToLower(cellAt(row, "role")),
			Department: cellAt(row, "department"),
			RollNumber: cellAt(row, "roll_number"),
			Batch:      cellAt(row, "batch"),
		}

		// 跳过全空行
		if item.Name == "" && item.Email == "" && item.RollNumber == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":        -1,
		"email":       -1,
		"role":        -1,
		"department":  -1,
		"roll_number": -1,
		"batch":       -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		switch key {
		case "name", "full_name":
			idx["name"] = i
		case "email", "email_address":
			idx["email"] = i
		case "role":
			idx["role"] = i
		case "department", "dept":
			idx["department"] = i
		case "roll_number", "roll_no", "rollnumber":
			idx["roll_number"] = i
		case "batch", "batch_name":
			idx["batch"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow, collegeID string, caller *authz.Principal) (*dto.ImportUserResponse, error) {
	if !caller.HasRole(model.RoleAdmin, model.RoleSuperAdmin) {
		return nil, authz.RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin)
	}
	// admin 只能导入到本学院
	if caller.IsAdmin() {
		collegeID = caller.CollegeID
	}
	if collegeID == "" {
		return nil, ErrCollegeRequired
	}
	if err := authz.RequireSameCollegeOrSuper(caller, collegeID); err != nil {
		return nil, err
	}
	college, err := s.repo.College.GetByID(ctx, collegeID)
	if err != nil {
		return nil, notFound(err, ErrCollegeNotFound)
	}

	resp := &dto.ImportUserResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		email := normalizeEmail(row.Email)
		role := row.Role
		if role == "" {
			role = model.RoleStudent
		}

		switch {
		case row.Name == "" || email == "":
			fail(row.Row, "name and email are required")
			continue
		case !strings.Contains(email, "@"):
			fail(row.Row, "invalid email: "+row.Email)
			continue
		case role != model.RoleStudent && role != model.RoleAlumni:
			fail(row.Row, "role must be student or alumni")
			continue
		case seen[email]:
			fail(row.Row, "duplicate email in file: "+email)
			continue
		}
		seen[email] = true

		if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
			fail(row.Row, "email already registered: "+email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("导入时查询邮箱失败", zap.Error(err))
			return nil, err
		}

		tempPwd, err := generateTempPassword(10)
		if err != nil {
			return nil, err
		}
		hash, err := hashPassword(tempPwd, s.cfg.Auth.BcryptCost)
		if err != nil {
			return nil, err
		}

		department := row.Department
		if department == "" {
			department = college.Name
		}
		user := &model.User{
			Name:         row.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Department:   department,
			CollegeID:    model.StrPtr(college.CollegeID),
			BaseModel:    model.BaseModel{CreatedBy: &caller.UserID},
		}

		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.User.Create(ctx, user); err != nil {
				return err
			}
			return tx.Profile.Upsert(ctx, &model.Profile{
				UserID:     user.UserID,
				RollNumber: row.RollNumber,
				Batch:      row.Batch,
				College:    college.Name,
			})
		})
		if err != nil {
			if isDuplicate(err) {
				fail(row.Row, "email already registered: "+email)
				continue
			}
			s.logger.Error("导入用户失败", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "failed to create user")
			continue
		}

		resp.Success++
		resp.Created = append(resp.Created, dto.ImportedUser{Row: row.Row, Email: email, TempPassword: tempPwd})
	}

	s.logger.Info("批量导入完成",
		zap.String("college_id", collegeID),
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// ────────────────────── ExportUsers ──────────────────────

var exportHeader = []string{"Name", "Email", "Role", "Department", "College", "Roll Number", "Batch", "Current Company", "Created At"}

func (s *userService) ExportUsers(ctx context.Context, role string, caller *authz.Principal) (*bytes.Buffer, string, error) {
	list, err := s.List(ctx, role, caller)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	for i, h := range exportHeader {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, c, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	_ = f.SetColWidth(sheet, "A", "B", 28)
	_ = f.SetColWidth(sheet, "C", "I", 16)

	for r, u := range list.Users {
		values := []interface{}{u.Name, u.Email, u.Role, u.Department, u.CollegeName, "", "", "", u.CreatedAt.Format(dateLayout)}
		if u.Profile != nil {
			values[5] = u.Profile.RollNumber
			values[6] = u.Profile.Batch
			values[7] = u.Profile.CurrentCompany
		}
		c, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, c, &values); err != nil {
			return nil, "", err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	name := "users"
	if role != "" {
		name = role
	}
	return buf, fmt.Sprintf("%s_%s.xlsx", name, s.now().Format("20060102")), nil
}
