// Package authz 集中定义鉴权策略：角色、学院范围与资源归属。
//
// 每个 Handler/Service 通过 Authorize(principal, resource, relation) 做单对象判定，
// 通过 ScopeFilter 做列表过滤，不再各自拼装判断条件。
package authz

import (
	"strings"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	apperrors "github.com/Zerds-Global/Alumini-interaction/pkg/errors"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
)

// ContextKey gin.Context 中存放 *Principal 的键
const ContextKey = "principal"

// Roles 全部角色，顺序即错误消息中的展示顺序
var Roles = []string{model.RoleAdmin, model.RoleSuperAdmin, model.RoleAlumni, model.RoleStudent}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal 已认证的调用方，字段取自数据库中的身份记录
type Principal struct {
	UserID    string
	Role      string
	CollegeID string
	Name      string
	Email     string
}

// IsSuperAdmin 是否为超级管理员
func (p *Principal) IsSuperAdmin() bool { return p != nil && p.Role == model.RoleSuperAdmin }

// IsAdmin 是否为学院管理员
func (p *Principal) IsAdmin() bool { return p != nil && p.Role == model.RoleAdmin }

// HasRole 角色是否在列表中
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Resource 受学院范围与归属约束的对象
// ResourceCollege 为空表示全局对象（superadmin 创建）
type Resource interface {
	ResourceOwner() string
	ResourceCollege() string
}

// Relation 调用方对资源的操作类别
type Relation int

const (
	// RelationRead 读取：同学院或 superadmin，全局对象对所有认证用户可读
	RelationRead Relation = iota
	// RelationModify 修改/删除：所有者、同学院 admin 或 superadmin
	RelationModify
	// RelationManage 管理：同学院 admin 或 superadmin
	RelationManage
	// RelationEngage 互动（点赞/评论/分享）：严格同学院成员
	RelationEngage
)

func (r Relation) String() string {
	switch r {
	case RelationRead:
		return "read"
	case RelationModify:
		return "modify"
	case RelationManage:
		return "manage"
	case RelationEngage:
		return "engage"
	default:
		return "unknown"
	}
}

var (
	ErrUnauthenticated     = apperrors.Unauthorized("Unauthorized")
	ErrCollegeScopeMissing = apperrors.Forbidden("Forbidden: college scope missing")
	ErrCrossInstitution    = apperrors.Forbidden("Forbidden: cross-institution access denied")
	ErrNoCollege           = apperrors.Forbidden("Forbidden: user must be associated with a college")
	ErrNotOwner            = apperrors.Forbidden("Forbidden: only the owner, a college admin or a superadmin may modify this resource")
	ErrNotMember           = apperrors.Forbidden("Forbidden: not a member of this college")
)

// RequiresRoles 生成 "Forbidden: requires a or b" 错误
func RequiresRoles(roles ...string) *apperrors.Error {
	return apperrors.Forbidden("Forbidden: requires " + strings.Join(roles, " or "))
}

// ──────── 判定函数 ────────

// RequireSameCollegeOrSuper superadmin 直接放行；否则双方学院都存在且相等
func RequireSameCollegeOrSuper(p *Principal, targetCollegeID string) error {
	if p.IsSuperAdmin() {
		return nil
	}
	if p == nil || p.CollegeID == "" || targetCollegeID == "" {
		return deny("scope", p, ErrCollegeScopeMissing)
	}
	if p.CollegeID != targetCollegeID {
		return deny("scope", p, ErrCrossInstitution)
	}
	return nil
}

// IsOwner 调用方是否为资源所有者
func IsOwner(r Resource, p *Principal) bool {
	if p == nil || r == nil {
		return false
	}
	owner := r.ResourceOwner()
	return owner != "" && owner == p.UserID
}

// sameCollege 双方学院都存在且相等
func sameCollege(r Resource, p *Principal) bool {
	c := r.ResourceCollege()
	return p != nil && c != "" && c == p.CollegeID
}

// CanModify 所有者 或 同学院 admin 或 superadmin
func CanModify(r Resource, p *Principal) bool {
	if p == nil || r == nil {
		return false
	}
	return IsOwner(r, p) || (p.IsAdmin() && sameCollege(r, p)) || p.IsSuperAdmin()
}

// ScopeFilter 列表查询的学院过滤条件
// all=true 表示不过滤（superadmin）；否则仅返回 collegeID 下的数据
func ScopeFilter(p *Principal) (collegeID string, all bool, err error) {
	if p == nil {
		return "", false, deny("authn", p, ErrUnauthenticated)
	}
	if p.IsSuperAdmin() {
		return "", true, nil
	}
	if p.CollegeID == "" {
		return "", false, deny("scope", p, ErrNoCollege)
	}
	return p.CollegeID, false, nil
}

// Authorize 单对象鉴权入口
func Authorize(p *Principal, r Resource, rel Relation) error {
	if p == nil {
		return deny("authn", p, ErrUnauthenticated)
	}

	switch rel {
	case RelationRead:
		if r.ResourceCollege() == "" {
			return nil
		}
		return RequireSameCollegeOrSuper(p, r.ResourceCollege())

	case RelationModify:
		if CanModify(r, p) {
			return nil
		}
		return deny("ownership", p, ErrNotOwner)

	case RelationManage:
		if !p.HasRole(model.RoleAdmin, model.RoleSuperAdmin) {
			return deny("role", p, RequiresRoles(model.RoleAdmin, model.RoleSuperAdmin))
		}
		return RequireSameCollegeOrSuper(p, r.ResourceCollege())

	case RelationEngage:
		// 互动不对 superadmin 开放：superadmin 不属于任何学院
		if !sameCollege(r, p) {
			return deny("membership", p, ErrNotMember)
		}
		return nil
	}

	return deny("unknown", p, apperrors.Forbidden("Forbidden"))
}

func deny(stage string, p *Principal, err *apperrors.Error) error {
	role := ""
	if p != nil {
		role = p.Role
	}
	metrics.RecordDenied(stage, role)
	return err
}
