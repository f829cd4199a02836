package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer 路由级角色策略表（role, object, action）
// 启动后只读，可并发使用
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer 加载内嵌的模型与策略
func NewEnforcer() (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: e}, nil
}

// loadPolicy 逐行解析 policy.csv
func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Can 角色能否对 object 执行 action
func (e *Enforcer) Can(role, object, action string) bool {
	ok, err := e.enforcer.Enforce(role, object, action)
	return err == nil && ok
}

// AllowedRoles 返回可执行 object/action 的全部角色，顺序同 Roles
func (e *Enforcer) AllowedRoles(object, action string) []string {
	var allowed []string
	for _, r := range Roles {
		if e.Can(r, object, action) {
			allowed = append(allowed, r)
		}
	}
	return allowed
}
