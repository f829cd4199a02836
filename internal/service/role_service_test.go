package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Zerds-Global/Alumini-interaction/internal/model"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
)

func TestRoleListAndStats(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	roles := e.svc.Role.List()
	if len(roles) != 4 {
		t.Errorf("应有 4 种角色，实际 %d", len(roles))
	}

	stats, err := e.svc.Role.Stats(ctx, principalOf(c.adminA))
	if err != nil {
		t.Fatalf("Stats 应成功: %v", err)
	}
	if stats.Total != 3 || stats.Counts[model.RoleStudent] != 1 || stats.Counts[model.RoleSuperAdmin] != 0 {
		t.Errorf("学院 A 统计不符: %+v", stats)
	}

	all, err := e.svc.Role.Stats(ctx, principalOf(c.super))
	if err != nil {
		t.Fatalf("superadmin Stats 应成功: %v", err)
	}
	if all.Total != 7 || all.Counts[model.RoleAdmin] != 2 {
		t.Errorf("全局统计不符: %+v", all)
	}
}

func TestRoleChange(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	if _, _, err := e.svc.Role.Change(ctx, c.studentA.UserID, model.RoleAlumni, principalOf(c.adminA)); !errors.Is(err, ErrRoleChangeDenied) {
		t.Errorf("admin 修改角色期望 ErrRoleChangeDenied，实际: %v", err)
	}
	if _, _, err := e.svc.Role.Change(ctx, c.studentA.UserID, "teacher", principalOf(c.super)); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("非法角色期望 ErrInvalidRole，实际: %v", err)
	}
	if _, _, err := e.svc.Role.Change(ctx, c.super.UserID, model.RoleAdmin, principalOf(c.super)); !errors.Is(err, ErrSelfRoleChange) {
		t.Errorf("修改自己期望 ErrSelfRoleChange，实际: %v", err)
	}

	msg, user, err := e.svc.Role.Change(ctx, c.adminB.UserID, model.RoleAlumni, principalOf(c.super))
	if err != nil {
		t.Fatalf("superadmin 修改角色应成功: %v", err)
	}
	if msg != "User role changed from admin to alumni" {
		t.Errorf("提示消息不符: %s", msg)
	}
	if user.Role != model.RoleAlumni || user.Profile == nil {
		t.Errorf("改为校友后应有档案: %+v", user)
	}
	if _, ok := e.profiles.profiles[c.adminB.UserID]; !ok {
		t.Error("档案应已持久化")
	}
}

func TestPromoteGraduates_Metrics(t *testing.T) {
	e := newTestEnv()
	e.users.promoted = 3

	before := testutil.ToFloat64(metrics.GraduationPromotionsTotal)
	beforeOK := testutil.ToFloat64(metrics.GraduationRunsTotal.WithLabelValues("ok"))

	n, err := e.svc.Graduation.PromoteGraduates(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("PromoteGraduates 应成功: %v", err)
	}
	if n != 3 {
		t.Errorf("期望晋升 3 人，实际 %d", n)
	}
	if got := testutil.ToFloat64(metrics.GraduationPromotionsTotal) - before; got != 3 {
		t.Errorf("晋升计数应增加 3，实际 %v", got)
	}
	if got := testutil.ToFloat64(metrics.GraduationRunsTotal.WithLabelValues("ok")) - beforeOK; got != 1 {
		t.Errorf("成功次数应增加 1，实际 %v", got)
	}
}
