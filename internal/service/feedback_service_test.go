package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/model"
)

func TestFeedbackCreate_Defaults(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	fb, err := e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "More events please"}, principalOf(c.studentA))
	if err != nil {
		t.Fatalf("提交反馈应成功: %v", err)
	}
	if fb.Name != "studentA" || fb.Email != "studenta@test.edu" || fb.CollegeID != c.collegeA.CollegeID {
		t.Errorf("缺省字段应取提交者: %+v", fb)
	}

	if _, err := e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "x"}, principalOf(c.super)); !errors.Is(err, ErrFeedbackNoCollege) {
		t.Errorf("无学院提交期望 ErrFeedbackNoCollege，实际: %v", err)
	}
}

func TestFeedbackListAndGet(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	fa, _ := e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "A"}, principalOf(c.studentA))
	e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "B"}, principalOf(c.studentB))

	list, err := e.svc.Feedback.List(ctx, principalOf(c.adminA))
	if err != nil {
		t.Fatalf("admin List 应成功: %v", err)
	}
	if len(list) != 1 || list[0].ID != fa.ID {
		t.Errorf("admin 只应看到本学院反馈: %+v", list)
	}
	if all, _ := e.svc.Feedback.List(ctx, principalOf(c.super)); len(all) != 2 {
		t.Errorf("superadmin 应看到全部反馈，实际 %d", len(all))
	}
	if _, err := e.svc.Feedback.List(ctx, principalOf(c.studentA)); err == nil {
		t.Error("学生查看反馈列表应被拒绝")
	}

	if _, err := e.svc.Feedback.Get(ctx, fa.ID, principalOf(c.studentA)); err != nil {
		t.Errorf("提交者本人可查看: %v", err)
	}
	if _, err := e.svc.Feedback.Get(ctx, fa.ID, principalOf(c.alumniA)); err == nil {
		t.Error("同学院其他成员不应查看")
	}
	if _, err := e.svc.Feedback.Get(ctx, fa.ID, principalOf(c.adminB)); !errors.Is(err, authz.ErrCrossInstitution) {
		t.Errorf("其他学院 admin 期望 ErrCrossInstitution，实际: %v", err)
	}
}

func TestFeedbackModify_Ownership(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	tests := []struct {
		name   string
		caller *model.User
		allow  bool
	}{
		{"提交者", c.studentA, true},
		{"同学院 admin", c.adminA, true},
		{"superadmin", c.super, true},
		{"同学院校友", c.alumniA, false},
		{"其他学院 admin", c.adminB, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "orig"}, principalOf(c.studentA))
			if err != nil {
				t.Fatalf("提交反馈失败: %v", err)
			}

			upd, err := e.svc.Feedback.Update(ctx, fb.ID, &dto.UpdateFeedbackRequest{Message: strp("changed")}, principalOf(tt.caller))
			if tt.allow {
				if err != nil {
					t.Fatalf("修改应成功: %v", err)
				}
				if upd.Message != "changed" {
					t.Errorf("内容未更新: %+v", upd)
				}
			} else if !errors.Is(err, authz.ErrNotOwner) {
				t.Errorf("修改期望 ErrNotOwner，实际: %v", err)
			}

			err = e.svc.Feedback.Delete(ctx, fb.ID, principalOf(tt.caller))
			if tt.allow && err != nil {
				t.Errorf("删除应成功: %v", err)
			}
			if !tt.allow && !errors.Is(err, authz.ErrNotOwner) {
				t.Errorf("删除期望 ErrNotOwner，实际: %v", err)
			}
		})
	}
}

func TestFeedbackUpdate_BlankFieldsKeepValues(t *testing.T) {
	e := newTestEnv()
	c := e.seedCampus()
	ctx := context.Background()

	fb, err := e.svc.Feedback.Create(ctx, &dto.CreateFeedbackRequest{Message: "Library hours"}, principalOf(c.studentA))
	if err != nil {
		t.Fatalf("提交反馈失败: %v", err)
	}

	blank, spaces, dept := "", "   ", "Library"
	got, err := e.svc.Feedback.Update(ctx, fb.ID, &dto.UpdateFeedbackRequest{
		Name:       &blank,
		Email:      &blank,
		Message:    &spaces,
		Department: &dept,
	}, principalOf(c.studentA))
	if err != nil {
		t.Fatalf("更新反馈失败: %v", err)
	}
	if got.Email != "studenta@test.edu" || got.Name != "studentA" || got.Message != "Library hours" {
		t.Errorf("空值不应覆盖原有字段: %+v", got)
	}
	if got.Department != "Library" {
		t.Errorf("department 应更新，实际 %q", got.Department)
	}

	stored, _ := e.feedback.GetByID(ctx, fb.ID)
	if stored.Email != "studenta@test.edu" {
		t.Errorf("存储中的邮箱被清空: %q", stored.Email)
	}

	email := " New@Test.EDU "
	got, err = e.svc.Feedback.Update(ctx, fb.ID, &dto.UpdateFeedbackRequest{Email: &email}, principalOf(c.studentA))
	if err != nil || got.Email != "new@test.edu" {
		t.Errorf("非空邮箱应规范化后更新: %+v, %v", got, err)
	}
}
