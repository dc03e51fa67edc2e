package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── 测试辅助 ──

func setupTestDepartmentService() (DepartmentService, *testRepos) {
	r := newTestRepos()
	svc := NewDepartmentService(r.repo, newTestAuditService(r), NopNotifier{}, zap.NewNop())
	return svc, r
}

// ── Create 测试 ──

func TestDepartmentService_Create_WithHead(t *testing.T) {
	svc, r := setupTestDepartmentService()
	admin := r.addUser(model.RoleSuperAdmin, nil)
	head := r.addUser(model.RoleOfficer, nil)

	resp, err := svc.Create(context.Background(), admin.ID, &dto.CreateDepartmentRequest{Name: " Health ", HeadID: &head.ID})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "Health" {
		t.Errorf("名称应去空白，实际 %q", resp.Name)
	}
	if resp.Head == nil || resp.Head.ID != head.ID {
		t.Error("响应应包含负责人摘要")
	}
	if r.users.users[head.ID].Role != model.RoleDepartmentHead {
		t.Error("负责人应被提升为 DEPARTMENT_HEAD")
	}
	if resp.Programs == nil {
		t.Error("programs 应为空数组而非 nil")
	}

	creates := r.audits.byAction(model.ActionCreate)
	if len(creates) != 1 || creates[0].EntityType != model.EntityDepartment || creates[0].Metadata["name"] != "Health" {
		t.Errorf("期望一条 CREATE Department 审计，实际 %+v", creates)
	}
}

func TestDepartmentService_Create_DuplicateName(t *testing.T) {
	svc, r := setupTestDepartmentService()
	r.addDept("Health")

	_, err := svc.Create(context.Background(), model.NewID(), &dto.CreateDepartmentRequest{Name: "Health"})
	if !errors.Is(err, ErrDepartmentNameExists) {
		t.Errorf("期望 ErrDepartmentNameExists，实际: %v", err)
	}
}

func TestDepartmentService_Create_HeadNotFound(t *testing.T) {
	svc, r := setupTestDepartmentService()
	missing := model.NewID()

	_, err := svc.Create(context.Background(), model.NewID(), &dto.CreateDepartmentRequest{Name: "Health", HeadID: &missing})
	if !errors.Is(err, ErrHeadNotFound) {
		t.Errorf("期望 ErrHeadNotFound，实际: %v", err)
	}
	if len(r.depts.depts) != 0 {
		t.Error("负责人不存在时不应创建部门")
	}
}

// ── AssignHead 测试 ──

func TestDepartmentService_AssignHead(t *testing.T) {
	svc, r := setupTestDepartmentService()
	admin := r.addUser(model.RoleSuperAdmin, nil)
	oldHead := r.addUser(model.RoleDepartmentHead, nil)
	newHead := r.addUser(model.RoleAnalyst, nil)
	dept := r.addDept("Education")
	dept.HeadID = &oldHead.ID

	resp, err := svc.AssignHead(context.Background(), admin.ID, &dto.AssignHeadRequest{DepartmentID: dept.ID, HeadID: newHead.ID})
	if err != nil {
		t.Fatalf("AssignHead 应成功: %v", err)
	}
	if resp.HeadID == nil || *resp.HeadID != newHead.ID {
		t.Error("部门负责人未更新")
	}
	if r.users.users[newHead.ID].Role != model.RoleDepartmentHead {
		t.Error("新负责人应被提升")
	}
	if r.users.users[oldHead.ID].Role != model.RoleDepartmentHead {
		t.Error("原负责人应保留原角色")
	}

	updates := r.audits.byAction(model.ActionUpdate)
	if len(updates) != 1 || updates[0].Metadata["head"] != newHead.ID {
		t.Errorf("期望一条 UPDATE 审计，实际 %+v", updates)
	}
}

func TestDepartmentService_AssignHead_SuperAdminKeepsRole(t *testing.T) {
	svc, r := setupTestDepartmentService()
	admin := r.addUser(model.RoleSuperAdmin, nil)
	dept := r.addDept("Finance")

	if _, err := svc.AssignHead(context.Background(), admin.ID, &dto.AssignHeadRequest{DepartmentID: dept.ID, HeadID: admin.ID}); err != nil {
		t.Fatalf("AssignHead 应成功: %v", err)
	}
	if r.users.users[admin.ID].Role != model.RoleSuperAdmin {
		t.Error("SUPER_ADMIN 不应被降级")
	}
}

func TestDepartmentService_AssignHead_NotFound(t *testing.T) {
	svc, r := setupTestDepartmentService()
	u := r.addUser(model.RoleOfficer, nil)
	dept := r.addDept("Finance")
	ctx := context.Background()

	if _, err := svc.AssignHead(ctx, u.ID, &dto.AssignHeadRequest{DepartmentID: model.NewID(), HeadID: u.ID}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
	if _, err := svc.AssignHead(ctx, u.ID, &dto.AssignHeadRequest{DepartmentID: dept.ID, HeadID: model.NewID()}); !errors.Is(err, ErrHeadNotFound) {
		t.Errorf("期望 ErrHeadNotFound，实际: %v", err)
	}
	if len(r.audits.entries) != 0 {
		t.Error("失败时不应写审计")
	}
}

// ── List / GetByID / Delete 测试 ──

func TestDepartmentService_ListAndGet(t *testing.T) {
	svc, r := setupTestDepartmentService()
	d := r.addDept("B")
	r.addDept("A")
	ctx := context.Background()

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 2 || list[0].Name != "A" {
		t.Errorf("期望按名称排序的 2 个部门，实际 %+v", list)
	}

	got, err := svc.GetByID(ctx, d.ID)
	if err != nil || got.Name != "B" {
		t.Errorf("GetByID 错误: %v %+v", err, got)
	}

	if _, err := svc.GetByID(ctx, "bad"); !errors.Is(err, apperrors.ErrInvalidID) {
		t.Errorf("格式错误的 ID 应返回参数错误，实际: %v", err)
	}
}

func TestDepartmentService_Delete(t *testing.T) {
	svc, r := setupTestDepartmentService()
	d := r.addDept("Temp")

	if err := svc.Delete(context.Background(), model.NewID(), d.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := r.depts.depts[d.ID]; ok {
		t.Error("部门应被删除")
	}
	if err := svc.Delete(context.Background(), model.NewID(), d.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("重复删除期望 ErrDepartmentNotFound，实际: %v", err)
	}
}
