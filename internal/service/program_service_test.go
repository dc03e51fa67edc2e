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

func setupTestProgramService() (ProgramService, *testRepos, *countingNotifier) {
	r := newTestRepos()
	n := &countingNotifier{}
	svc := NewProgramService(r.repo, newTestAuditService(r), n, zap.NewNop())
	return svc, r, n
}

func programReq(officerID, deptID string) *dto.CreateProgramRequest {
	return &dto.CreateProgramRequest{
		Title:        "Clean Water",
		OfficerID:    officerID,
		DepartmentID: deptID,
		StartDate:    "2025-01-01",
	}
}

// ── Create 测试 ──

func TestProgramService_Create_WithBudget(t *testing.T) {
	svc, r, n := setupTestProgramService()
	dept := r.addDept("Health")
	head := r.addUser(model.RoleDepartmentHead, &dept.ID)
	officer := r.addUser(model.RoleOfficer, &dept.ID)

	req := programReq(officer.ID, dept.ID)
	req.Title = "  Clean Water  "
	resp, err := svc.Create(context.Background(), head.ID, req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != model.ProgramStatusPlanned {
		t.Errorf("期望 PLANNED，实际 %s", resp.Status)
	}
	if resp.Title != "Clean Water" {
		t.Errorf("标题应去空白，实际 %q", resp.Title)
	}

	// 恰好一份预算，双向关联
	if len(r.budgets.budgets) != 1 {
		t.Fatalf("期望 1 份预算，实际 %d", len(r.budgets.budgets))
	}
	var budget *model.Budget
	for _, b := range r.budgets.budgets {
		budget = b
	}
	if budget.AllocatedAmount != 0 || budget.Currency != model.DefaultCurrency {
		t.Errorf("预算应为 0 %s，实际 %+v", model.DefaultCurrency, budget)
	}
	if budget.ProgramID != resp.ID {
		t.Error("预算应指向项目")
	}
	stored := r.programs.programs[resp.ID]
	if stored.BudgetID == nil || *stored.BudgetID != budget.ID {
		t.Error("项目应指向预算")
	}
	if stored.CreatedBy != head.ID {
		t.Error("createdBy 应为调用者")
	}

	// 两条审计：项目与预算
	creates := r.audits.byAction(model.ActionCreate)
	if len(creates) != 2 {
		t.Fatalf("期望 2 条 CREATE 审计，实际 %d", len(creates))
	}
	if creates[0].EntityType != model.EntityProgram || creates[1].EntityType != model.EntityBudget {
		t.Errorf("审计实体顺序错误: %s, %s", creates[0].EntityType, creates[1].EntityType)
	}
	if creates[1].Metadata["auto"] != true {
		t.Error("自动预算审计应标记 auto")
	}
	if n.count() != 1 {
		t.Errorf("期望通知看板 1 次，实际 %d", n.count())
	}
}

func TestProgramService_Create_UnknownOfficer(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")

	_, err := svc.Create(context.Background(), model.NewID(), programReq(model.NewID(), dept.ID))
	if !errors.Is(err, ErrOfficerNotFound) {
		t.Errorf("期望 ErrOfficerNotFound，实际: %v", err)
	}
	if len(r.programs.programs) != 0 || len(r.budgets.budgets) != 0 || len(r.audits.entries) != 0 {
		t.Error("负责人不存在时不应写入任何数据")
	}
}

func TestProgramService_Create_UnknownDepartment(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	officer := r.addUser(model.RoleOfficer, nil)

	_, err := svc.Create(context.Background(), model.NewID(), programReq(officer.ID, model.NewID()))
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

func TestProgramService_Create_DateErrors(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")
	officer := r.addUser(model.RoleOfficer, &dept.ID)
	ctx := context.Background()

	req := programReq(officer.ID, dept.ID)
	req.StartDate = "yesterday"
	if _, err := svc.Create(ctx, officer.ID, req); !errors.Is(err, ErrInvalidProgramDate) {
		t.Errorf("期望 ErrInvalidProgramDate，实际: %v", err)
	}

	req = programReq(officer.ID, dept.ID)
	end := "2024-12-31"
	req.EndDate = &end
	if _, err := svc.Create(ctx, officer.ID, req); !errors.Is(err, ErrProgramDateRange) {
		t.Errorf("期望 ErrProgramDateRange，实际: %v", err)
	}
}

func TestProgramService_Create_StoreFailureWritesNoAudit(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")
	officer := r.addUser(model.RoleOfficer, &dept.ID)
	r.budgets.createErr = errMockDB

	_, err := svc.Create(context.Background(), officer.ID, programReq(officer.ID, dept.ID))
	if !errors.Is(err, errMockDB) {
		t.Errorf("期望透传存储错误，实际: %v", err)
	}
	if len(r.audits.entries) != 0 {
		t.Error("写入失败时不应有审计")
	}
}

// ── UpdateStatus 测试 ──

func TestProgramService_UpdateStatus(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")
	officer := r.addUser(model.RoleOfficer, &dept.ID)
	ctx := context.Background()

	created, _ := svc.Create(ctx, officer.ID, programReq(officer.ID, dept.ID))
	before := len(r.audits.entries)

	resp, err := svc.UpdateStatus(ctx, officer.ID, created.ID, &dto.UpdateProgramStatusRequest{Status: model.ProgramStatusActive})
	if err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if resp.Status != model.ProgramStatusActive {
		t.Errorf("期望 ACTIVE，实际 %s", resp.Status)
	}
	if len(r.audits.entries) != before+1 {
		t.Fatal("期望新增 1 条审计")
	}
	last := r.audits.entries[len(r.audits.entries)-1]
	if last.Metadata["previousStatus"] != model.ProgramStatusPlanned {
		t.Errorf("审计应记录原状态，实际 %v", last.Metadata)
	}
}

func TestProgramService_UpdateStatus_Invalid(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")
	officer := r.addUser(model.RoleOfficer, &dept.ID)
	ctx := context.Background()

	created, _ := svc.Create(ctx, officer.ID, programReq(officer.ID, dept.ID))
	before := len(r.audits.entries)

	for _, status := range []string{"ARCHIVED", "active", ""} {
		_, err := svc.UpdateStatus(ctx, officer.ID, created.ID, &dto.UpdateProgramStatusRequest{Status: status})
		if !errors.Is(err, ErrInvalidProgramStatus) {
			t.Errorf("状态 %q 期望 ErrInvalidProgramStatus，实际: %v", status, err)
		}
	}
	if len(r.audits.entries) != before {
		t.Error("无效状态不应写审计")
	}
	if r.programs.programs[created.ID].Status != model.ProgramStatusPlanned {
		t.Error("无效状态不应修改项目")
	}
}

func TestProgramService_UpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := setupTestProgramService()

	_, err := svc.UpdateStatus(context.Background(), model.NewID(), model.NewID(), &dto.UpdateProgramStatusRequest{Status: model.ProgramStatusActive})
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("期望 ErrProgramNotFound，实际: %v", err)
	}
}

// ── List / GetByID 测试 ──

func TestProgramService_ListFilter(t *testing.T) {
	svc, r, _ := setupTestProgramService()
	dept := r.addDept("Health")
	a := r.addUser(model.RoleOfficer, &dept.ID)
	b := r.addUser(model.RoleOfficer, &dept.ID)
	ctx := context.Background()

	_, _ = svc.Create(ctx, a.ID, programReq(a.ID, dept.ID))
	_, _ = svc.Create(ctx, b.ID, programReq(b.ID, dept.ID))

	all, err := svc.List(ctx, &dto.ProgramListRequest{})
	if err != nil || len(all) != 2 {
		t.Fatalf("期望 2 个项目，实际 %d (%v)", len(all), err)
	}
	mine, _ := svc.List(ctx, &dto.ProgramListRequest{OfficerID: a.ID})
	if len(mine) != 1 || mine[0].OfficerID != a.ID {
		t.Errorf("按负责人过滤错误: %+v", mine)
	}
}

func TestProgramService_GetByID_InvalidID(t *testing.T) {
	svc, _, _ := setupTestProgramService()

	_, err := svc.GetByID(context.Background(), "123")
	if !errors.Is(err, apperrors.ErrInvalidID) {
		t.Errorf("期望 ErrInvalidID，实际: %v", err)
	}
}
