//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=mis password=mis_password dbname=mis_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 与生产一致，使用嵌入的 SQL 迁移建表
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (dept *model.Department, officer *model.User, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	dept = &model.Department{Name: fmt.Sprintf("测试部门-%d", suffix)}
	if err := testDB.WithContext(ctx).Create(dept).Error; err != nil {
		t.Fatalf("创建部门失败: %v", err)
	}

	officer = &model.User{
		FirstName:    "Test",
		LastName:     "Officer",
		Email:        fmt.Sprintf("officer%d@mis.test", suffix),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleOfficer,
		DepartmentID: &dept.ID,
		IsActive:     true,
	}
	if err := testDB.WithContext(ctx).Create(officer).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	cleanup = func() {
		testDB.Exec("DELETE FROM programs WHERE officer_id = ?", officer.ID)
		testDB.Exec("DELETE FROM audit_logs WHERE performed_by = ?", officer.ID)
		testDB.Exec("DELETE FROM users WHERE id = ?", officer.ID)
		testDB.Exec("DELETE FROM departments WHERE id = ?", dept.ID)
	}
	return
}

func newProgram(officer *model.User, dept *model.Department, title string) *model.Program {
	return &model.Program{
		ObjectIDModel: model.ObjectIDModel{ID: model.NewID()},
		Title:         title,
		Status:        model.ProgramStatusPlanned,
		OfficerID:     officer.ID,
		DepartmentID:  dept.ID,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:     officer.ID,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Commit / Rollback
// ═══════════════════════════════════════════════════════════

func TestTransaction_ProgramWithBudget_Commit(t *testing.T) {
	dept, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	program := newProgram(officer, dept, "事务提交")
	budgetID := model.NewID()
	program.BudgetID = &budgetID

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	if err := txRepo.Program.Create(ctx, program); err != nil {
		tx.Rollback()
		t.Fatalf("创建项目失败: %v", err)
	}
	budget := &model.Budget{
		ObjectIDModel: model.ObjectIDModel{ID: budgetID},
		ProgramID:     program.ID,
		Currency:      model.DefaultCurrency,
	}
	if err := txRepo.Budget.Create(ctx, budget); err != nil {
		tx.Rollback()
		t.Fatalf("创建预算失败: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("提交失败: %v", err)
	}

	got, err := repo.Program.GetDetail(ctx, program.ID)
	if err != nil {
		t.Fatalf("查询项目失败: %v", err)
	}
	if got.Budget == nil || got.Budget.ID != budgetID {
		t.Fatalf("项目应关联预算 %s，实际 %+v", budgetID, got.Budget)
	}
	if got.BudgetID == nil || *got.BudgetID != budgetID {
		t.Error("项目 budget_id 应指向预算")
	}
	if got.Officer == nil || got.Officer.ID != officer.ID {
		t.Error("应填充项目负责人")
	}
}

func TestTransaction_Rollback(t *testing.T) {
	dept, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	program := newProgram(officer, dept, "事务回滚")

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}
	txRepo := repo.WithTx(tx)

	if err := txRepo.Program.Create(ctx, program); err != nil {
		tx.Rollback()
		t.Fatalf("创建项目失败: %v", err)
	}
	tx.Rollback()

	if _, err := repo.Program.GetByID(ctx, program.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("回滚后项目不应存在，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Constraint Translation
// ═══════════════════════════════════════════════════════════

func TestUserRepo_DuplicateEmail(t *testing.T) {
	_, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	dup := &model.User{
		FirstName:    "Dup",
		LastName:     "User",
		Email:        officer.Email,
		PasswordHash: "x",
		Role:         model.RoleOfficer,
		IsActive:     true,
	}
	err := repo.User.Create(context.Background(), dup)
	if !repository.IsUniqueViolation(err) {
		t.Errorf("重复邮箱应识别为唯一约束冲突，实际: %v", err)
	}
}

func TestBudgetRepo_DuplicateProgram(t *testing.T) {
	dept, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	program := newProgram(officer, dept, "唯一预算")
	if err := repo.Program.Create(ctx, program); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	if err := repo.Budget.Create(ctx, &model.Budget{ProgramID: program.ID, Currency: "USD"}); err != nil {
		t.Fatalf("创建预算失败: %v", err)
	}
	err := repo.Budget.Create(ctx, &model.Budget{ProgramID: program.ID, Currency: "USD"})
	if !repository.IsUniqueViolation(err) {
		t.Errorf("同一项目的第二个预算应冲突，实际: %v", err)
	}
}

func TestUserRepo_DeleteOfficerWithPrograms(t *testing.T) {
	dept, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Program.Create(ctx, newProgram(officer, dept, "外键保护")); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}
	err := repo.User.Delete(ctx, officer.ID)
	if !repository.IsForeignKeyViolation(err) {
		t.Errorf("删除仍负责项目的用户应触发外键冲突，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Audit Log Ordering
// ═══════════════════════════════════════════════════════════

func TestAuditLogRepo_ListStableOrder(t *testing.T) {
	_, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &model.AuditLog{
			ActionType:  model.ActionCreate,
			PerformedBy: officer.ID,
			EntityType:  model.EntityProgram,
			EntityID:    model.NewID(),
			Metadata:    model.JSONMap{"seq": i},
		}
		if err := repo.AuditLog.Create(ctx, entry); err != nil {
			t.Fatalf("写入审计日志失败: %v", err)
		}
	}

	filter := repository.AuditLogFilter{PerformedBy: officer.ID}
	first, err := repo.AuditLog.List(ctx, filter, 20)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	second, _ := repo.AuditLog.List(ctx, filter, 20)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("期望 3 条，实际 %d / %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("第 %d 条顺序不一致", i)
		}
	}
	if first[0].Actor == nil || first[0].Actor.ID != officer.ID {
		t.Error("应填充操作人")
	}
	for i := 1; i < len(first); i++ {
		if first[i].CreatedAt.After(first[i-1].CreatedAt) {
			t.Error("结果应按创建时间倒序")
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Report Aggregates
// ═══════════════════════════════════════════════════════════

func TestReportRepo_ProjectsPerDepartment(t *testing.T) {
	dept, officer, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for _, title := range []string{"甲", "乙"} {
		if err := repo.Program.Create(ctx, newProgram(officer, dept, title)); err != nil {
			t.Fatalf("创建项目失败: %v", err)
		}
	}

	rows, err := repo.Report.ProjectsPerDepartment(ctx)
	if err != nil {
		t.Fatalf("ProjectsPerDepartment 失败: %v", err)
	}

	var found bool
	for _, row := range rows {
		if row.DepartmentID != nil && *row.DepartmentID == dept.ID {
			found = true
			if row.Count != 2 || len(row.Projects) != 2 {
				t.Errorf("期望 2 个项目，实际 count=%d projects=%v", row.Count, row.Projects)
			}
			if row.DepartmentName == nil || *row.DepartmentName != dept.Name {
				t.Error("应带出部门名称")
			}
		}
	}
	if !found {
		t.Error("结果中应包含测试部门")
	}
}
