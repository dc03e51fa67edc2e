package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
)

var errMockDB = errors.New("mock db error")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	createErr error
	deleteErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = model.NewID()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id, role string) error {
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *mockUserRepo) UpdateDepartment(_ context.Context, id string, departmentID *string) error {
	if u, ok := m.users[id]; ok {
		u.DepartmentID = departmentID
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockUserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	all, _ := m.List(ctx)
	result := make([]model.User, 0, len(all))
	for _, u := range all {
		if u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.ID == "" {
		dept.ID = model.NewID()
	}
	m.depts[dept.ID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetDetail(ctx context.Context, id string) (*model.Department, error) {
	return m.GetByID(ctx, id)
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	result := make([]model.Department, 0, len(m.depts))
	for _, d := range m.depts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) UpdateHead(_ context.Context, id string, headID *string) error {
	if d, ok := m.depts[id]; ok {
		d.HeadID = headID
	}
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string) error {
	delete(m.depts, id)
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs  map[string]*model.Program
	createErr error
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	if m.createErr != nil {
		return m.createErr
	}
	if program.ID == "" {
		program.ID = model.NewID()
	}
	cp := *program
	m.programs[program.ID] = &cp
	return nil
}

func (m *mockProgramRepo) BatchCreate(ctx context.Context, programs []model.Program) error {
	if m.createErr != nil {
		return m.createErr
	}
	for i := range programs {
		if err := m.Create(ctx, &programs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetDetail(ctx context.Context, id string) (*model.Program, error) {
	return m.GetByID(ctx, id)
}

func (m *mockProgramRepo) List(_ context.Context, filter repository.ProgramFilter) ([]model.Program, error) {
	result := make([]model.Program, 0, len(m.programs))
	for _, p := range m.programs {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.DepartmentID != "" && p.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.OfficerID != "" && p.OfficerID != filter.OfficerID {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockProgramRepo) UpdateStatus(_ context.Context, id, status string) error {
	if p, ok := m.programs[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *mockProgramRepo) UpdateBudgetID(_ context.Context, id string, budgetID *string) error {
	if p, ok := m.programs[id]; ok {
		p.BudgetID = budgetID
	}
	return nil
}

func (m *mockProgramRepo) CountByOfficer(_ context.Context, officerID string) (int64, error) {
	var n int64
	for _, p := range m.programs {
		if p.OfficerID == officerID {
			n++
		}
	}
	return n, nil
}

// ── Mock BudgetRepository ──

type mockBudgetRepo struct {
	budgets   map[string]*model.Budget
	createErr error
}

func newMockBudgetRepo() *mockBudgetRepo {
	return &mockBudgetRepo{budgets: make(map[string]*model.Budget)}
}

func (m *mockBudgetRepo) Create(_ context.Context, budget *model.Budget) error {
	if m.createErr != nil {
		return m.createErr
	}
	if budget.ID == "" {
		budget.ID = model.NewID()
	}
	cp := *budget
	m.budgets[budget.ID] = &cp
	return nil
}

func (m *mockBudgetRepo) BatchCreate(ctx context.Context, budgets []model.Budget) error {
	for i := range budgets {
		if err := m.Create(ctx, &budgets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockBudgetRepo) GetByID(_ context.Context, id string) (*model.Budget, error) {
	if b, ok := m.budgets[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBudgetRepo) GetByProgramID(_ context.Context, programID string) (*model.Budget, error) {
	for _, b := range m.budgets {
		if b.ProgramID == programID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBudgetRepo) List(_ context.Context) ([]model.Budget, error) {
	result := make([]model.Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBudgetRepo) Update(_ context.Context, budget *model.Budget) error {
	cp := *budget
	m.budgets[budget.ID] = &cp
	return nil
}

func (m *mockBudgetRepo) Delete(_ context.Context, id string) error {
	delete(m.budgets, id)
	return nil
}

// ── Mock AuditLogRepository ──

// mockAuditLogRepo failN > 0 时前 failN 次写入返回错误
type mockAuditLogRepo struct {
	mu       sync.Mutex
	entries  []model.AuditLog
	failN    int
	attempts int
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failN > 0 {
		m.failN--
		return errMockDB
	}
	if entry.ID == "" {
		entry.ID = model.NewID()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, limit int) ([]model.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.AuditLog, 0, len(m.entries))
	// 最新在前
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		if filter.ActionType != "" && e.ActionType != filter.ActionType {
			continue
		}
		if filter.PerformedBy != "" && e.PerformedBy != filter.PerformedBy {
			continue
		}
		result = append(result, e)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// byAction 按动作类型筛选已写入的审计
func (m *mockAuditLogRepo) byAction(action string) []model.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AuditLog
	for _, e := range m.entries {
		if e.ActionType == action {
			result = append(result, e)
		}
	}
	return result
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	programs int64
	users    int64
	rows     []repository.DepartmentProjectsRow
	err      error
}

func (m *mockReportRepo) CountPrograms(_ context.Context) (int64, error) {
	return m.programs, m.err
}

func (m *mockReportRepo) CountUsers(_ context.Context) (int64, error) {
	return m.users, m.err
}

func (m *mockReportRepo) ProjectsPerDepartment(_ context.Context) ([]repository.DepartmentProjectsRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

// ── Mock ChangeNotifier ──

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) NotifyChange() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// ── 测试用聚合 ──

type testRepos struct {
	repo     *repository.Repository
	users    *mockUserRepo
	depts    *mockDeptRepo
	programs *mockProgramRepo
	budgets  *mockBudgetRepo
	audits   *mockAuditLogRepo
	report   *mockReportRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		users:    newMockUserRepo(),
		depts:    newMockDeptRepo(),
		programs: newMockProgramRepo(),
		budgets:  newMockBudgetRepo(),
		audits:   newMockAuditLogRepo(),
		report:   &mockReportRepo{},
	}
	r.repo = &repository.Repository{
		User:       r.users,
		Department: r.depts,
		Program:    r.programs,
		Budget:     r.budgets,
		AuditLog:   r.audits,
		Report:     r.report,
	}
	return r
}

// addUser 直接写入测试用户
func (r *testRepos) addUser(role string, deptID *string) *model.User {
	u := &model.User{
		ObjectIDModel: model.ObjectIDModel{ID: model.NewID()},
		FirstName:     "Test",
		LastName:      role,
		Email:         model.NewID() + "@example.com",
		PasswordHash:  "x",
		Role:          role,
		DepartmentID:  deptID,
		IsActive:      true,
	}
	r.users.users[u.ID] = u
	return u
}

// addDept 直接写入测试部门
func (r *testRepos) addDept(name string) *model.Department {
	d := &model.Department{ObjectIDModel: model.ObjectIDModel{ID: model.NewID()}, Name: name}
	r.depts.depts[d.ID] = d
	return d
}
