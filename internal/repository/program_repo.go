package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// ProgramFilter 项目列表过滤条件，空字段表示不过滤
type ProgramFilter struct {
	Status       string
	DepartmentID string
	OfficerID    string
}

// ProgramRepository 项目数据访问接口
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	BatchCreate(ctx context.Context, programs []model.Program) error
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetDetail(ctx context.Context, id string) (*model.Program, error)
	List(ctx context.Context, filter ProgramFilter) ([]model.Program, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateBudgetID(ctx context.Context, id string, budgetID *string) error
	CountByOfficer(ctx context.Context, officerID string) (int64, error)
}

// programRepo ProgramRepository 的 GORM 实现
type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Omit("Officer", "Department", "Budget").Create(program).Error
}

// BatchCreate 批量插入，调用方负责事务
func (r *programRepo) BatchCreate(ctx context.Context, programs []model.Program) error {
	if len(programs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Officer", "Department", "Budget").
		CreateInBatches(programs, 100).Error
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// GetDetail 查询项目并填充负责人、部门和预算
func (r *programRepo) GetDetail(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.withRelations(ctx).
		Where("programs.id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context, filter ProgramFilter) ([]model.Program, error) {
	db := r.withRelations(ctx)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.OfficerID != "" {
		db = db.Where("officer_id = ?", filter.OfficerID)
	}

	var programs []model.Program
	err := db.Order("created_at DESC, id DESC").Find(&programs).Error
	return programs, err
}

func (r *programRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Program{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *programRepo) UpdateBudgetID(ctx context.Context, id string, budgetID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.Program{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"budget_id":  budgetID,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *programRepo) CountByOfficer(ctx context.Context, officerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Program{}).
		Where("officer_id = ?", officerID).
		Count(&count).Error
	return count, err
}

func (r *programRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Officer").
		Preload("Department").
		Preload("Budget")
}
