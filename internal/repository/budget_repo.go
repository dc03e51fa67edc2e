package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// BudgetRepository 预算数据访问接口
type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	BatchCreate(ctx context.Context, budgets []model.Budget) error
	GetByID(ctx context.Context, id string) (*model.Budget, error)
	GetByProgramID(ctx context.Context, programID string) (*model.Budget, error)
	List(ctx context.Context) ([]model.Budget, error)
	Update(ctx context.Context, budget *model.Budget) error
	Delete(ctx context.Context, id string) error
}

// budgetRepo BudgetRepository 的 GORM 实现
type budgetRepo struct {
	db *gorm.DB
}

// NewBudgetRepo 创建 BudgetRepository 实例
func NewBudgetRepo(db *gorm.DB) BudgetRepository {
	return &budgetRepo{db: db}
}

func (r *budgetRepo) Create(ctx context.Context, budget *model.Budget) error {
	return r.db.WithContext(ctx).Omit("Program").Create(budget).Error
}

func (r *budgetRepo) BatchCreate(ctx context.Context, budgets []model.Budget) error {
	if len(budgets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Program").CreateInBatches(budgets, 100).Error
}

func (r *budgetRepo) GetByID(ctx context.Context, id string) (*model.Budget, error) {
	var budget model.Budget
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("id = ?", id).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepo) GetByProgramID(ctx context.Context, programID string) (*model.Budget, error) {
	var budget model.Budget
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepo) List(ctx context.Context) ([]model.Budget, error) {
	var budgets []model.Budget
	err := r.db.WithContext(ctx).
		Preload("Program").
		Order("created_at DESC, id DESC").
		Find(&budgets).Error
	return budgets, err
}

func (r *budgetRepo) Update(ctx context.Context, budget *model.Budget) error {
	return r.db.WithContext(ctx).
		Model(&model.Budget{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"allocated_amount": budget.AllocatedAmount,
			"spent_amount":     budget.SpentAmount,
			"currency":         budget.Currency,
			"updated_at":       gorm.Expr("NOW()"),
		}).Error
}

func (r *budgetRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Budget{}).Error
}
