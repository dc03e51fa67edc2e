package model

import "time"

// DefaultCurrency 预算默认币种
const DefaultCurrency = "USD"

// Budget 预算表 — 对应 budgets，与项目一对一
type Budget struct {
	ObjectIDModel
	ProgramID         string     `gorm:"type:char(24);not null;uniqueIndex"      json:"programId"`
	AllocatedAmount   float64    `gorm:"type:numeric(18,2);not null"             json:"allocatedAmount"`
	SpentAmount       float64    `gorm:"type:numeric(18,2);not null;default:0"   json:"spentAmount"`
	Currency          string     `gorm:"type:varchar(3);not null;default:'USD'"  json:"currency"`
	LastSyncedWithERP *time.Time `gorm:"column:last_synced_with_erp"             json:"lastSyncedWithERP,omitempty"`
	Timestamps

	// 关联
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (Budget) TableName() string { return "budgets" }
