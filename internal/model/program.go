package model

import (
	"strings"
	"time"
)

// 项目状态（封闭集合，不限制状态迁移）
const (
	ProgramStatusPlanned   = "PLANNED"
	ProgramStatusActive    = "ACTIVE"
	ProgramStatusCompleted = "COMPLETED"
	ProgramStatusSuspended = "SUSPENDED"
)

// ProgramStatuses 全部合法状态
var ProgramStatuses = []string{
	ProgramStatusPlanned,
	ProgramStatusActive,
	ProgramStatusCompleted,
	ProgramStatusSuspended,
}

// IsValidProgramStatus 判断状态是否在封闭集合内（大小写敏感）
func IsValidProgramStatus(status string) bool {
	for _, s := range ProgramStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// NormalizeProgramStatus 去空白并转大写，空串视为 PLANNED
func NormalizeProgramStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	if s == "" {
		return ProgramStatusPlanned
	}
	return s
}

// Program 项目表 — 对应 programs
type Program struct {
	ObjectIDModel
	Title             string     `gorm:"type:varchar(200);not null"                  json:"title"`
	Description       string     `gorm:"type:text;not null;default:''"               json:"description"`
	Status            string     `gorm:"type:varchar(20);not null;default:'PLANNED'" json:"status"`
	OfficerID         string     `gorm:"type:char(24);not null;index"                json:"officerId"`
	DepartmentID      string     `gorm:"type:char(24);not null;index"                json:"departmentId"`
	StartDate         time.Time  `gorm:"type:timestamptz;not null"                   json:"startDate"`
	EndDate           *time.Time `gorm:"type:timestamptz"                            json:"endDate,omitempty"`
	PrimarySponsor    string     `gorm:"type:varchar(200);not null;default:''"       json:"primarySponsor,omitempty"`
	SupportingSponsor string     `gorm:"type:varchar(200);not null;default:''"       json:"supportingSponsor,omitempty"`
	Impact            string     `gorm:"type:text;not null;default:''"               json:"impact,omitempty"`
	Beneficiaries     *int       `gorm:"type:int"                                   json:"beneficiaries,omitempty"`
	Location          string     `gorm:"type:varchar(200);not null;default:''"       json:"location,omitempty"`
	BudgetID          *string    `gorm:"type:char(24)"                               json:"budgetId,omitempty"`
	CreatedBy         string     `gorm:"type:char(24);not null"                      json:"createdBy"`
	Timestamps

	// 关联
	Officer    *User       `gorm:"foreignKey:OfficerID"    json:"officer,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Budget     *Budget     `gorm:"foreignKey:ProgramID"    json:"budget,omitempty"`
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }
