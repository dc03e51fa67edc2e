package model

import "time"

// Department 部门表 — 对应 departments
// 项目集合由 programs.department_id 反查得到，不单独存储
type Department struct {
	ObjectIDModel
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex"      json:"name"`
	HeadID    *string   `gorm:"type:char(24)"                               json:"headId,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"          json:"createdAt"`

	// 关联
	Head     *User     `gorm:"foreignKey:HeadID"       json:"head,omitempty"`
	Programs []Program `gorm:"foreignKey:DepartmentID" json:"programs,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
