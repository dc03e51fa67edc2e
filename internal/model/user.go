package model

// 角色（封闭集合）
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleDepartmentHead = "DEPARTMENT_HEAD"
	RoleAnalyst        = "ANALYST"
	RoleOfficer        = "OFFICER"
)

// Roles 全部合法角色
var Roles = []string{RoleSuperAdmin, RoleDepartmentHead, RoleAnalyst, RoleOfficer}

// IsValidRole 判断角色是否在封闭集合内
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User 用户表 — 对应 users
type User struct {
	ObjectIDModel
	FirstName    string  `gorm:"type:varchar(100);not null"                  json:"firstName"`
	LastName     string  `gorm:"type:varchar(100);not null"                  json:"lastName"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"      json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                  json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'OFFICER'" json:"role"`
	DepartmentID *string `gorm:"type:char(24)"                               json:"departmentId,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                       json:"isActive"`
	Timestamps

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
