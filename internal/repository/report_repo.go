package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// DepartmentProjectsRow 按负责人部门分组的聚合结果
type DepartmentProjectsRow struct {
	DepartmentID   *string
	DepartmentName *string
	Projects       titleList
	Count          int64
}

// titleList 接收 json_agg 返回的标题数组
type titleList []string

func (l *titleList) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = titleList{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("titleList.Scan: unsupported type %T", src)
	}
	out := titleList{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("titleList.Scan: %w", err)
	}
	*l = out
	return nil
}

// ReportRepository 报表聚合查询接口，每个聚合独立执行
type ReportRepository interface {
	CountPrograms(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	ProjectsPerDepartment(ctx context.Context) ([]DepartmentProjectsRow, error)
}

// reportRepo ReportRepository 的 GORM 实现
type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) CountPrograms(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Program{}).Count(&count).Error
	return count, err
}

func (r *reportRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// projectsPerDepartmentSQL 项目按负责人所属部门分组
// 负责人未归属部门的项目落入 department_id 为 NULL 的分组
const projectsPerDepartmentSQL = `
SELECT u.department_id AS department_id,
       d.name AS department_name,
       json_agg(p.title ORDER BY p.created_at, p.id) AS projects,
       COUNT(p.id) AS count
FROM programs p
JOIN users u ON u.id = p.officer_id
LEFT JOIN departments d ON d.id = u.department_id
GROUP BY u.department_id, d.name
ORDER BY count DESC, d.name ASC NULLS LAST`

func (r *reportRepo) ProjectsPerDepartment(ctx context.Context) ([]DepartmentProjectsRow, error) {
	var rows []DepartmentProjectsRow
	err := r.db.WithContext(ctx).Raw(projectsPerDepartmentSQL).Scan(&rows).Error
	return rows, err
}
