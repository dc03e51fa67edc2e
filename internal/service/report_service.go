package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
)

// ReportService 报表业务接口
// 各聚合按需实时计算，互不依赖
type ReportService interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
	ProjectsPerDepartment(ctx context.Context) ([]dto.DepartmentProjects, error)
	ActiveUsers(ctx context.Context) ([]dto.UserResponse, error)
	// Snapshot 组合三个聚合，供看板推送
	Snapshot(ctx context.Context) (*dto.DashboardSnapshot, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	programs, err := s.repo.Report.CountPrograms(ctx)
	if err != nil {
		s.logger.Error("统计项目总数失败", zap.Error(err))
		return nil, err
	}
	users, err := s.repo.Report.CountUsers(ctx)
	if err != nil {
		s.logger.Error("统计用户总数失败", zap.Error(err))
		return nil, err
	}
	return &dto.SummaryResponse{TotalPrograms: programs, TotalUsers: users}, nil
}

func (s *reportService) ProjectsPerDepartment(ctx context.Context) ([]dto.DepartmentProjects, error) {
	rows, err := s.repo.Report.ProjectsPerDepartment(ctx)
	if err != nil {
		s.logger.Error("按部门统计项目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentProjects, 0, len(rows))
	for _, row := range rows {
		projects := []string(row.Projects)
		if projects == nil {
			projects = []string{}
		}
		result = append(result, dto.DepartmentProjects{
			DepartmentID:   row.DepartmentID,
			DepartmentName: row.DepartmentName,
			Projects:       projects,
			Count:          row.Count,
		})
	}
	return result, nil
}

func (s *reportService) ActiveUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询活跃用户失败", zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *reportService) Snapshot(ctx context.Context) (*dto.DashboardSnapshot, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	perDept, err := s.ProjectsPerDepartment(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardSnapshot{
		Summary:               *summary,
		ProjectsPerDepartment: perDept,
		ActiveUsers:           active,
		GeneratedAt:           time.Now().UTC(),
	}, nil
}
