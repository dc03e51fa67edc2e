package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = apperrors.New(apperrors.KindInternal, 17001, "生成 Excel 文件失败")
)

const (
	sheetSummary    = "总览"
	sheetDepartment = "部门项目"
	sheetActive     = "活跃用户"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 报表导出为 Excel (.xlsx)，共三个 Sheet：总览、部门项目、活跃用户
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportReport 导出报表为 Excel
	ExportReport(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	report ReportService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(report ReportService, logger *zap.Logger) ExportService {
	return &exportService{report: report, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportReport — 导出报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportReport(ctx context.Context) (*bytes.Buffer, string, error) {
	snap, err := s.report.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 1. 总览
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, "", s.fail(err)
	}
	f.SetColWidth(sheetSummary, "A", "A", 18)
	f.SetColWidth(sheetSummary, "B", "B", 14)
	writeHeader(f, sheetSummary, headerStyle, "指标", "数值")
	f.SetCellValue(sheetSummary, cell("A", 2), "项目总数")
	f.SetCellValue(sheetSummary, cell("B", 2), snap.Summary.TotalPrograms)
	f.SetCellValue(sheetSummary, cell("A", 3), "用户总数")
	f.SetCellValue(sheetSummary, cell("B", 3), snap.Summary.TotalUsers)
	f.SetCellValue(sheetSummary, cell("A", 4), "生成时间")
	f.SetCellValue(sheetSummary, cell("B", 4), snap.GeneratedAt.Format(time.RFC3339))

	// 2. 部门项目
	if _, err := f.NewSheet(sheetDepartment); err != nil {
		return nil, "", s.fail(err)
	}
	f.SetColWidth(sheetDepartment, "A", "B", 26)
	f.SetColWidth(sheetDepartment, "C", "C", 10)
	f.SetColWidth(sheetDepartment, "D", "D", 60)
	writeHeader(f, sheetDepartment, headerStyle, "部门 ID", "部门名称", "项目数", "项目")
	for i, row := range snap.ProjectsPerDepartment {
		r := i + 2
		f.SetCellValue(sheetDepartment, cell("A", r), derefOr(row.DepartmentID, "-"))
		f.SetCellValue(sheetDepartment, cell("B", r), derefOr(row.DepartmentName, "未分配部门"))
		f.SetCellValue(sheetDepartment, cell("C", r), row.Count)
		f.SetCellValue(sheetDepartment, cell("D", r), strings.Join(row.Projects, "、"))
	}

	// 3. 活跃用户
	if _, err := f.NewSheet(sheetActive); err != nil {
		return nil, "", s.fail(err)
	}
	f.SetColWidth(sheetActive, "A", "B", 16)
	f.SetColWidth(sheetActive, "C", "C", 30)
	f.SetColWidth(sheetActive, "D", "E", 18)
	writeHeader(f, sheetActive, headerStyle, "名", "姓", "邮箱", "角色", "部门")
	for i, u := range snap.ActiveUsers {
		r := i + 2
		dept := "-"
		if u.Department != nil {
			dept = u.Department.Name
		}
		f.SetCellValue(sheetActive, cell("A", r), u.FirstName)
		f.SetCellValue(sheetActive, cell("B", r), u.LastName)
		f.SetCellValue(sheetActive, cell("C", r), u.Email)
		f.SetCellValue(sheetActive, cell("D", r), u.Role)
		f.SetCellValue(sheetActive, cell("E", r), dept)
	}

	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}

	filename := fmt.Sprintf("report_%s.xlsx", snap.GeneratedAt.Format("20060102_150405"))
	return buf, filename, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("写入 Excel 失败", zap.Error(err))
	return errors.Join(ErrExportGenerateFail, err)
}

// ── 辅助函数 ──

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		c := cell(colName(i), 1)
		f.SetCellValue(sheet, c, title)
		f.SetCellStyle(sheet, c, c, style)
	}
}

func derefOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
