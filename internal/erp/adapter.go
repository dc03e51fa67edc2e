// Package erp 将外部 ERP 项目记录映射为本地项目草稿
package erp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

var (
	ErrMissingName    = errors.New("缺少 project_name")
	ErrMissingOfficer = errors.New("缺少 project_officer")
	ErrInvalidOfficer = errors.New("project_officer 格式无效")
	ErrMissingStart   = errors.New("缺少 start")
	ErrInvalidStart   = errors.New("start 日期格式无效")
	ErrInvalidEnd     = errors.New("end 日期格式无效")
	ErrEndBeforeStart = errors.New("end 早于 start")
	ErrUnknownStatus  = errors.New("未知的 project_status")
)

// ProgramDraft 映射后的项目字段，尚未绑定部门与创建人
type ProgramDraft struct {
	Title       string
	Description string
	Status      string
	OfficerID   string
	StartDate   time.Time
	EndDate     *time.Time
}

// Transform 纯映射，不访问存储
// 状态统一去空白转大写，空值视为 PLANNED，其余不在封闭集合内的取值一律拒绝
func Transform(ext dto.ExternalProject) (ProgramDraft, error) {
	title := strings.TrimSpace(ext.ProjectName)
	if title == "" {
		return ProgramDraft{}, ErrMissingName
	}

	officer := strings.TrimSpace(ext.ProjectOfficer)
	if officer == "" {
		return ProgramDraft{}, ErrMissingOfficer
	}
	if !model.IsObjectID(officer) {
		return ProgramDraft{}, ErrInvalidOfficer
	}

	status := model.NormalizeProgramStatus(ext.ProjectStatus)
	if !model.IsValidProgramStatus(status) {
		return ProgramDraft{}, fmt.Errorf("%w: %q", ErrUnknownStatus, ext.ProjectStatus)
	}

	if strings.TrimSpace(ext.Start) == "" {
		return ProgramDraft{}, ErrMissingStart
	}
	start, err := dto.ParseDate(ext.Start)
	if err != nil {
		return ProgramDraft{}, ErrInvalidStart
	}

	draft := ProgramDraft{
		Title:       title,
		Description: ext.ProjectDesc,
		Status:      status,
		OfficerID:   officer,
		StartDate:   start,
	}

	if strings.TrimSpace(ext.End) != "" {
		end, err := dto.ParseDate(ext.End)
		if err != nil {
			return ProgramDraft{}, ErrInvalidEnd
		}
		if end.Before(start) {
			return ProgramDraft{}, ErrEndBeforeStart
		}
		draft.EndDate = &end
	}

	return draft, nil
}
