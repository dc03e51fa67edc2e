package service

import (
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// ── model → dto 转换 ──

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if user.Department != nil {
		resp.Department = &dto.DeptBrief{ID: user.Department.ID, Name: user.Department.Name}
	}
	return resp
}

func toUserResponses(users []model.User) []dto.UserResponse {
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result
}

func toUserSummary(user *model.User) *dto.UserSummary {
	if user == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}

func toDepartmentResponse(dept *model.Department) dto.DepartmentResponse {
	programs := make([]dto.ProgramSummary, 0, len(dept.Programs))
	for i := range dept.Programs {
		p := &dept.Programs[i]
		programs = append(programs, dto.ProgramSummary{
			ID:      p.ID,
			Title:   p.Title,
			Status:  p.Status,
			Officer: toUserSummary(p.Officer),
		})
	}
	return dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		HeadID:    dept.HeadID,
		Head:      toUserSummary(dept.Head),
		Programs:  programs,
		CreatedAt: dept.CreatedAt,
	}
}

func toProgramResponse(p *model.Program) dto.ProgramResponse {
	resp := dto.ProgramResponse{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Status:            p.Status,
		OfficerID:         p.OfficerID,
		Officer:           toUserSummary(p.Officer),
		DepartmentID:      p.DepartmentID,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		PrimarySponsor:    p.PrimarySponsor,
		SupportingSponsor: p.SupportingSponsor,
		Impact:            p.Impact,
		Beneficiaries:     p.Beneficiaries,
		Location:          p.Location,
		BudgetID:          p.BudgetID,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.Department != nil {
		resp.Department = &dto.DeptBrief{ID: p.Department.ID, Name: p.Department.Name}
	}
	if p.Budget != nil {
		resp.Budget = &dto.BudgetBrief{
			ID:              p.Budget.ID,
			AllocatedAmount: p.Budget.AllocatedAmount,
			SpentAmount:     p.Budget.SpentAmount,
			Currency:        p.Budget.Currency,
		}
	}
	return resp
}

func toBudgetResponse(b *model.Budget) dto.BudgetResponse {
	resp := dto.BudgetResponse{
		ID:                b.ID,
		ProgramID:         b.ProgramID,
		AllocatedAmount:   b.AllocatedAmount,
		SpentAmount:       b.SpentAmount,
		Currency:          b.Currency,
		LastSyncedWithERP: b.LastSyncedWithERP,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.Program != nil {
		resp.Program = &dto.ProgramBrief{ID: b.Program.ID, Title: b.Program.Title, Status: b.Program.Status}
	}
	return resp
}

func toAuditLogResponse(e *model.AuditLog) dto.AuditLogResponse {
	metadata := map[string]interface{}(e.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return dto.AuditLogResponse{
		ID:          e.ID,
		ActionType:  e.ActionType,
		PerformedBy: e.PerformedBy,
		Actor:       toUserSummary(e.Actor),
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
	}
}
