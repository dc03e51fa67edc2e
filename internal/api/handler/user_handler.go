package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetProfile 获取个人资料
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateProfile 更新个人资料
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteProfile 注销本人账号
// DELETE /api/user/profile
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.DeleteProfile(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// List 用户列表
// GET /api/user/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignRole 分配角色
// PUT /api/user/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.userSvc.AssignRole(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignDepartment 调整所属部门
// PUT /api/user/users/:id/department
func (h *UserHandler) AssignDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.userSvc.AssignDepartment(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除用户
// DELETE /api/user/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), callerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}
