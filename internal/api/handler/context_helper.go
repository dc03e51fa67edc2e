package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		unauthenticated(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		unauthenticated(c)
		return "", false
	}
	return s, true
}

func unauthenticated(c *gin.Context) {
	response.Unauthorized(c, apperrors.ErrUnauthenticated.Code, apperrors.ErrUnauthenticated.Message)
}
