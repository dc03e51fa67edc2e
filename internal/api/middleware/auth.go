package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.ErrUnauthenticated)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, apperrors.ErrUnauthenticated)
			return
		}

		authenticate(c, jwtMgr, strings.TrimSpace(parts[1]))
	}
}

// JWTAuthQuery 优先读取 Authorization 头，缺失时读取 ?token=
// EventSource 与浏览器 WebSocket 无法设置自定义请求头
func JWTAuthQuery(jwtMgr *jwt.Manager) gin.HandlerFunc {
	header := JWTAuth(jwtMgr)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			header(c)
			return
		}
		token := c.Query("token")
		if token == "" {
			abortWith(c, apperrors.ErrUnauthenticated)
			return
		}
		authenticate(c, jwtMgr, token)
	}
}

func authenticate(c *gin.Context, jwtMgr *jwt.Manager, token string) {
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		abortWith(c, apperrors.ErrInvalidToken)
		return
	}

	// 将用户信息注入上下文
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)

	c.Next()
}

// RoleAuth 角色权限中间件
// 仅检查角色成员关系，不做归属校验
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := c.Get("role")
		userRole, isString := role.(string)
		if !ok || !isString || userRole == "" {
			abortWith(c, apperrors.ErrUnauthenticated)
			return
		}

		if _, ok := allowed[userRole]; !ok {
			abortWith(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

func abortWith(c *gin.Context, ae *apperrors.AppError) {
	response.Error(c, ae.Kind.HTTPStatus(), ae.Code, ae.Message)
	c.Abort()
}
