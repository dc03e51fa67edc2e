package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// Recovery 捕获 panic，记录堆栈后返回通用 500
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				RequestLogger(c, logger).Error("请求处理 panic",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					response.InternalError(c)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
