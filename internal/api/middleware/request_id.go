package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey     = "request_id"
	requestLoggerKey = "request_logger"

	// 外部传入的 Request-ID 最大长度
	requestIDMaxLen = 64
)

// RequestID 请求追踪 ID 中间件
// 沿用合法的 X-Request-ID，否则生成 UUID；
// 同时注入携带 request_id 字段的请求级 logger，供请求日志与 panic 恢复使用
func RequestID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Set(requestLoggerKey, logger.With(zap.String("request_id", rid)))
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// RequestLogger 返回请求级 logger，未经过 RequestID 中间件时返回 fallback
func RequestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(requestLoggerKey); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return fallback
}

// validRequestID 仅接受可见 ASCII 字符，防止日志注入
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}
