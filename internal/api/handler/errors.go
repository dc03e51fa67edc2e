package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// respondError 将 Service 错误映射为统一响应
// 非业务错误一律返回 500 通用消息，原始错误只进入请求日志
func respondError(c *gin.Context, err error) {
	if ae, ok := apperrors.As(err); ok && ae.Kind != apperrors.KindInternal {
		response.Error(c, ae.Kind.HTTPStatus(), ae.Code, ae.Message)
		return
	}
	_ = c.Error(err)
	response.InternalError(c)
}

// badRequest 请求体或查询参数绑定失败
func badRequest(c *gin.Context) {
	response.BadRequest(c, apperrors.ErrInvalidParams.Code, apperrors.ErrInvalidParams.Message)
}
