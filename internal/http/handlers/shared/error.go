package shared

import (
	"errors"

	"github.com/wikicore-next/internal/http/response"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 把业务错误哨兵映射为统一响应
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrDenied):
		response.Forbidden(c, "permission denied")
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, "invalid request")
	case errors.Is(err, service.ErrConflict):
		RespondError(c, response.CodeConflict, "conflict", err)
	default:
		RespondError(c, response.CodeInternal, "internal error", err)
	}
}
