package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-desk/internal/apperrors"
	"shortlink-desk/internal/i18n"
	"shortlink-desk/response"
)

// GlobalErrorMiddleware 全局错误中间件，AppError 按 Code 返回并翻译 Message
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					zap.L().Error("request failed",
						zap.String("path", c.Request.URL.Path),
						zap.Error(appErr))
				}
				message := i18n.T(c.Request.Context(), appErr.Message, nil)
				c.AbortWithStatusJSON(appErr.Code, response.Error(message))
				return
			}
		}

		// 默认处理未定义的错误
		zap.L().Error("unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(c.Errors.Last().Err))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			response.Error(i18n.T(c.Request.Context(), "error.system", nil)))
	}
}
